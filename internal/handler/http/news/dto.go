package news

import (
	"encoding/json"
	"errors"
	"net/http"

	"newsdesk/internal/domain/entity"
	newsUC "newsdesk/internal/usecase/news"
)

type createRequest struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Summary     string   `json:"summary"`
	Content     string   `json:"content"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	IsLatest    bool     `json:"isLatest"`
	IsTrending  bool     `json:"isTrending"`
	IsHidden    bool     `json:"isHidden"`
}

func (r createRequest) input() newsUC.CreateInput {
	return newsUC.CreateInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Category:    r.Category,
		SubCategory: r.SubCategory,
		Summary:     r.Summary,
		Content:     r.Content,
		Image:       r.Image,
		Tags:        r.Tags,
		Status:      r.Status,
		IsLatest:    r.IsLatest,
		IsTrending:  r.IsTrending,
		IsHidden:    r.IsHidden,
	}
}

// updateRequest uses pointers so absent fields stay untouched.
type updateRequest struct {
	Title       *string   `json:"title"`
	Slug        *string   `json:"slug"`
	Category    *string   `json:"category"`
	SubCategory *string   `json:"subCategory"`
	Summary     *string   `json:"summary"`
	Content     *string   `json:"content"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
	Status      *string   `json:"status"`
	IsLatest    *bool     `json:"isLatest"`
	IsTrending  *bool     `json:"isTrending"`
	IsHidden    *bool     `json:"isHidden"`
}

func (r updateRequest) input() newsUC.UpdateInput {
	return newsUC.UpdateInput(r)
}

var errInvalidBody = errors.New("invalid request body")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}

// statusFor maps service errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, newsUC.ErrNewsNotFound):
		return http.StatusNotFound
	case errors.Is(err, newsUC.ErrNoFlags),
		errors.Is(err, errInvalidBody),
		entity.IsValidationError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
