package entity

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "title", Message: "is required"}
	assert.Equal(t, "title: is required", err.Error())
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(ErrNotFound))
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://example.com/feed"},
		{name: "valid http URL with port", url: "http://example.com:8080/rss"},
		{name: "empty URL", url: "", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/feed", wantErr: true},
		{name: "javascript scheme", url: "javascript:alert(1)", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL("feed_url", tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, IsPrivateIP(net.ParseIP("127.0.0.1")))
	assert.True(t, IsPrivateIP(net.ParseIP("10.1.2.3")))
	assert.True(t, IsPrivateIP(net.ParseIP("169.254.169.254")))
	assert.True(t, IsPrivateIP(net.ParseIP("::1")))
	assert.False(t, IsPrivateIP(net.ParseIP("93.184.216.34")))
}

func TestSourceDescriptor_Validate(t *testing.T) {
	src := SourceDescriptor{Name: "Sport Daily", FeedURL: "https://example.com/rss", Category: " Sports "}
	require.NoError(t, src.Validate())
	assert.Equal(t, "sports", src.Category)

	bad := SourceDescriptor{Name: "x", FeedURL: "https://example.com/rss"}
	assert.Error(t, bad.Validate())
}

func TestNewsArticle_Validate(t *testing.T) {
	a := NewsArticle{Title: "Hello", Category: "World"}
	require.NoError(t, a.Validate())
	assert.Equal(t, "world", a.Category)
	assert.Equal(t, StatusDraft, a.Status)
	assert.NotNil(t, a.Tags)

	a = NewsArticle{Title: "Hello", Category: "world", Status: "PUBLISHED"}
	require.NoError(t, a.Validate())
	assert.Equal(t, StatusPublished, a.Status)

	a = NewsArticle{Title: "Hello", Category: "world", Status: "pending"}
	assert.Error(t, a.Validate())

	a = NewsArticle{Category: "world"}
	assert.Error(t, a.Validate())
}

func TestNewsArticle_SetStatus(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := NewsArticle{Status: StatusDraft}

	a.SetStatus(StatusPublished, now)
	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, now, *a.PublishedAt)

	// re-publishing keeps the original timestamp
	a.SetStatus(StatusPublished, now.Add(time.Hour))
	assert.Equal(t, now, *a.PublishedAt)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello, World!":             "hello-world",
		"  Leading and trailing  ":  "leading-and-trailing",
		"Multiple---dashes & stuff": "multiple-dashes-stuff",
		"!!!":                       "article",
		"Café au lait":              "café-au-lait",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}

	long := Slugify("a very long title that keeps going and going and going well beyond any sensible slug length limit")
	assert.LessOrEqual(t, len(long), maxSlugLength)
}

func TestSuffixedSlug(t *testing.T) {
	s := SuffixedSlug("x")
	assert.Regexp(t, `^x-[a-z0-9]{5}$`, s)
	assert.NotEqual(t, s, SuffixedSlug("x"))
}

func TestSentinelDraft(t *testing.T) {
	d := SentinelDraft()
	assert.Equal(t, "Error Generating Title", d.Title)
	assert.Equal(t, "General", d.SubCategory)
	assert.Empty(t, d.Tags)
	assert.NotEmpty(t, d.Content)
}

func TestOTPRecord_Expired(t *testing.T) {
	now := time.Now()
	r := OTPRecord{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, r.Expired(now))
	assert.True(t, r.Expired(now.Add(time.Minute)))
}

func TestFlags_Empty(t *testing.T) {
	assert.True(t, Flags{}.Empty())
	v := true
	assert.False(t, Flags{IsHidden: &v}.Empty())
}
