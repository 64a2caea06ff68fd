package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its metrics label.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns covers every route with a path parameter. Most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/breaking-news/[^/]+$`), Template: "/breaking-news/{id}"},

	{Pattern: regexp.MustCompile(`^/news/getnewsbysection/[^/]+$`), Template: "/news/getnewsbysection/{section}"},
	{Pattern: regexp.MustCompile(`^/news/getnewsbyslug/[^/]+/[^/]+$`), Template: "/news/getnewsbyslug/{section}/{slug}"},
	{Pattern: regexp.MustCompile(`^/news/updatenews/[^/]+/[^/]+$`), Template: "/news/updatenews/{section}/{slug}"},
	{Pattern: regexp.MustCompile(`^/news/deletenews/[^/]+/[^/]+$`), Template: "/news/deletenews/{section}/{slug}"},
	{Pattern: regexp.MustCompile(`^/news/flags/[^/]+/[^/]+$`), Template: "/news/flags/{section}/{slug}"},
}

// NormalizePath maps request paths carrying sections, slugs or ids to their
// route template so metrics labels stay bounded. The templates use the same
// {name} syntax as the router patterns.
//
//	NormalizePath("/breaking-news/12")                     // "/breaking-news/{id}"
//	NormalizePath("/news/getnewsbyslug/sports/cup-final") // "/news/getnewsbyslug/{section}/{slug}"
//	NormalizePath("/news/getallnews?status=draft")         // "/news/getallnews"
//	NormalizePath("/unknown/123")                          // "/unknown/123"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
