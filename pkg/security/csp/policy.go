// Package csp builds Content-Security-Policy header values.
package csp

import "strings"

// directiveOrder fixes the output order so the header is stable across runs.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// Builder collects CSP directives. It is not safe for concurrent use.
type Builder struct {
	directives map[string][]string
}

// NewBuilder returns an empty policy builder.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

// Directive sets name to sources, replacing previous sources. Unknown
// directive names are ignored by Build.
func (b *Builder) Directive(name string, sources ...string) *Builder {
	b.directives[name] = sources
	return b
}

func (b *Builder) DefaultSrc(sources ...string) *Builder {
	return b.Directive("default-src", sources...)
}
func (b *Builder) ConnectSrc(sources ...string) *Builder {
	return b.Directive("connect-src", sources...)
}
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.Directive("frame-ancestors", sources...)
}

// Build renders the policy, e.g. "default-src 'none'; frame-ancestors 'none'".
// An empty builder renders "".
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, name := range directiveOrder {
		if sources := b.directives[name]; len(sources) > 0 {
			parts = append(parts, name+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// APIPolicy is the policy for JSON endpoints: nothing may be loaded or
// framed, only same-origin fetches.
func APIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		Directive("base-uri", "'self'").
		Directive("form-action", "'self'")
}
