package data

import "github.com/mwantia/sizefs/content"

const (
	ContentTypeTextPlain         = "text/plain; charset=us-ascii"
	ContentTypeApplicationStream = "application/octet-stream"
)

// ContentTypeOf returns the MIME type of files generated by p. Constant
// patterns and alphabet-restricted random patterns are plain ASCII text.
func ContentTypeOf(p content.Pattern) string {
	if p.Kind() == content.KindRandom && p.Alphabet() == "" {
		return ContentTypeApplicationStream
	}
	return ContentTypeTextPlain
}
