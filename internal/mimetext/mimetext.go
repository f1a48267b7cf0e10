// Package mimetext renders a message part tree as plain text.
package mimetext

import (
	"encoding/base64"
	"strings"

	"github.com/matta/jobmail/internal/message"

	"golang.org/x/text/encoding/unicode"
)

// HTMLPlaceholder stands in for a body that only has an HTML rendering
// which could not be converted to text.
const HTMLPlaceholder = "[HTML content: a text extractor is required to display this message]"

// Extract walks the tree rooted at root depth first and returns the
// concatenated text/plain and text/html content, decoded.
func Extract(root *message.Part) (plain, html string) {
	var p, h strings.Builder
	walk(root, &p, &h)
	return p.String(), h.String()
}

func walk(part *message.Part, plain, html *strings.Builder) {
	if part == nil {
		return
	}
	if part.Data != "" {
		switch mediaType(part.MimeType) {
		case "text/plain":
			plain.WriteString(Decode(part.Data))
		case "text/html":
			html.WriteString(Decode(part.Data))
		}
	}
	for _, child := range part.Parts {
		walk(child, plain, html)
	}
}

// mediaType strips parameters and case from a MIME type.
func mediaType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

// Body returns the best plain text rendering of the tree: the
// text/plain content when there is any, otherwise the text of the
// HTML content, otherwise "".
func Body(root *message.Part) string {
	plain, html := Extract(root)
	if plain != "" {
		return plain
	}
	if html == "" {
		return ""
	}
	text, err := HTMLToText(html)
	if err != nil {
		return HTMLPlaceholder
	}
	return text
}

// Decode decodes base64 body data into UTF-8 text.  It never fails:
// characters outside the base64 alphabets are skipped, a dangling final
// character becomes U+FFFD, and byte sequences that are not valid UTF-8
// become U+FFFD.
func Decode(data string) string {
	raw, ok := decodeBase64(data)
	text, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		text = []byte(strings.ToValidUTF8(string(raw), "�"))
	}
	if !ok {
		text = append(text, "�"...)
	}
	return string(text)
}

func isBase64(r rune) bool {
	return 'A' <= r && r <= 'Z' || 'a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '-' || r == '_'
}

// decodeBase64 accepts both alphabets, with or without padding.  As in
// RFC 2045 section 6.8, anything outside the alphabet is ignored.  A
// final group of a single character carries no whole byte; it is
// dropped and false returned.
func decodeBase64(data string) ([]byte, bool) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '+':
			return '-'
		case '/':
			return '_'
		}
		if !isBase64(r) {
			return -1
		}
		return r
	}, data)

	ok := true
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
		ok = false
	}
	raw, err := base64.RawURLEncoding.DecodeString(clean)
	if err != nil {
		return nil, false
	}
	return raw, ok
}
