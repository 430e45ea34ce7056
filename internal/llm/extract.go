package llm

import (
	"strings"
	"unicode"
)

const codeFence = "```"

// Extract normalizes an agent response into a single text payload. The first
// block of a non-empty BlockList wins; any other shape is stringified. Code
// fence markers and surrounding whitespace are removed. Extract never fails;
// callers must still treat the result as untrusted.
func Extract(resp Response) string {
	var s string
	switch r := resp.(type) {
	case nil:
		s = ""
	case BlockList:
		if len(r.Blocks) == 0 {
			s = r.String()
			break
		}
		switch b := r.Blocks[0].(type) {
		case ContentBlock:
			s = b.Content
		case TextBlock:
			s = b.Text
		default:
			s = b.String()
		}
	default:
		s = r.String()
	}
	return StripCodeFences(s)
}

// StripCodeFences removes a leading fence (with or without a language tag,
// blanks allowed before the tag), a trailing fence and the surrounding
// whitespace.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, codeFence) {
		s = strings.TrimPrefix(s, codeFence)
		s = strings.TrimLeft(s, " \t")
		s = strings.TrimLeftFunc(s, isFenceTagRune)
	}
	if strings.HasSuffix(s, codeFence) {
		s = strings.TrimSuffix(s, codeFence)
	}
	return strings.TrimSpace(s)
}

// StructuredPayload returns native list data when the agent handed back
// already-decoded rows instead of text.
func StructuredPayload(resp Response) (any, bool) {
	var v any
	switch r := resp.(type) {
	case Opaque:
		v = r.Value
	case BlockList:
		if len(r.Blocks) == 0 {
			return nil, false
		}
		o, ok := r.Blocks[0].(Opaque)
		if !ok {
			return nil, false
		}
		v = o.Value
	default:
		return nil, false
	}
	if list, ok := v.([]any); ok {
		return list, true
	}
	return nil, false
}

func isFenceTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '+'
}
