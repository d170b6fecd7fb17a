// Package postprocess removes the code fence a model may wrap around its
// translation.
//
// It is applied by the translation client to the raw text returned by every
// generative backend before the result is cached or assembled.
package postprocess

import "strings"

// Clean trims text and unwraps an outer code fence around the whole
// response. The prompt fences the source text and models often mirror it.
// Nothing else is removed: a translation may legitimately contain tags or
// leading labels.
func Clean(text string) string {
	return strings.TrimSpace(removeFenceWrapping(strings.TrimSpace(text)))
}

const fence = "```"

// removeFenceWrapping strips an outer ``` fence when it wraps the entire
// text. The opening fence line may carry a language tag (```text). Fences
// that only wrap part of the text are left alone.
func removeFenceWrapping(text string) string {
	if !strings.HasPrefix(text, fence) || !strings.HasSuffix(text, fence) || len(text) < 2*len(fence) {
		return text
	}
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, fence), fence))
	}
	if tag := strings.TrimSpace(text[len(fence):nl]); strings.ContainsAny(tag, " \t`") {
		return text
	}
	inner := strings.TrimSuffix(text[nl+1:], fence)
	if strings.Contains(inner, fence) {
		return text
	}
	return strings.TrimSpace(inner)
}
