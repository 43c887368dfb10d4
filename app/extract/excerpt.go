package extract

import (
	"strings"
)

// buildExcerpt joins the first two substantial sentence fragments, falling
// back to the leading content when the text has no usable sentences. The
// excerpt is hard-capped at 300 characters.
func buildExcerpt(content string) string {
	fragments := make([]string, 0, 2)
	for _, fragment := range strings.FieldsFunc(content, isSentenceTerminal) {
		fragment = strings.TrimSpace(fragment)
		if len(fragment) > excerptFragmentMinLen {
			fragments = append(fragments, fragment)
		}
		if len(fragments) == 2 {
			break
		}
	}

	var excerpt string
	if len(fragments) > 0 {
		excerpt = strings.Join(fragments, ". ") + "."
	} else {
		excerpt = content
	}

	runes := []rune(excerpt)
	if len(runes) > excerptMaxLength {
		excerpt = string(runes[:excerptMaxLength]) + "..."
	}
	return excerpt
}

func isSentenceTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
