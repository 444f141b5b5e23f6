package ai

import (
	"regexp"
	"strings"
)

// fencedBlock matches a markdown code fence, optionally tagged with one of
// the language labels models tend to use for Arduino code.
var fencedBlock = regexp.MustCompile("(?s)```(?:cpp|c|arduino)?[ \t]*\n(.*?)\n```")

// ExtractCode isolates sketch code from surrounding narrative text. The
// first fenced block wins; when the model emitted code directly with no
// fences, the whole trimmed text is taken as-is.
func ExtractCode(text string) string {
	if match := fencedBlock.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(text)
}
