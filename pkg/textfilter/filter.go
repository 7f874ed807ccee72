// Package textfilter cleans up generative-model replies before parsing.
// Models habitually wrap structured output in code fences or pad it with
// prose; the adapter needs the bare JSON document.
package textfilter

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json|yaml)?\\s*(.*?)```")

// StripMarkup removes incidental formatting markers from a reply. A
// fenced block wins over surrounding prose; otherwise leading and
// trailing fence fragments and whitespace are trimmed.
func StripMarkup(reply string) string {
	if m := fenceRe.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}

	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ExtractJSON returns the outermost JSON object in a reply, tolerating
// prose before and after it. It returns the empty string when no object
// is present.
func ExtractJSON(reply string) string {
	cleaned := StripMarkup(reply)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return ""
	}
	return cleaned[start : end+1]
}
