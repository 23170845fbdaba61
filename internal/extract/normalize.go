package extract

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns a lowercased copy of content for substring checks.
// Casers are stateful, so a fresh one is built per call.
func Normalize(content string) string {
	return cases.Lower(language.Und).String(content)
}
