package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveInstruction turns a task directory name into a readable task
// instruction. Separators collapse to single spaces and the result is
// title-cased; an unusable name falls back to a fixed placeholder.
func DeriveInstruction(taskName string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range taskName {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	instruction := strings.TrimSpace(cleaned.String())
	if instruction == "" {
		return "Unknown Task"
	}
	return cases.Title(language.Und).String(instruction)
}
