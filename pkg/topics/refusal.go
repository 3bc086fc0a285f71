package topics

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// RefusalDetector decides whether the character has asked the player to
// leave, and whether a reply amounts to refusing to go. Pluggable for
// the same reason as Classifier.
type RefusalDetector interface {
	AskedToLeave(frameTexts []string) bool
	Refused(choiceText string) bool
}

// KeywordRefusalDetector matches fixed dismissal keywords and leading
// refusal phrases with Unicode case folding.
type KeywordRefusalDetector struct {
	folder cases.Caser
}

// Dismissal phrases the character uses when he wants the player gone.
var dismissalKeywords = []string{
	"уйди", "уходи", "иди уже", "надоел", "свали", "иди вон", "иди домой",
}

// A refusal is a reply that opens with one of these phrases.
var refusalPrefixes = []string{
	"не уйду", "не пойду", "не хочу уходить", "не собираюсь",
	"ни за что", "нет", "неа", "останусь",
}

func NewKeywordRefusalDetector() *KeywordRefusalDetector {
	return &KeywordRefusalDetector{folder: cases.Fold()}
}

// AskedToLeave reports whether any frame contains a dismissal phrase.
func (d *KeywordRefusalDetector) AskedToLeave(frameTexts []string) bool {
	for _, text := range frameTexts {
		folded := d.folder.String(text)
		for _, kw := range dismissalKeywords {
			if strings.Contains(folded, kw) {
				return true
			}
		}
	}
	return false
}

// Refused reports whether the choice text starts with a refusal phrase
// followed by a word boundary.
func (d *KeywordRefusalDetector) Refused(choiceText string) bool {
	folded := d.folder.String(strings.TrimSpace(choiceText))
	for _, prefix := range refusalPrefixes {
		if !strings.HasPrefix(folded, prefix) {
			continue
		}
		rest := folded[len(prefix):]
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
