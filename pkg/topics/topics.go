// Package topics tags dialogue lines with the conversation subjects they
// touch, so the oracle can be told not to repeat itself.
package topics

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Classifier maps a window of dialogue lines to a set of topic tags.
// The keyword table below is deliberately behind this interface so a
// smarter classifier can replace it without touching the session code.
type Classifier interface {
	Classify(lines []string) []string
}

// KeywordClassifier tags lines by case-folded substring match against a
// fixed topic -> keywords table.
type KeywordClassifier struct {
	table  map[string][]string
	folder cases.Caser
}

// DefaultTable is the built-in topic table. Keys are topic tags, values
// are substrings matched against folded dialogue text.
var DefaultTable = map[string][]string{
	"new_world_bananas": {"new world", "банан", "бананов", "фарм", "бирж"},
	"poland_escape":     {"польша", "польше", "тиса", "тису", "переплыть", "свалить"},
	"war_tck":           {"тцк", "военкомат", "повестк", "фронт", "войн"},
	"zhena":             {"женя", "жекусик", "бывшая"},
	"mother":            {"мама", "мамы", "мать"},
	"plans_3d":          {"3d", "модел", "блендер", "программировани"},
	"friends":           {"богдан", "илья", "миша"},
}

// NewKeywordClassifier builds a classifier over the given table. A nil
// table uses DefaultTable.
func NewKeywordClassifier(table map[string][]string) *KeywordClassifier {
	if table == nil {
		table = DefaultTable
	}
	return &KeywordClassifier{
		table:  table,
		folder: cases.Fold(),
	}
}

// Classify returns the sorted set of topics whose keywords occur in any
// of the given lines.
func (c *KeywordClassifier) Classify(lines []string) []string {
	folded := make([]string, len(lines))
	for i, line := range lines {
		folded[i] = c.folder.String(line)
	}

	var found []string
	for topic, keywords := range c.table {
		if matchAny(folded, keywords) {
			found = append(found, topic)
		}
	}
	sort.Strings(found)
	return found
}

func matchAny(lines []string, keywords []string) bool {
	for _, kw := range keywords {
		for _, line := range lines {
			if strings.Contains(line, kw) {
				return true
			}
		}
	}
	return false
}
