package types

import (
	"fmt"
	"sort"
	"strings"
)

// DocumentStatus classifies the status line of an analysis
type DocumentStatus string

const (
	StatusActive       DocumentStatus = "active"
	StatusInactive     DocumentStatus = "inactive"
	StatusUndetermined DocumentStatus = "undetermined"
)

// StatusPrefix may precede the status on the first line of an analysis
const StatusPrefix = "Статус:"

// UndeterminedStatusLine is written when the page does not state a status
const UndeterminedStatusLine = "Статус: Не определен"

// Vocabulary maps lowercase status phrases to their classification
type Vocabulary map[string]DocumentStatus

// DefaultVocabulary lists the phrases Russian registries use for document status
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"действующий":    StatusActive,
		"действует":      StatusActive,
		"отменен":        StatusInactive,
		"отменён":        StatusInactive,
		"заменен":        StatusInactive,
		"заменён":        StatusInactive,
		"не действующий": StatusInactive,
		"не действует":   StatusInactive,
		"недействующий":  StatusInactive,
		"утратил силу":   StatusInactive,
		"не определен":   StatusUndetermined,
	}
}

// ParseVocabulary builds a vocabulary from configuration; an empty map yields the default
func ParseVocabulary(raw map[string]string) (Vocabulary, error) {
	if len(raw) == 0 {
		return DefaultVocabulary(), nil
	}
	v := make(Vocabulary, len(raw))
	for phrase, status := range raw {
		s := DocumentStatus(strings.ToLower(strings.TrimSpace(status)))
		switch s {
		case StatusActive, StatusInactive, StatusUndetermined:
		default:
			return nil, fmt.Errorf("unknown document status %q for phrase %q", status, phrase)
		}
		v[strings.ToLower(strings.TrimSpace(phrase))] = s
	}
	return v, nil
}

// phrases returns the vocabulary keys longest first so that negated forms win
func (v Vocabulary) phrases() []string {
	out := make([]string, 0, len(v))
	for p := range v {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len([]rune(out[i])) != len([]rune(out[j])) {
			return len([]rune(out[i])) > len([]rune(out[j]))
		}
		return out[i] < out[j]
	})
	return out
}

// Classify maps a status line to a DocumentStatus
func (v Vocabulary) Classify(line string) DocumentStatus {
	line = strings.ToLower(line)
	for _, p := range v.phrases() {
		if strings.Contains(line, p) {
			return v[p]
		}
	}
	return StatusUndetermined
}

// Keywords lists the phrases that signal a status, in prompt order
func (v Vocabulary) Keywords() []string {
	var out []string
	for _, p := range v.phrases() {
		if v[p] != StatusUndetermined {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// CleanStatusLine removes the first status prefix and surrounding space
func CleanStatusLine(line string) string {
	return strings.TrimSpace(strings.Replace(line, StatusPrefix, "", 1))
}
