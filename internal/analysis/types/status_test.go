package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_Classify(t *testing.T) {
	v := DefaultVocabulary()

	tests := []struct {
		line string
		want DocumentStatus
	}{
		{"Действующий", StatusActive},
		{"Статус: Действует", StatusActive},
		{"Не действующий", StatusInactive},
		{"Отменён, заменен на ГОСТ 2.105-2019", StatusInactive},
		{"Утратил силу в РФ", StatusInactive},
		{"Не определен", StatusUndetermined},
		{"что-то другое", StatusUndetermined},
		{"", StatusUndetermined},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Classify(tt.line))
		})
	}
}

func TestParseVocabulary(t *testing.T) {
	v, err := ParseVocabulary(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultVocabulary(), v)

	v, err = ParseVocabulary(map[string]string{" В силе ": "Active"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, v.Classify("Документ в силе"))

	_, err = ParseVocabulary(map[string]string{"x": "maybe"})
	assert.Error(t, err)
}

func TestVocabulary_Keywords(t *testing.T) {
	kw := DefaultVocabulary().Keywords()
	assert.Contains(t, kw, "действующий")
	assert.Contains(t, kw, "не действующий")
	assert.NotContains(t, kw, "не определен")
}

func TestCleanStatusLine(t *testing.T) {
	assert.Equal(t, "Действует", CleanStatusLine("  Статус: Действует "))
	assert.Equal(t, "Отменен", CleanStatusLine("Отменен"))
	assert.Equal(t, "", CleanStatusLine("Статус:"))
}

func TestAnalysisRequest_Validate(t *testing.T) {
	assert.NoError(t, (&AnalysisRequest{Message: "m", URL: "https://a"}).Validate())
	assert.Error(t, (&AnalysisRequest{Message: " ", URL: "https://a"}).Validate())
	assert.Error(t, (&AnalysisRequest{Message: "m"}).Validate())
}
