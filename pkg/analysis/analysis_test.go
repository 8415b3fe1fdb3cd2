package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgsn-co/XPlore/pkg/logger"
)

// fakeDetector maps exact texts to language codes without loading any models
type fakeDetector struct {
	answers map[string]string
}

func (d *fakeDetector) Detect(text string) string {
	if lang, ok := d.answers[text]; ok {
		return lang
	}
	return UnknownLanguage
}

func newTestAnalyzer(answers map[string]string) *Analyzer {
	return &Analyzer{
		detector: &fakeDetector{answers: answers},
		workers:  2,
		logger:   logger.NewNopLogger(),
	}
}

func TestSplitByLanguageAggregates(t *testing.T) {
	a := newTestAnalyzer(map[string]string{
		"the cat sat":   "en",
		"the dog ran":   "en",
		"the bird flew": "en",
		"le chat":       "fr",
		"le chien":      "fr",
		"???":           UnknownLanguage,
	})

	got := a.SplitByLanguage([]string{
		"the cat sat", "the dog ran", "the bird flew",
		"le chat", "le chien",
		"???",
	})

	want := []LanguageCount{
		{Language: "en", Posts: 3},
		{Language: "fr", Posts: 2},
		{Language: UnknownLanguage, Posts: 1},
	}
	assert.Equal(t, want, got)
}

func TestSplitByLanguageSortsTiesAlphabetically(t *testing.T) {
	a := newTestAnalyzer(map[string]string{
		"eins": "de",
		"zwei": "de",
		"one":  "en",
		"two":  "en",
		"un":   "fr",
	})

	got := a.SplitByLanguage([]string{"one", "eins", "un", "zwei", "two"})

	want := []LanguageCount{
		{Language: "de", Posts: 2},
		{Language: "en", Posts: 2},
		{Language: "fr", Posts: 1},
	}
	assert.Equal(t, want, got)
}

func TestSplitByLanguageEmptyInput(t *testing.T) {
	a := newTestAnalyzer(nil)

	got := a.SplitByLanguage(nil)

	assert.Empty(t, got)
}

func TestSplitByLanguageCountsEveryText(t *testing.T) {
	answers := make(map[string]string)
	texts := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		text := fmt.Sprintf("post number %d", i)
		texts = append(texts, text)
		if i%2 == 0 {
			answers[text] = "en"
		} else {
			answers[text] = "es"
		}
	}
	a := newTestAnalyzer(answers)
	a.workers = 4

	got := a.SplitByLanguage(texts)

	total := 0
	for _, lc := range got {
		total += lc.Posts
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, []LanguageCount{
		{Language: "en", Posts: 50},
		{Language: "es", Posts: 50},
	}, got)
}

func TestLinguaDetectorBlankText(t *testing.T) {
	d := &linguaDetector{}

	assert.Equal(t, UnknownLanguage, d.Detect(""))
	assert.Equal(t, UnknownLanguage, d.Detect("   \n\t"))
}
