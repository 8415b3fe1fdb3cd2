// Package analysis runs local analyses over collected tweet content.
package analysis

import (
	"sort"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/tgsn-co/XPlore/internal/detect"
	"github.com/tgsn-co/XPlore/pkg/logger"
)

// UnknownLanguage labels texts no language could be identified for
const UnknownLanguage = "Unknown"

// LanguageCount pairs a language code with the number of posts written in it
type LanguageCount struct {
	Language string
	Posts    int
}

// Analyzer runs analyses over collected content
type Analyzer struct {
	detector detect.Detector
	workers  int
	logger   logger.Logger
}

// New creates an Analyzer backed by the lingua language models. Model data
// loads lazily on first detection, so construction is cheap.
func New(workers int) *Analyzer {
	return &Analyzer{
		detector: newLinguaDetector(),
		workers:  workers,
		logger:   logger.GetLogger(),
	}
}

// SplitByLanguage identifies the language of every text and aggregates the
// counts. The returned slice is ordered most posts first, then alphabetically
// within equal counts, so output is deterministic.
func (a *Analyzer) SplitByLanguage(texts []string) []LanguageCount {
	a.logger.InfoWithFields("Splitting posts by language", map[string]interface{}{
		"posts":   len(texts),
		"workers": a.workers,
	})

	pool := detect.NewWorkerPool(a.workers, a.detector, a.logger)
	pool.Start()

	counts := make(map[string]int)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			counts[result.Language]++
		}
	}()

	for i, text := range texts {
		if err := pool.Submit(detect.Job{Index: i, Text: text}); err != nil {
			break
		}
	}

	pool.Stop()
	wg.Wait()

	result := make([]LanguageCount, 0, len(counts))
	for language, posts := range counts {
		result = append(result, LanguageCount{Language: language, Posts: posts})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Posts != result[j].Posts {
			return result[i].Posts > result[j].Posts
		}
		return result[i].Language < result[j].Language
	})

	return result
}

// linguaDetector adapts the lingua models to the detection pool
type linguaDetector struct {
	detector lingua.LanguageDetector
}

func newLinguaDetector() *linguaDetector {
	return &linguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code for the text's language.
// Blank texts and texts the models cannot decide on map to UnknownLanguage.
func (d *linguaDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return UnknownLanguage
	}

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return UnknownLanguage
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
