package services

import "sync"

// SpellChecker is a frequency-table spell checker trained from corpus text.
// Construct once at startup with NewSpellChecker, feed it approved text via
// LoadFromCorpus, and inject it into TextHeuristics. Safe for concurrent use.
type SpellChecker struct {
	mu               sync.RWMutex
	frequencies      map[string]int
	suggestThreshold float64
}

func NewSpellChecker(suggestThreshold float64) *SpellChecker {
	return &SpellChecker{
		frequencies:      make(map[string]int),
		suggestThreshold: suggestThreshold,
	}
}

// LoadFromCorpus tokenizes the given texts and adds every token to the
// frequency table. Call repeatedly to accumulate vocabulary.
func (s *SpellChecker) LoadFromCorpus(texts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			s.frequencies[tok]++
		}
	}
}

// VocabularySize returns the number of distinct known words.
func (s *SpellChecker) VocabularySize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frequencies)
}

// Known reports whether the word appears in the trained vocabulary.
func (s *SpellChecker) Known(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frequencies[word] > 0
}

// Suggest returns the most frequent known word whose similarity to the given
// token meets the suggestion threshold, or "" when no candidate qualifies.
func (s *SpellChecker) Suggest(token string) (string, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := ""
	bestSim := 0.0
	bestFreq := 0
	for word, freq := range s.frequencies {
		sim := SequenceRatio(token, word)
		if sim < s.suggestThreshold {
			continue
		}
		if sim > bestSim || (sim == bestSim && freq > bestFreq) {
			best = word
			bestSim = sim
			bestFreq = freq
		}
	}
	return best, bestSim
}
