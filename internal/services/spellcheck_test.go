package services

import "testing"

func trainedChecker() *SpellChecker {
	spell := NewSpellChecker(0.7)
	spell.LoadFromCorpus([]string{
		"wĩ mwega mũno",
		"mũndũ mwega nĩ mũrata",
		"nyũmba ĩno nĩ nene",
	})
	return spell
}

func TestSpellChecker_Known(t *testing.T) {
	spell := trainedChecker()

	if !spell.Known("mwega") {
		t.Error("mwega appears in the corpus, should be known")
	}
	if spell.Known("xyzzy") {
		t.Error("xyzzy does not appear in the corpus, should be unknown")
	}
}

func TestSpellChecker_VocabularySize(t *testing.T) {
	spell := NewSpellChecker(0.7)
	if spell.VocabularySize() != 0 {
		t.Errorf("fresh checker should have empty vocabulary, got %d", spell.VocabularySize())
	}

	spell.LoadFromCorpus([]string{"mwega mwega mwega"})
	if spell.VocabularySize() != 1 {
		t.Errorf("repeated word should count once, got %d", spell.VocabularySize())
	}
}

func TestSpellChecker_LoadAccumulates(t *testing.T) {
	spell := NewSpellChecker(0.7)
	spell.LoadFromCorpus([]string{"mwega"})
	spell.LoadFromCorpus([]string{"mũrata"})
	if !spell.Known("mwega") || !spell.Known("mũrata") {
		t.Error("LoadFromCorpus should accumulate vocabulary across calls")
	}
}

func TestSpellChecker_Suggest(t *testing.T) {
	spell := trainedChecker()

	sug, sim := spell.Suggest("mwegaa")
	if sug != "mwega" {
		t.Errorf("Suggest(mwegaa) = %q, expected mwega", sug)
	}
	if sim < 0.7 {
		t.Errorf("suggestion similarity %f below the threshold", sim)
	}
}

func TestSpellChecker_SuggestNoMatch(t *testing.T) {
	spell := trainedChecker()

	sug, _ := spell.Suggest("qqqqqqqq")
	if sug != "" {
		t.Errorf("no vocabulary word is close to qqqqqqqq, got %q", sug)
	}
}
