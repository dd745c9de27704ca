package sentiment

import (
	"testing"
)

func TestLexiconScore(t *testing.T) {
	lexicon := NewLexicon()

	tests := []struct {
		name string
		text string
		want func(float64) bool
	}{
		{"positive", "I love this amazing wonderful day!", func(s float64) bool { return s > 0 }},
		{"negative", "I hate this terrible awful situation.", func(s float64) bool { return s < -0.1 }},
		{"neutral", "The weather is okay today.", func(s float64) bool { return s >= -0.1 }},
		{"no known words", "what does algorithm mean", func(s float64) bool { return s == 0 }},
		{"empty", "", func(s float64) bool { return s == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := lexicon.Score(tt.text)
			if !tt.want(score) {
				t.Errorf("Unexpected score %f for %q", score, tt.text)
			}
			if score < -1 || score > 1 {
				t.Errorf("Score %f out of range", score)
			}
		})
	}
}

func TestLexiconNegation(t *testing.T) {
	lexicon := NewLexicon()

	plain := lexicon.Score("this is good")
	negated := lexicon.Score("this is not good")

	if plain <= 0 {
		t.Errorf("Expected positive score, got %f", plain)
	}
	if negated >= 0 {
		t.Errorf("Expected negated score to be negative, got %f", negated)
	}
}

func TestLexiconNegationResetsOnUnknownWord(t *testing.T) {
	lexicon := NewLexicon()

	if score := lexicon.Score("not really good"); score <= 0 {
		t.Errorf("Negator separated by an unknown word should not apply, got %f", score)
	}
}
