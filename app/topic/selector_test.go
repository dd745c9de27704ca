package topic

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func newTestSelector() *Selector {
	return NewSelector(rand.New(rand.NewPCG(1, 2)))
}

func TestSelectTopicPicksCandidate(t *testing.T) {
	selector := newTestSelector()

	word, ok := selector.SelectTopic("please define justice")
	if !ok {
		t.Fatal("Expected a topic word")
	}
	if word != "justice" {
		t.Errorf("Expected 'justice', got %q", word)
	}
}

func TestSelectTopicNoCandidates(t *testing.T) {
	selector := newTestSelector()

	for _, text := range []string{"", "   ", "what is it?", "42 1337 !!", "a an the of"} {
		if word, ok := selector.SelectTopic(text); ok {
			t.Errorf("Expected no topic for %q, got %q", text, word)
		}
	}
}

func TestCandidatesFiltersTokens(t *testing.T) {
	selector := newTestSelector()

	got := selector.Candidates("What is machine-learning, and WHY do people use ML3 models?")
	want := []string{"machine", "learning", "people", "use", "models"}

	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestCandidatesCaseFoldsStopWords(t *testing.T) {
	selector := newTestSelector()

	got := selector.Candidates("THE Algorithm")
	if !slices.Equal(got, []string{"Algorithm"}) {
		t.Errorf("Expected original casing of non-stop words, got %v", got)
	}
}

func TestSelectTopicDeterministicWithSeed(t *testing.T) {
	text := "consciousness freedom justice beauty"

	first, _ := NewSelector(rand.New(rand.NewPCG(7, 7))).SelectTopic(text)
	second, _ := NewSelector(rand.New(rand.NewPCG(7, 7))).SelectTopic(text)

	if first != second {
		t.Errorf("Expected same word for same seed, got %q and %q", first, second)
	}
}
