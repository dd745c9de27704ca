package topic

import (
	"math/rand/v2"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const minWordLength = 3

// Selector picks a topic word from free text: alphabetic tokens that are not
// English stop words, chosen at random.
type Selector struct {
	rnd    *rand.Rand
	folder cases.Caser
	mu     sync.Mutex
}

func NewSelector(rnd *rand.Rand) *Selector {
	return &Selector{
		rnd:    rnd,
		folder: cases.Fold(),
	}
}

// SelectTopic returns false when the text holds no suitable candidate.
func (s *Selector) SelectTopic(text string) (string, bool) {
	candidates := s.Candidates(text)
	if len(candidates) == 0 {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return candidates[s.rnd.IntN(len(candidates))], true
}

// Candidates returns every eligible word in text order, duplicates included.
func (s *Selector) Candidates(text string) []string {
	normalized := norm.NFC.String(text)
	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []string
	for _, token := range tokens {
		if !isAlpha(token) || len([]rune(token)) < minWordLength {
			continue
		}
		if stopWords[s.folder.String(token)] {
			continue
		}
		candidates = append(candidates, token)
	}

	return candidates
}

func isAlpha(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
