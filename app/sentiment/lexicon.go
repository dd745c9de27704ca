package sentiment

import (
	"strings"
	"unicode"
)

// Lexicon scores text polarity by averaging the valence of known words.
// A negator directly before a word flips and dampens its valence.
type Lexicon struct {
	words     map[string]float64
	negators  map[string]bool
	negFactor float64
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		words:     defaultWords,
		negators:  defaultNegators,
		negFactor: -0.5,
	}
}

// Score returns a polarity in [-1, 1]; 0 when no known word occurs.
func (l *Lexicon) Score(text string) float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var sum float64
	var matched int
	negate := false

	for _, token := range tokens {
		token = strings.Trim(token, "'")
		if l.negators[token] {
			negate = true
			continue
		}

		valence, ok := l.words[token]
		if !ok {
			negate = false
			continue
		}

		if negate {
			valence *= l.negFactor
			negate = false
		}
		sum += valence
		matched++
	}

	if matched == 0 {
		return 0
	}

	return clamp(sum / float64(matched))
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

var defaultNegators = map[string]bool{
	"not": true, "no": true, "never": true, "isn't": true, "aren't": true, "wasn't": true,
	"don't": true, "doesn't": true, "didn't": true, "can't": true, "won't": true, "nothing": true,
}

var defaultWords = map[string]float64{
	// positive
	"amazing": 0.6, "awesome": 1.0, "beautiful": 0.85, "best": 1.0, "better": 0.5,
	"brilliant": 0.9, "nice": 0.6, "enjoy": 0.4, "excellent": 1.0, "fantastic": 0.4,
	"fine": 0.4, "fun": 0.3, "glad": 0.5, "good": 0.7, "great": 0.8, "happy": 0.8,
	"helpful": 0.5, "interesting": 0.5, "love": 0.5, "lovely": 0.5, "perfect": 1.0,
	"pleasant": 0.7, "right": 0.3, "super": 0.3, "thanks": 0.2, "useful": 0.3,
	"wonderful": 1.0, "cool": 0.35, "easy": 0.4, "clear": 0.1, "okay": 0.5, "ok": 0.5,
	// negative
	"angry": -0.5, "annoying": -0.8, "awful": -1.0, "bad": -0.7, "boring": -1.0,
	"broken": -0.4, "confused": -0.4, "confusing": -0.4, "crazy": -0.6, "dead": -0.2,
	"difficult": -0.5, "disgusting": -1.0, "dumb": -0.4, "hard": -0.3, "hate": -0.8,
	"horrible": -1.0, "idiot": -0.8, "insane": -1.0, "lost": -0.3, "mad": -0.6,
	"pathetic": -1.0, "poor": -0.4, "sad": -0.5, "scary": -0.5, "sick": -0.7,
	"stupid": -0.8, "terrible": -1.0, "ugly": -0.7, "unfair": -0.5, "upset": -0.4,
	"useless": -0.5, "worse": -0.4, "worst": -1.0, "wrong": -0.5, "ridiculous": -0.3,
	"frustrating": -0.6, "frustrated": -0.7, "tired": -0.4, "afraid": -0.6, "hurt": -0.5,
}
