package compose

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

var ErrInvalidTopic = errors.New("topic word is empty")

var templates = []string{
	"define ",
	"first define ",
	"well, how do you define ",
	"how are you defining ",
	"that depends on your definition of ",
}

// Templates returns a copy of the phrasing pool.
func Templates() []string {
	return append([]string(nil), templates...)
}

type Composer struct {
	rnd *rand.Rand
	mu  sync.Mutex
}

func NewComposer(rnd *rand.Rand) *Composer {
	return &Composer{rnd: rnd}
}

// Compose picks a template uniformly at random and appends the quoted word.
func (c *Composer) Compose(word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrInvalidTopic
	}

	c.mu.Lock()
	prefix := templates[c.rnd.IntN(len(templates))]
	c.mu.Unlock()

	return fmt.Sprintf("%s\"%s\"", prefix, word), nil
}
