package compose

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func newTestComposer(seed uint64) *Composer {
	return NewComposer(rand.New(rand.NewPCG(seed, seed)))
}

func TestComposeQuotesWord(t *testing.T) {
	composer := newTestComposer(1)

	reply, err := composer.Compose("algorithm")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(reply, `"algorithm"`) {
		t.Errorf("Expected reply to end with quoted word, got %q", reply)
	}
}

func TestComposeUsesOnlyDeclaredTemplates(t *testing.T) {
	composer := newTestComposer(42)
	seen := make(map[string]bool)

	for i := 0; i < 500; i++ {
		reply, err := composer.Compose("justice")
		if err != nil {
			t.Fatal(err)
		}

		prefix := strings.TrimSuffix(reply, `"justice"`)
		if prefix == reply {
			t.Fatalf("Reply %q does not contain the quoted word", reply)
		}

		found := false
		for _, template := range Templates() {
			if prefix == template {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Reply %q uses an unknown template", reply)
		}
		seen[prefix] = true
	}

	if len(seen) != len(Templates()) {
		t.Errorf("Expected all %d templates to be used, got %d", len(Templates()), len(seen))
	}
}

func TestComposeScenario(t *testing.T) {
	reply, err := newTestComposer(3).Compose("justice")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, `"justice"`) {
		t.Errorf("Expected reply to match *\"justice\"*, got %q", reply)
	}
}

func TestComposeInvalidTopic(t *testing.T) {
	composer := newTestComposer(1)

	for _, word := range []string{"", " ", "\t\n"} {
		if _, err := composer.Compose(word); !errors.Is(err, ErrInvalidTopic) {
			t.Errorf("Expected ErrInvalidTopic for %q, got %v", word, err)
		}
	}
}

func TestComposeDeterministicWithSeed(t *testing.T) {
	first, _ := newTestComposer(9).Compose("truth")
	second, _ := newTestComposer(9).Compose("truth")

	if first != second {
		t.Errorf("Expected identical replies for identical seeds, got %q and %q", first, second)
	}
}

func TestTemplatesReturnsCopy(t *testing.T) {
	pool := Templates()
	pool[0] = "changed "

	if Templates()[0] != "define " {
		t.Error("Templates should return a copy of the pool")
	}
	if len(pool) < 5 {
		t.Errorf("Expected at least 5 templates, got %d", len(pool))
	}
}
