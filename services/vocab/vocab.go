package vocab

import "math/rand"

// Source supplies a label word under a maximum-length constraint.
type Source interface {
	// Select returns a word with len(word) <= maxLen, or false when no
	// candidate qualifies.
	Select(maxLen int) (string, bool)
}

// DefaultWords is the built-in label vocabulary.
var DefaultWords = []string{
	"Bon", "Bons", "BonBon", "BonBons", "Bonus",
	"Bonanza", "Bonsai", "Bonmot", "Bonvivant", "Bonbonniere",
}

// ListSource picks uniformly at random from a fixed candidate list.
// Repeats across consecutive calls are allowed.
type ListSource struct {
	words []string
	rng   *rand.Rand
}

// NewListSource builds a source over words, falling back to DefaultWords
// when the list is empty. The seed makes selection reproducible in tests.
func NewListSource(words []string, seed int64) *ListSource {
	if len(words) == 0 {
		words = DefaultWords
	}
	return &ListSource{
		words: words,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (s *ListSource) Select(maxLen int) (string, bool) {
	if maxLen < 1 {
		return "", false
	}
	fits := make([]string, 0, len(s.words))
	for _, w := range s.words {
		if len(w) <= maxLen {
			fits = append(fits, w)
		}
	}
	if len(fits) == 0 {
		return "", false
	}
	return fits[s.rng.Intn(len(fits))], true
}
