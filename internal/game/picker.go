package game

import (
	"math/rand/v2"

	"github.com/ongw/whatword/internal/catalog"
)

// Rand is the random source used for picking. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the process-wide math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Picker chooses the next category and letter, avoiding an immediate
// repeat whenever an alternative exists.
type Picker struct {
	rnd Rand
}

// NewPicker returns a Picker drawing from r, or from the process-wide
// source when r is nil.
func NewPicker(r Rand) *Picker {
	if r == nil {
		r = globalRand{}
	}
	return &Picker{rnd: r}
}

// PickCategory selects uniformly among the entries that do not display
// the same as previous. Sampling over the filtered set has the same
// distribution as retrying on a repeat, and it terminates when every
// entry renders like previous (e.g. a one-entry catalog).
func (p *Picker) PickCategory(cat *catalog.Catalog, previous *catalog.Category) catalog.Category {
	n := cat.Len()
	if previous == nil || n == 1 {
		return cat.At(p.rnd.IntN(n))
	}
	candidates := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !cat.At(i).SameDisplay(*previous) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return cat.At(p.rnd.IntN(n))
	}
	return cat.At(candidates[p.rnd.IntN(len(candidates))])
}

// PickLetter selects uniformly among the characters of pool, counting
// repeats, skipping previous. A pool whose only letter is previous
// returns that letter.
func (p *Picker) PickLetter(pool string, previous rune) rune {
	letters := []rune(pool)
	if len(letters) == 0 {
		return 0
	}
	candidates := make([]rune, 0, len(letters))
	for _, r := range letters {
		if r != previous {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return letters[p.rnd.IntN(len(letters))]
	}
	return candidates[p.rnd.IntN(len(candidates))]
}

// PickRound picks a category and then a letter from its pool. previous
// may be the zero Round.
func (p *Picker) PickRound(cat *catalog.Catalog, previous Round) Round {
	c := p.PickCategory(cat, previous.Category)
	return Round{Category: &c, Letter: p.PickLetter(c.Letters, previous.Letter)}
}
