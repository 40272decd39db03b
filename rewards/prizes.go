package rewards

import (
	"math/rand"
	"sync"
	"time"
)

// Prize is one wheel outcome. A zero-value prize is a legitimate draw, not
// an error: the spin is still consumed.
type Prize struct {
	Value  uint
	Label  string
	Weight int
}

// DefaultPrizes is the static wheel table. Weights sum to 100.
var DefaultPrizes = []Prize{
	{Value: 5, Label: "5 points", Weight: 40},
	{Value: 10, Label: "10 points", Weight: 30},
	{Value: 0, Label: "Try again tomorrow", Weight: 20},
	{Value: 25, Label: "25 points", Weight: 10},
}

type PrizeTable struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	prizes  []Prize
	totalWt int
}

func NewPrizeTable(prizes []Prize) *PrizeTable {
	t := &PrizeTable{
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		prizes: prizes,
	}
	for _, p := range prizes {
		if p.Weight > 0 {
			t.totalWt += p.Weight
		}
	}
	return t
}

// Draw picks a uniform value in [0, totalWeight) and walks the table
// subtracting weights; the first entry to push the remainder negative wins.
func (t *PrizeTable) Draw() Prize {
	t.mu.Lock()
	pick := t.rnd.Intn(t.totalWt)
	t.mu.Unlock()
	for _, p := range t.prizes {
		pick -= p.Weight
		if pick < 0 {
			return p
		}
	}
	// unreachable while totalWt matches the table
	return t.prizes[len(t.prizes)-1]
}

// TotalWeight exposes the weight sum for chance displays.
func (t *PrizeTable) TotalWeight() int {
	return t.totalWt
}

// Prizes returns the table in declaration order.
func (t *PrizeTable) Prizes() []Prize {
	return t.prizes
}
