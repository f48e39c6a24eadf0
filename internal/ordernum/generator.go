// Package ordernum generates human-readable order numbers.
package ordernum

import (
	"fmt"
	"math/rand"
	"time"
)

// Generator produces order numbers. Implementations do not guarantee
// uniqueness; the order store's unique constraint is the backstop.
type Generator interface {
	Next(now time.Time) string
}

// RandomSuffixGenerator emits numbers shaped <prefix>-<YYYYMMDD>-<4 digits>,
// e.g. HS-20260101-1234. The date partition plus the random suffix keeps the
// collision probability low without a centralized counter.
type RandomSuffixGenerator struct {
	prefix string
}

// NewRandomSuffixGenerator creates a generator with the given store prefix.
func NewRandomSuffixGenerator(prefix string) *RandomSuffixGenerator {
	return &RandomSuffixGenerator{prefix: prefix}
}

// Next returns a new order number for the given time.
func (g *RandomSuffixGenerator) Next(now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", g.prefix, now.Format("20060102"), rand.Intn(10000))
}
