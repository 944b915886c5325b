package rng

import (
	"math/rand"
	"strings"

	"github.com/dgryski/go-wyhash"
)

// adjectives and nouns feed WordPair, which builds readable synthetic
// identifiers (fallback user names and referrer paths).
var adjectives = []string{
	"able", "bold", "brave", "bright", "calm", "clear", "early", "easy", "free",
	"full", "good", "great", "happy", "high", "keen", "large", "late", "little",
	"local", "long", "low", "major", "new", "old", "proud", "quick", "quiet",
	"real", "right", "small", "social", "special", "strong", "sure", "swift",
	"true", "warm", "white", "whole", "young",
}

var nouns = []string{
	"badger", "bear", "beech", "birch", "bison", "crane", "eagle", "falcon",
	"ferret", "finch", "fox", "hare", "heron", "lark", "lynx", "maple", "marten",
	"otter", "owl", "pike", "raven", "robin", "salmon", "seal", "sparrow",
	"stoat", "stork", "swan", "trout", "willow", "wolf", "wren",
}

// Rng is a deterministic random source seeded from a string. A given seed
// always produces the same sequence, which keeps generated traffic repeatable
// across runs. Not safe for concurrent use; each owner goroutine gets its own.
type Rng struct {
	rng *rand.Rand
}

func New(seed string) Rng {
	return Rng{rand.New(rand.NewSource(int64(wyhash.Hash([]byte(seed), 2467825690))))}
}

func (r Rng) Intn(n int) int {
	return r.rng.Intn(n)
}

// IntRange returns an int uniformly distributed in [min, max].
func (r Rng) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}

func (r Rng) Float(min, max float64) float64 {
	return r.rng.Float64()*(max-min) + min
}

func (r Rng) Float64() float64 {
	return r.rng.Float64()
}

func (r Rng) Choice(a []string) string {
	return a[r.Intn(len(a))]
}

// BoolWithProb returns true with probability p, where p is a percentage.
func (r Rng) BoolWithProb(p float64) bool {
	return r.rng.Float64()*100 < p
}

// WeightedIndex picks an index with probability proportional to its weight.
// Non-positive weights never win unless all weights are non-positive, in
// which case index 0 is returned.
func (r Rng) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	target := r.rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func (r Rng) String(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte("abcdefghijklmnopqrstuvwxyz"[r.Intn(26)])
	}
	return b.String()
}

func (r Rng) WordPair() string {
	return r.Choice(adjectives) + "-" + r.Choice(nouns)
}
