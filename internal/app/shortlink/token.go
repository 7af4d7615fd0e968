// Package shortlink holds the pure parts of recipe short links: token
// generation and the URL shapes a link is issued and resolved with.
package shortlink

import (
	"math/rand/v2"
	"strings"
	"sync"
)

const (
	// Alphabet is the symbol set tokens are drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Length is the number of symbols in a generated token.
	Length = 4
)

// Source yields uniformly distributed integers in [0, n).
type Source interface {
	IntN(n int) int
}

// Generator produces random tokens from a Source. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	src Source
}

// NewGenerator wraps src. A nil src means a ChaCha8 source seeded from the runtime.
func NewGenerator(src Source) *Generator {
	if src == nil {
		var seed [32]byte
		for i := 0; i < len(seed); i += 8 {
			v := rand.Uint64()
			for j := 0; j < 8; j++ {
				seed[i+j] = byte(v >> (8 * j))
			}
		}
		src = rand.New(rand.NewChaCha8(seed))
	}
	return &Generator{src: src}
}

// Next returns a fresh token of Length symbols.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(Alphabet[g.src.IntN(len(Alphabet))])
	}
	return b.String()
}

// Valid reports whether token could have been produced by a Generator.
func Valid(token string) bool {
	if len(token) != Length {
		return false
	}
	for i := 0; i < len(token); i++ {
		if strings.IndexByte(Alphabet, token[i]) < 0 {
			return false
		}
	}
	return true
}
