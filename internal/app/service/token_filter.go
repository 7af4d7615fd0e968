package service

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// TokenFilter remembers issued short link tokens. Test may report false positives, never false negatives.
type TokenFilter interface {
	Test(token string) bool
	Add(token string)
	Reset(tokens []string)
}

// BloomTokenFilter is a TokenFilter backed by a Bloom filter.
type BloomTokenFilter struct {
	mu       sync.RWMutex
	filter   *bloom.BloomFilter
	capacity uint
	fpRate   float64
}

// NewBloomTokenFilter sizes the filter for capacity tokens at the given false positive rate.
func NewBloomTokenFilter(capacity uint, fpRate float64) *BloomTokenFilter {
	if capacity == 0 {
		capacity = 1_000_000
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = 0.01
	}
	return &BloomTokenFilter{
		filter:   bloom.NewWithEstimates(capacity, fpRate),
		capacity: capacity,
		fpRate:   fpRate,
	}
}

func (f *BloomTokenFilter) Test(token string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(token)
}

func (f *BloomTokenFilter) Add(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(token)
}

// Reset replaces the filter contents with tokens.
func (f *BloomTokenFilter) Reset(tokens []string) {
	next := bloom.NewWithEstimates(f.capacity, f.fpRate)
	for _, token := range tokens {
		next.AddString(token)
	}

	f.mu.Lock()
	f.filter = next
	f.mu.Unlock()
}
