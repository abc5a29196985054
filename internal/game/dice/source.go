package dice

import (
	"crypto/rand"
	"math/big"
	"sync"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// SequenceSource replays a fixed list of raw values, cycling when exhausted.
// Each value is reduced modulo n. It is used to replay a table's physical dice.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceSource returns a SequenceSource over values.
//
// Precondition: len(values) > 0 and every value >= 0.
func NewSequenceSource(values ...int) *SequenceSource {
	if len(values) == 0 {
		panic("dice: NewSequenceSource needs at least one value")
	}
	return &SequenceSource{values: append([]int(nil), values...)}
}

// Intn returns the next value modulo n.
//
// Precondition: n > 0.
func (s *SequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

// FateFaces converts Fate faces (-1, 0, +1) into the raw values a
// SequenceSource must replay to produce them.
func FateFaces(faces ...int) []int {
	out := make([]int, len(faces))
	for i, f := range faces {
		out[i] = f + 1
	}
	return out
}
