package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for range 20 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestCryptoInRange(t *testing.T) {
	src := Crypto()
	for range 100 {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSequenceWraps(t *testing.T) {
	s := NewSequence(0.1, 0.2)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.2, s.Float64())
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 3, s.Drawn())

	empty := NewSequence()
	assert.Equal(t, 0.5, empty.Float64())
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		name   string
		draw   float64
		lo, hi int
		want   int
	}{
		{"low end", 0.0, 5, 9, 5},
		{"high end", 0.999, 5, 9, 9},
		{"middle", 0.5, 5, 9, 7},
		{"degenerate", 0.7, 3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntRange(NewSequence(tt.draw), tt.lo, tt.hi))
		})
	}
}

func TestFromSeed(t *testing.T) {
	_, ok := FromSeed(7).(*Seeded)
	assert.True(t, ok)
	_, ok = FromSeed(0).(cryptoSource)
	assert.True(t, ok)
}
