package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 1000; i++ {
		found[c.Intn(5)] = true
	}

	a.True(found[0])
	a.True(found[1])
	a.True(found[2])
	a.True(found[3])
	a.True(found[4])
	a.False(found[5])
}

func TestSeeded_Intn(t *testing.T) {
	a := assert.New(t)

	s1 := NewSeeded(42)
	s2 := NewSeeded(42)
	for i := 0; i < 50; i++ {
		a.Equal(s1.Intn(90), s2.Intn(90))
	}
}

func TestFixed_Intn(t *testing.T) {
	a := assert.New(t)

	f := &Fixed{Values: []int{0, 7, 12}}
	a.Equal(0, f.Intn(10))
	a.Equal(7, f.Intn(10))
	a.Equal(2, f.Intn(10))
	a.Equal(0, f.Intn(10))

	a.Equal(0, (&Fixed{}).Intn(3))
}
