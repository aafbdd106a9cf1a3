package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_Sequence(t *testing.T) {
	gen := NewFixedIDGenerator("suite")

	assert.Equal(t, "suite-0001", gen.Generate())
	assert.Equal(t, "suite-0002", gen.Generate())
	assert.Equal(t, "suite-0003", gen.Generate())
}

func TestFixedIDGenerator_DefaultPrefix(t *testing.T) {
	gen := NewFixedIDGenerator("")
	assert.Equal(t, "run-0001", gen.Generate())
}

func TestFixedIDGenerator_IndependentInstances(t *testing.T) {
	a := NewFixedIDGenerator("a")
	b := NewFixedIDGenerator("a")

	a.Generate()
	assert.Equal(t, "a-0001", b.Generate())
	assert.Equal(t, "a-0002", a.Generate())
}
