package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	tests := []string{"", "Platform", "line\r\nbreak"}
	for _, s := range tests {
		p := String(s)
		require.NotNil(t, p)
		assert.Equal(t, s, *p)
	}
}

func TestFloat64(t *testing.T) {
	tests := []float64{0, 0.5, 13}
	for _, f := range tests {
		p := Float64(f)
		require.NotNil(t, p)
		assert.Equal(t, f, *p)
	}
}

func TestPointersAreDistinct(t *testing.T) {
	a, b := Float64(3), Float64(3)
	assert.NotSame(t, a, b)

	*a = 5
	assert.Equal(t, 3.0, *b, "points of one story must not leak into another")
}
