package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeSplit(t *testing.T) {
	cases := [][2]uint32{{0, 0}, {1, 0}, {0, 1}, {7, 42}, {^uint32(0), ^uint32(0)}}

	for _, c := range cases {
		hi, lo := Split64(Merge32(c[0], c[1]))
		assert.Equal(t, c[0], hi)
		assert.Equal(t, c[1], lo)
	}
}

func TestMergeOrdering(t *testing.T) {
	assert.Equal(t, uint64(1)<<32, Merge32(1, 0))
	assert.Equal(t, uint64(5), Merge32(0, 5))
}
