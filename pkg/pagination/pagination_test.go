package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-4))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestParamsNormalizeRejectsNegativeOffset(t *testing.T) {
	_, err := Params{Limit: 5, Offset: -1}.Normalize()
	require.Error(t, err)

	p, err := Params{Limit: 500, Offset: 3}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Params{Limit: MaxLimit, Offset: 3}, p)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{2, 3}, Slice(items, Params{Limit: 2, Offset: 1}))
	assert.Equal(t, []int{5}, Slice(items, Params{Limit: 2, Offset: 4}))
	assert.Empty(t, Slice(items, Params{Limit: 2, Offset: 9}))
	assert.Equal(t, items, Slice(items, Params{}))
}
