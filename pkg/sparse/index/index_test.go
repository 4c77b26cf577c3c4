package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInt(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		want    Index
		wantErr bool
	}{
		{"Zero", 0, 0, false},
		{"Positive", 42, 42, false},
		{"MaxInt", math.MaxInt, Index(math.MaxInt), false},
		{"Negative", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromInt(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex_Int(t *testing.T) {
	i, err := Index(7).Int()
	require.NoError(t, err)
	assert.Equal(t, 7, i)
	_, err = Index(math.MaxUint64).Int()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestChecked(t *testing.T) {
	p, err := Checked(3, 5)
	require.NoError(t, err)
	assert.Equal(t, Index(15), p)
	_, err = Checked(1<<40, 1<<40)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSelector_Count(t *testing.T) {
	tests := []struct {
		name string
		s    Selector
		dim  Index
		want Index
	}{
		{"All", All(), 10, 10},
		{"ZeroValueIsAll", Selector{}, 4, 4},
		{"Explicit", Explicit(3, 1, 1), 10, 3},
		{"EmptyExplicit", Explicit(), 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.Count(tt.dim))
		})
	}
}

func TestSelector_AtAndInverse(t *testing.T) {
	s := Explicit(4, 0, 2)
	assert.Equal(t, Index(4), s.At(0))
	assert.Equal(t, Index(2), s.At(2))
	inv := s.Inverse(5)
	pos, ok := inv(2)
	assert.True(t, ok)
	assert.Equal(t, Index(2), pos)
	_, ok = inv(1)
	assert.False(t, ok)

	all := All().Inverse(3)
	pos, ok = all(2)
	assert.True(t, ok)
	assert.Equal(t, Index(2), pos)
	_, ok = all(3)
	assert.False(t, ok)
}

func TestSelector_ValidateAndUnique(t *testing.T) {
	assert.NoError(t, Explicit(0, 1, 2).Validate(3))
	err := Explicit(0, 3).Validate(3)
	assert.Equal(t, OutOfBoundsError{Index: 3, Bound: 3}, err)
	assert.True(t, All().Unique())
	assert.True(t, Explicit(1, 2).Unique())
	assert.False(t, Explicit(1, 2, 1).Unique())
}

func TestExplicit_CopiesInput(t *testing.T) {
	in := []Index{1, 2}
	s := Explicit(in...)
	in[0] = 9
	assert.Equal(t, []Index{1, 2}, s.Indices())
}
