package op

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k3l.io/go-graphblas/pkg/sparse/index"
)

func TestBinary_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   BinaryOperator[int32]
		x, y int32
		want int32
	}{
		{"Plus", Plus[int32](), 3, 4, 7},
		{"Minus", Minus[int32](), 3, 4, -1},
		{"Times", Times[int32](), 3, 4, 12},
		{"Divide", Divide[int32](), 9, 4, 2},
		{"DivideZeroByZero", Divide[int32](), 0, 0, 0},
		{"DividePositiveByZero", Divide[int32](), 5, 0, math.MaxInt32},
		{"DivideNegativeByZero", Divide[int32](), -5, 0, math.MinInt32},
		{"Min", Min[int32](), 3, -4, -4},
		{"Max", Max[int32](), 3, -4, 3},
		{"First", First[int32](), 3, 4, 3},
		{"Second", Second[int32](), 3, 4, 4},
		{"Pair", Pair[int32](), 3, 4, 1},
		{"IsEqualTo", IsEqualTo[int32](), 4, 4, 1},
		{"IsLessThan", IsLessThan[int32](), 4, 4, 0},
		{"IsGreaterThanOrEqualTo", IsGreaterThanOrEqualTo[int32](), 4, 4, 1},
		{"LogicalXor", LogicalXor[int32](), 0, 7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Apply(tt.x, tt.y))
		})
	}
}

func TestBinary_WrapsAround(t *testing.T) {
	assert.Equal(t, int8(-128), Plus[int8]().Apply(127, 1))
	assert.Equal(t, uint8(0), Plus[uint8]().Apply(255, 1))
	assert.Equal(t, uint16(65535), Minus[uint16]().Apply(0, 1))
	assert.Equal(t, uint8(math.MaxUint8), Divide[uint8]().Apply(3, 0))
}

func TestBinary_Bool(t *testing.T) {
	assert.True(t, Plus[bool]().Apply(true, false))
	assert.False(t, Times[bool]().Apply(true, false))
	assert.True(t, Minus[bool]().Apply(true, false))
	assert.False(t, Minus[bool]().Apply(true, true))
	assert.True(t, Divide[bool]().Apply(true, false))
	assert.True(t, IsGreaterThan[bool]().Apply(true, false))
}

func TestBinary_FloatNaN(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, 2.0, Min[float64]().Apply(nan, 2))
	assert.Equal(t, 2.0, Max[float64]().Apply(2, nan))
	assert.Equal(t, 0.0, IsLessThan[float64]().Apply(nan, 2))
	assert.True(t, math.IsInf(Divide[float64]().Apply(1, 0), 1))
}

func TestBinary_Accumulates(t *testing.T) {
	var zero BinaryOperator[int64]
	assert.True(t, zero.IsZero())
	assert.False(t, zero.Accumulates())
	assert.False(t, Assignment[int64]().Accumulates())
	assert.True(t, Assignment[int64]().IsAssignment())
	assert.True(t, Plus[int64]().Accumulates())
	custom := NewBinary("hypot", func(x, y float64) float64 {
		return math.Hypot(x, y)
	})
	assert.Equal(t, "hypot", custom.Name())
	assert.Equal(t, 5.0, custom.Apply(3, 4))
}

func TestUnary(t *testing.T) {
	tests := []struct {
		name string
		op   UnaryOperator[int16]
		x    int16
		want int16
	}{
		{"Identity", Identity[int16](), -3, -3},
		{"AdditiveInverse", AdditiveInverse[int16](), -3, 3},
		{"AbsoluteValue", AbsoluteValue[int16](), -3, 3},
		{"MultiplicativeInverseOne", MultiplicativeInverse[int16](), 1, 1},
		{"MultiplicativeInverseTwo", MultiplicativeInverse[int16](), 2, 0},
		{"MultiplicativeInverseZero", MultiplicativeInverse[int16](), 0, math.MaxInt16},
		{"One", One[int16](), -3, 1},
		{"LogicalNotNonzero", LogicalNot[int16](), -3, 0},
		{"LogicalNotZero", LogicalNot[int16](), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Apply(tt.x))
		})
	}
	assert.Equal(t, 0.5, MultiplicativeInverse[float64]().Apply(2))
	assert.True(t, MultiplicativeInverse[bool]().Apply(true))
	assert.Equal(t, uint32(math.MaxUint32), AdditiveInverse[uint32]().Apply(1))
}

func TestMonoid_Identities(t *testing.T) {
	assert.Equal(t, int8(0), PlusMonoid[int8]().Identity())
	assert.Equal(t, int8(1), TimesMonoid[int8]().Identity())
	assert.Equal(t, int8(math.MaxInt8), MinMonoid[int8]().Identity())
	assert.Equal(t, int8(math.MinInt8), MaxMonoid[int8]().Identity())
	assert.Equal(t, uint8(0), MaxMonoid[uint8]().Identity())
	assert.True(t, math.IsInf(MinMonoid[float64]().Identity(), 1))
	assert.True(t, LogicalAndMonoid[bool]().Identity())
	assert.False(t, LogicalOrMonoid[bool]().Identity())
}

func TestMonoid_Fold(t *testing.T) {
	values := []float64{3, -1, 4}
	assert.Equal(t, 6.0, PlusMonoid[float64]().Fold(values))
	assert.Equal(t, -12.0, TimesMonoid[float64]().Fold(values))
	assert.Equal(t, -1.0, MinMonoid[float64]().Fold(values))
	assert.Equal(t, 4.0, MaxMonoid[float64]().Fold(values))
	assert.Equal(t, 0.0, PlusMonoid[float64]().Fold(nil))
}

func TestSemiring(t *testing.T) {
	s := MinPlus[int64]()
	assert.Equal(t, "min-plus", s.Name())
	assert.Equal(t, int64(math.MaxInt64), s.Add().Identity())
	assert.Equal(t, int64(7), s.Multiply().Apply(3, 4))
	var zero Semiring[int64]
	assert.True(t, zero.IsZero())
	assert.False(t, PlusTimes[int64]().IsZero())
}

func TestIndexUnary_Positional(t *testing.T) {
	type cell struct{ row, col index.Index }
	cells := []cell{{0, 0}, {0, 1}, {1, 0}, {2, 2}, {0, 3}}
	tests := []struct {
		name string
		op   IndexUnaryOperator[int32, int64]
		k    int64
		want []bool
	}{
		{"Diagonal", IsOnDiagonal[int32](), 0, []bool{true, false, false, true, false}},
		{"SuperDiagonal", IsOnDiagonal[int32](), 1, []bool{false, true, false, false, false}},
		{"OffDiagonal", IsOffDiagonal[int32](), 0, []bool{false, true, true, false, true}},
		{"Upper", IsOnOrAboveDiagonal[int32](), 0, []bool{true, true, false, true, true}},
		{"StrictUpper", IsOnOrAboveDiagonal[int32](), 1, []bool{false, true, false, false, true}},
		{"Lower", IsOnOrBelowDiagonal[int32](), 0, []bool{true, false, true, true, false}},
		{"StrictLower", IsOnOrBelowDiagonal[int32](), -1, []bool{false, false, true, false, false}},
		{"RowLE", RowIndexLessOrEqual[int32](), 0, []bool{true, true, false, false, true}},
		{"RowGT", RowIndexGreater[int32](), 0, []bool{false, false, true, true, false}},
		{"RowGTNegative", RowIndexGreater[int32](), -1, []bool{true, true, true, true, true}},
		{"ColLE", ColumnIndexLessOrEqual[int32](), 1, []bool{true, true, true, false, false}},
		{"ColGT", ColumnIndexGreater[int32](), 1, []bool{false, false, false, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]bool, len(cells))
			for i, c := range cells {
				got[i] = tt.op.Apply(0, c.row, c.col, tt.k)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexUnary_HugeOffsets(t *testing.T) {
	upper := IsOnOrAboveDiagonal[int32]()
	assert.True(t, upper.Apply(0, 0, math.MaxUint64, math.MaxInt64))
	assert.False(t, upper.Apply(0, math.MaxUint64, 0, math.MinInt64+1))
	assert.True(t, IsOnDiagonal[int32]().Apply(0, 1<<63, 0, math.MinInt64))
}

func TestIndexUnary_Value(t *testing.T) {
	assert.True(t, IsValueGreaterThan[float32]().Apply(2, 0, 0, 1))
	assert.False(t, IsValueGreaterThan[float32]().Apply(1, 0, 0, 1))
	assert.True(t, IsValueGreaterThanOrEqualTo[float32]().Apply(1, 0, 0, 1))
	assert.True(t, IsValueLessThan[float32]().Apply(0, 0, 0, 1))
	assert.True(t, IsValueLessThanOrEqualTo[float32]().Apply(1, 0, 0, 1))
	assert.True(t, IsValueEqualTo[float32]().Apply(1, 0, 0, 1))
	assert.True(t, IsValueNotEqualTo[float32]().Apply(2, 0, 0, 1))
}

func TestByName(t *testing.T) {
	t.Run("Binary", func(t *testing.T) {
		b, err := BinaryByName[int64]("PLUS")
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.Apply(2, 3))
	})
	t.Run("Semiring", func(t *testing.T) {
		s, err := SemiringByName[float64]("max-times")
		require.NoError(t, err)
		assert.Equal(t, "max-times", s.Name())
	})
	t.Run("SemiringMalformed", func(t *testing.T) {
		_, err := SemiringByName[float64]("plustimes")
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})
	t.Run("SemiringUnknownMultiply", func(t *testing.T) {
		_, err := SemiringByName[float64]("plus-frobnicate")
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})
	t.Run("Unknown", func(t *testing.T) {
		_, err := MonoidByName[int8]("nope")
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})
	t.Run("Selectors", func(t *testing.T) {
		p, err := PositionalSelectorByName[int8]("tril")
		require.NoError(t, err)
		assert.Equal(t, "tril", p.Name())
		v, err := ValueSelectorByName[int8]("valuegt")
		require.NoError(t, err)
		assert.True(t, v.Apply(3, 0, 0, 2))
		u, err := UnaryByName[int8]("abs")
		require.NoError(t, err)
		assert.Equal(t, int8(3), u.Apply(-3))
	})
}
