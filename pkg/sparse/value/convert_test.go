package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Succeeds(t *testing.T) {
	t.Run("Identity", func(t *testing.T) {
		v, err := Convert[int32, int32](-5)
		require.NoError(t, err)
		assert.Equal(t, int32(-5), v)
	})
	t.Run("Widening", func(t *testing.T) {
		v, err := Convert[int8, int64](-5)
		require.NoError(t, err)
		assert.Equal(t, int64(-5), v)
	})
	t.Run("NarrowingInRange", func(t *testing.T) {
		v, err := Convert[int64, uint8](255)
		require.NoError(t, err)
		assert.Equal(t, uint8(255), v)
	})
	t.Run("BoolToNumber", func(t *testing.T) {
		v, err := Convert[bool, float64](true)
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})
	t.Run("IntegralFloatToInt", func(t *testing.T) {
		v, err := Convert[float64, int16](-300)
		require.NoError(t, err)
		assert.Equal(t, int16(-300), v)
	})
	t.Run("OneToBool", func(t *testing.T) {
		v, err := Convert[uint8, bool](1)
		require.NoError(t, err)
		assert.True(t, v)
	})
	t.Run("Float64ToFloat32Rounds", func(t *testing.T) {
		v, err := Convert[float64, float32](0.1)
		require.NoError(t, err)
		assert.Equal(t, float32(0.1), v)
	})
	t.Run("NaNBetweenFloats", func(t *testing.T) {
		v, err := Convert[float64, float32](math.NaN())
		require.NoError(t, err)
		assert.True(t, math.IsNaN(float64(v)))
	})
	t.Run("MaxUint64ToFloat", func(t *testing.T) {
		_, err := Convert[uint64, float64](math.MaxUint64)
		assert.NoError(t, err)
	})
}

func TestConvert_Fails(t *testing.T) {
	tests := []struct {
		name string
		conv func() error
	}{
		{"NegativeToUnsigned", func() error {
			_, err := Convert[int64, uint64](-1)
			return err
		}},
		{"SignedOverflow", func() error {
			_, err := Convert[int32, int8](128)
			return err
		}},
		{"UnsignedToSignedOverflow", func() error {
			_, err := Convert[uint64, int64](math.MaxUint64)
			return err
		}},
		{"UnsignedOverflow", func() error {
			_, err := Convert[uint16, uint8](256)
			return err
		}},
		{"FractionalToInt", func() error {
			_, err := Convert[float64, int32](1.5)
			return err
		}},
		{"NaNToInt", func() error {
			_, err := Convert[float32, int64](float32(math.NaN()))
			return err
		}},
		{"InfToUint", func() error {
			_, err := Convert[float64, uint32](math.Inf(1))
			return err
		}},
		{"TwoPow63ToInt64", func() error {
			_, err := Convert[float64, int64](1 << 63)
			return err
		}},
		{"Float32Overflow", func() error {
			_, err := Convert[float64, float32](1e300)
			return err
		}},
		{"TwoToBool", func() error {
			_, err := Convert[int8, bool](2)
			return err
		}},
		{"NegativeFloatToUnsigned", func() error {
			_, err := Convert[float64, uint8](-1)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conv()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConversion)
			var convErr *ConversionError
			assert.ErrorAs(t, err, &convErr)
		})
	}
}

func TestMustConvert_Panics(t *testing.T) {
	assert.Panics(t, func() { MustConvert[int16, uint8](-1) })
	assert.Equal(t, uint8(3), MustConvert[int16, uint8](3))
}
