// Package spopt holds the options that tune sparse operations
// and sparse container import/export.
//
// Options are functional; spopt.New builds a fresh Set from the defaults
// on every call, so there is no shared mutable default anywhere.
package spopt

// New returns a new master option set with defaults + given options.
//
// See Set.Reset for the option defaults.
func New(opts ...Option) *Set { return newForSet[Set](opts...) }

// Set is the master set of sparse operation and import/export options.
type Set struct {
	// TransposeFirst makes an operation read its first input as transposed.
	TransposeFirst bool

	// TransposeSecond makes an operation read its second input as transposed.
	TransposeSecond bool

	// StructuralComplement makes the mask allow writes where it is
	// absent or false, instead of where it is present and true.
	StructuralComplement bool

	// Replace clears output positions the mask does not allow.
	Replace bool

	// StructureOnlyMask treats every stored mask element as true,
	// regardless of its value.
	StructureOnlyMask bool

	Row    *Axis // also for vectors
	Column *Axis
	Value  *Value
}

// Reset resets all options to their defaults.
//
// - No input is transposed; the mask is used as-is, by value.
// - Unmasked output positions keep their prior value (no replace).
// - "i", "j", "v" for CSV field names.
// - Coordinates from CSV are assumed to be integer indices.
// - Dimensions have no minimum, and can grow to accommodate incoming indices.
// - Negative and explicit zero entries are kept.
func (o *Set) Reset() {
	*o = Set{Row: &Axis{}, Column: &Axis{}, Value: &Value{}}
	resetAndApply(o.Row)
	resetAndApply(o.Column, AxisName("j"))
	resetAndApply(o.Value)
}

// Axes returns the row/column axis options,
// swapped if TransposeFirst is set.
func (o *Set) Axes() (row, col *Axis) {
	if o.TransposeFirst {
		return o.Column, o.Row
	}
	return o.Row, o.Column
}
