package spopt

import (
	"k3l.io/go-graphblas/pkg/label"
	"k3l.io/go-graphblas/pkg/sparse/index"
)

type Option = OptionForSet[Set]

var Noop = NoopForSet[Set]()

// WithOptions replace the current option set with the given one.
func WithOptions(options *Set) Option {
	return func(o *Set) {
		*o = *options
	}
}

func TransposeFirst(o *Set)       { o.TransposeFirst = true }
func TransposeSecond(o *Set)      { o.TransposeSecond = true }
func StructuralComplement(o *Set) { o.StructuralComplement = true }
func Replace(o *Set)              { o.Replace = true }
func StructureOnlyMask(o *Set)    { o.StructureOnlyMask = true }

func TransposeFirstSetTo(v bool) Option       { return func(o *Set) { o.TransposeFirst = v } }
func TransposeSecondSetTo(v bool) Option      { return func(o *Set) { o.TransposeSecond = v } }
func StructuralComplementSetTo(v bool) Option { return func(o *Set) { o.StructuralComplement = v } }
func ReplaceSetTo(v bool) Option              { return func(o *Set) { o.Replace = v } }
func StructureOnlyMaskSetTo(v bool) Option    { return func(o *Set) { o.StructureOnlyMask = v } }

func IndexNamed(name string) Option       { return func(o *Set) { AxisName(name)(o.Row) } }
func RowIndexNamed(name string) Option    { return func(o *Set) { AxisName(name)(o.Row) } }
func ColumnIndexNamed(name string) Option { return func(o *Set) { AxisName(name)(o.Column) } }
func ValueNamed(name string) Option       { return func(o *Set) { ValueName(name)(o.Value) } }

func LiteralIndices(o *Set)       { LiteralRowIndices(o); LiteralColumnIndices(o) }
func LiteralRowIndices(o *Set)    { LiteralAxisIndices(o.Row) }
func LiteralColumnIndices(o *Set) { LiteralAxisIndices(o.Column) }

func LabelsInto(m *label.Map) Option {
	return func(o *Set) { RowLabelsInto(m)(o); ColumnLabelsInto(m)(o) }
}
func RowLabelsInto(m *label.Map) Option    { return func(o *Set) { AxisLabelsInto(m)(o.Row) } }
func ColumnLabelsInto(m *label.Map) Option { return func(o *Set) { AxisLabelsInto(m)(o.Column) } }

func LabelsIn(m *label.Map) Option {
	return func(o *Set) { RowLabelsIn(m)(o); ColumnLabelsIn(m)(o) }
}
func RowLabelsIn(m *label.Map) Option    { return func(o *Set) { AxisLabelsIn(m)(o.Row) } }
func ColumnLabelsIn(m *label.Map) Option { return func(o *Set) { AxisLabelsIn(m)(o.Column) } }

func FixedDim(rows, columns index.Index) Option {
	return func(o *Set) { FixedAxisDim(rows)(o.Row); FixedAxisDim(columns)(o.Column) }
}
func FixedRows(dim index.Index) Option    { return func(o *Set) { FixedAxisDim(dim)(o.Row) } }
func FixedColumns(dim index.Index) Option { return func(o *Set) { FixedAxisDim(dim)(o.Column) } }

func MinDim(rows, columns index.Index) Option {
	return func(o *Set) { MinAxisDim(rows)(o.Row); MinAxisDim(columns)(o.Column) }
}
func MinRows(dim index.Index) Option    { return func(o *Set) { MinAxisDim(dim)(o.Row) } }
func MinColumns(dim index.Index) Option { return func(o *Set) { MinAxisDim(dim)(o.Column) } }

func IncludeZeroSetTo(include bool) Option {
	return func(o *Set) { IncludeZeroValueSetTo(include)(o.Value) }
}
func IncludeZero(o *Set) { IncludeZeroValue(o.Value) }
func ExcludeZero(o *Set) { ExcludeZeroValue(o.Value) }

func AllowNegativeSetTo(allow bool) Option {
	return func(o *Set) { AllowNegativeValueSetTo(allow)(o.Value) }
}
func AllowNegative(o *Set)    { AllowNegativeValue(o.Value) }
func DisallowNegative(o *Set) { DisallowNegativeValue(o.Value) }
