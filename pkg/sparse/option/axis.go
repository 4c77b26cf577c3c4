package spopt

import (
	"k3l.io/go-graphblas/pkg/label"
	"k3l.io/go-graphblas/pkg/sparse/index"
)

// Axis is the set of options for one CSV coordinate column.
type Axis struct {
	Name   string
	Labels *label.Map
	Alloc  bool        // allocate indices to accommodate labels not in Labels
	Dim    index.Index // minimum (if Grow) or fixed (if not Grow) dimension
	Grow   bool        // whether dimension can increase to match incoming indices
}

// Reset resets all axis options to their defaults.
//
// - Axis name is "i".
// - No label map: coordinates are parsed as integer literals.
// - No minimum Dim, axis starts from zero dimension.
// - Dim grows automatically to accommodate new indices.
func (o *Axis) Reset() {
	*o = Axis{}
	AxisName("i")(o)
	LiteralAxisIndices(o)
	MinAxisDim(0)(o)
}

// AxisName specifies an alternative axis name, e.g. "j" for the column axis.
func AxisName(name string) OptionForSet[Axis] {
	return func(o *Axis) { o.Name = name }
}

// LiteralAxisIndices causes coordinates to be parsed as integer indices.
func LiteralAxisIndices(o *Axis) { o.Labels, o.Alloc = nil, false }

// AxisLabelsIn causes coordinates to be looked up in a label map,
// treating missing labels as errors.
func AxisLabelsIn(m *label.Map) OptionForSet[Axis] {
	return func(o *Axis) { o.Labels, o.Alloc = m, false }
}

// AxisLabelsInto causes coordinates to be looked up in a label map,
// allocating new indices for missing labels.
func AxisLabelsInto(m *label.Map) OptionForSet[Axis] {
	return func(o *Axis) { o.Labels, o.Alloc = m, true }
}

// FixedAxisDim sets a fixed axis dimension;
// out-of-range indices are treated as errors.
func FixedAxisDim(dim index.Index) OptionForSet[Axis] {
	return func(o *Axis) { o.Dim, o.Grow = dim, false }
}

// MinAxisDim sets a minimum axis dimension;
// the dimension grows to accommodate out-of-range indices.
func MinAxisDim(dim index.Index) OptionForSet[Axis] {
	return func(o *Axis) { o.Dim, o.Grow = dim, true }
}
