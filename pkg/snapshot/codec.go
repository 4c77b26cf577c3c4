// Package snapshot serializes sparse containers into opaque,
// compressed blobs and keeps them in blob stores.
//
// A blob is a zstd-compressed JSON object:
//
//	{"format":1,"shape":"matrix","kind":"float64","rows":3,"columns":3,
//	 "entries":[[0,1,0.5],[2,0,1]]}
//
// Vectors carry "length" instead of "rows"/"columns" and [index, value]
// entries.  Header fields precede the entries.
// Non-finite floats are encoded as strings ("NaN", "+Inf", "-Inf").
package snapshot

import (
	"fmt"
	"io"
	"math"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/compress/zstd"

	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/index"
	"k3l.io/go-graphblas/pkg/sparse/op"
	"k3l.io/go-graphblas/pkg/sparse/value"
)

// FormatVersion is the blob format written by this package.
const FormatVersion = 1

// Shape tells a matrix blob from a vector blob.
type Shape string

const (
	ShapeMatrix Shape = "matrix"
	ShapeVector Shape = "vector"
)

var (
	// ErrFormat signals a malformed or unsupported blob.
	ErrFormat = errors.New("invalid snapshot format")

	// ErrKindMismatch signals a blob of another shape or value kind
	// than the one requested.
	ErrKindMismatch = errors.New("snapshot kind mismatch")
)

// Header describes the container held in a blob.
// Vectors have Size.Rows == 1 and their length in Size.Columns.
type Header struct {
	Shape Shape
	Kind  value.Kind
	Size  sparse.Size
}

func (h Header) String() string {
	if h.Shape == ShapeVector {
		return fmt.Sprintf("%s[%d] of %s", h.Shape, h.Size.Columns, h.Kind)
	}
	return fmt.Sprintf("%s[%dx%d] of %s", h.Shape, h.Size.Rows, h.Size.Columns, h.Kind)
}

// Object is a container together with its header.
// Value is a *sparse.Matrix[T] or a *sparse.Vector[T], T matching Header.Kind.
type Object struct {
	Header
	Value any
	write func(w io.Writer) error
}

// MatrixObject wraps m.
func MatrixObject[T value.Value](m *sparse.Matrix[T]) Object {
	return Object{
		Header: Header{Shape: ShapeMatrix, Kind: value.KindOf[T](), Size: m.Size()},
		Value:  m,
		write:  func(w io.Writer) error { return WriteMatrix(w, m) },
	}
}

// VectorObject wraps u.
func VectorObject[T value.Value](u *sparse.Vector[T]) Object {
	return Object{
		Header: Header{Shape: ShapeVector, Kind: value.KindOf[T](), Size: sparse.Size{Rows: 1, Columns: u.Len()}},
		Value:  u,
		write:  func(w io.Writer) error { return WriteVector(w, u) },
	}
}

// Write encodes the container into w.
func (o Object) Write(w io.Writer) error {
	if o.write == nil {
		return errors.New("empty snapshot object")
	}
	return o.write(w)
}

// Refresh updates the header from the current size of the container,
// which may have been resized since the object was made.
func (o *Object) Refresh() {
	switch c := o.Value.(type) {
	case interface{ Size() sparse.Size }:
		o.Size = c.Size()
	case interface{ Len() index.Index }:
		o.Size = sparse.Size{Rows: 1, Columns: c.Len()}
	}
}

// Free releases the container.
func (o Object) Free() {
	if f, ok := o.Value.(interface{ Free() }); ok {
		f.Free()
	}
}

// WriteMatrix writes m into w as a compressed blob.
func WriteMatrix[T value.Value](w io.Writer, m *sparse.Matrix[T]) error {
	it, err := m.Iterator()
	if err != nil {
		return err
	}
	h := Header{Shape: ShapeMatrix, Kind: value.KindOf[T](), Size: m.Size()}
	return writeBlob(w, h, func(e *jx.Encoder) error {
		for it.Next() {
			entry, err := it.Entry()
			if err != nil {
				return err
			}
			e.Arr(func(e *jx.Encoder) {
				e.UInt64(uint64(entry.Row))
				e.UInt64(uint64(entry.Column))
				encodeValue(e, entry.Value)
			})
		}
		return it.Err()
	})
}

// WriteVector writes u into w as a compressed blob.
func WriteVector[T value.Value](w io.Writer, u *sparse.Vector[T]) error {
	it, err := u.Iterator()
	if err != nil {
		return err
	}
	h := Header{Shape: ShapeVector, Kind: value.KindOf[T](), Size: sparse.Size{Rows: 1, Columns: u.Len()}}
	return writeBlob(w, h, func(e *jx.Encoder) error {
		for it.Next() {
			entry, err := it.Entry()
			if err != nil {
				return err
			}
			e.Arr(func(e *jx.Encoder) {
				e.UInt64(uint64(entry.Index))
				encodeValue(e, entry.Value)
			})
		}
		return it.Err()
	})
}

func writeBlob(w io.Writer, h Header, entries func(e *jx.Encoder) error) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "cannot create compressor")
	}
	e := jx.NewStreamingEncoder(zw, -1)
	e.ObjStart()
	e.Field("format", func(e *jx.Encoder) { e.Int(FormatVersion) })
	e.Field("shape", func(e *jx.Encoder) { e.Str(string(h.Shape)) })
	e.Field("kind", func(e *jx.Encoder) { e.Str(h.Kind.String()) })
	if h.Shape == ShapeVector {
		e.Field("length", func(e *jx.Encoder) { e.UInt64(uint64(h.Size.Columns)) })
	} else {
		e.Field("rows", func(e *jx.Encoder) { e.UInt64(uint64(h.Size.Rows)) })
		e.Field("columns", func(e *jx.Encoder) { e.UInt64(uint64(h.Size.Columns)) })
	}
	e.FieldStart("entries")
	e.ArrStart()
	if err := entries(e); err != nil {
		_ = zw.Close()
		return err
	}
	e.ArrEnd()
	e.ObjEnd()
	if err := e.Close(); err != nil {
		_ = zw.Close()
		return errors.Wrap(err, "cannot write snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "cannot flush compressor")
	}
	return nil
}

func encodeValue[T value.Value](e *jx.Encoder, v T) {
	k := value.KindOf[T]()
	switch {
	case k.IsBool():
		e.Bool(value.Truthy(v))
	case k.IsSigned():
		e.Int64(value.AsInt64(v))
	case k.IsUnsigned():
		e.UInt64(value.AsUint64(v))
	default:
		f := value.AsFloat64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			e.Str(value.Format(v))
		} else {
			e.Float64(f)
		}
	}
}

func decodeValue[T value.Value](d *jx.Decoder) (T, error) {
	k := value.KindOf[T]()
	switch {
	case k.IsBool():
		b, err := d.Bool()
		return value.FromBool[T](b), err
	case k.IsSigned():
		i, err := d.Int64()
		if err != nil {
			return value.Zero[T](), err
		}
		return value.Convert[int64, T](i)
	case k.IsUnsigned():
		u, err := d.UInt64()
		if err != nil {
			return value.Zero[T](), err
		}
		return value.Convert[uint64, T](u)
	}
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return value.Zero[T](), err
		}
		return value.Parse[T](s)
	}
	f, err := d.Float64()
	if err != nil {
		return value.Zero[T](), err
	}
	return value.Convert[float64, T](f)
}

// Decode reads a blob from r and builds its container in ctx.
func Decode(ctx *sparse.Context, r io.Reader) (obj Object, err error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Object{}, errors.Wrap(err, "cannot create decompressor")
	}
	defer zr.Close()
	var (
		format  int64
		b       builder
		entries bool
	)
	d := jx.Decode(zr, -1)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		if entries {
			return errors.Errorf("%w: field %q after entries", ErrFormat, key)
		}
		switch key {
		case "format":
			v, err := d.Int64()
			format = v
			return err
		case "shape":
			s, err := d.Str()
			obj.Shape = Shape(s)
			return err
		case "kind":
			s, err := d.Str()
			if err != nil {
				return err
			}
			obj.Kind, err = value.ParseKind(s)
			return err
		case "rows", "columns", "length":
			v, err := d.UInt64()
			switch key {
			case "rows":
				obj.Size.Rows = index.Index(v)
			case "columns", "length":
				obj.Size.Columns = index.Index(v)
			}
			return err
		case "entries":
			entries = true
			if err := obj.Header.validate(format); err != nil {
				return err
			}
			b = newBuilder(obj.Kind)
			return d.Arr(func(d *jx.Decoder) error {
				return b.add(d, obj.Shape)
			})
		}
		return d.Skip()
	})
	if err != nil {
		return Object{}, errors.Wrap(err, "cannot decode snapshot")
	}
	if !entries {
		return Object{}, errors.Wrap(ErrFormat, "missing entries")
	}
	return b.build(ctx, obj.Header)
}

func (h *Header) validate(format int64) error {
	if format != FormatVersion {
		return errors.Errorf("%w: unsupported format version %d", ErrFormat, format)
	}
	switch h.Shape {
	case ShapeMatrix:
	case ShapeVector:
		h.Size.Rows = 1
	default:
		return errors.Errorf("%w: unknown shape %q", ErrFormat, h.Shape)
	}
	if h.Kind == value.Invalid {
		return errors.Wrap(ErrFormat, "missing value kind")
	}
	return nil
}

// builder accumulates decoded entries of one value kind.
type builder interface {
	add(d *jx.Decoder, shape Shape) error
	build(ctx *sparse.Context, h Header) (Object, error)
}

type typedBuilder[T value.Value] struct {
	coo []sparse.CooEntry[T]
	vec []sparse.Entry[T]
}

func newBuilder(k value.Kind) builder {
	switch k {
	case value.Bool:
		return &typedBuilder[bool]{}
	case value.Int8:
		return &typedBuilder[int8]{}
	case value.Int16:
		return &typedBuilder[int16]{}
	case value.Int32:
		return &typedBuilder[int32]{}
	case value.Int64:
		return &typedBuilder[int64]{}
	case value.Uint8:
		return &typedBuilder[uint8]{}
	case value.Uint16:
		return &typedBuilder[uint16]{}
	case value.Uint32:
		return &typedBuilder[uint32]{}
	case value.Uint64:
		return &typedBuilder[uint64]{}
	case value.Float32:
		return &typedBuilder[float32]{}
	default:
		return &typedBuilder[float64]{}
	}
}

func (b *typedBuilder[T]) add(d *jx.Decoder, shape Shape) error {
	var (
		idx [2]index.Index
		n   int
		v   T
		got bool
	)
	want := 2
	if shape == ShapeVector {
		want = 1
	}
	err := d.Arr(func(d *jx.Decoder) error {
		switch {
		case n < want:
			i, err := d.UInt64()
			if err != nil {
				return err
			}
			idx[n] = index.Index(i)
		case n == want:
			var err error
			if v, err = decodeValue[T](d); err != nil {
				return err
			}
			got = true
		default:
			return errors.Wrap(ErrFormat, "too many fields in entry")
		}
		n++
		return nil
	})
	if err != nil {
		return err
	}
	if !got {
		return errors.Wrap(ErrFormat, "too few fields in entry")
	}
	if shape == ShapeVector {
		b.vec = append(b.vec, sparse.Entry[T]{Index: idx[0], Value: v})
	} else {
		b.coo = append(b.coo, sparse.CooEntry[T]{Row: idx[0], Column: idx[1], Value: v})
	}
	return nil
}

func (b *typedBuilder[T]) build(ctx *sparse.Context, h Header) (Object, error) {
	if h.Shape == ShapeVector {
		u, err := sparse.NewVectorFromElements(ctx, h.Size.Columns, b.vec, op.BinaryOperator[T]{})
		if err != nil {
			return Object{}, err
		}
		return VectorObject(u), nil
	}
	m, err := sparse.NewMatrixFromElements(ctx, h.Size, b.coo, op.BinaryOperator[T]{})
	if err != nil {
		return Object{}, err
	}
	return MatrixObject(m), nil
}

// DecodeMatrix decodes a matrix blob of value type T.
func DecodeMatrix[T value.Value](ctx *sparse.Context, r io.Reader) (*sparse.Matrix[T], error) {
	obj, err := Decode(ctx, r)
	if err != nil {
		return nil, err
	}
	m, ok := obj.Value.(*sparse.Matrix[T])
	if !ok {
		obj.Free()
		return nil, mismatch[T](obj.Header, ShapeMatrix)
	}
	return m, nil
}

// DecodeVector decodes a vector blob of value type T.
func DecodeVector[T value.Value](ctx *sparse.Context, r io.Reader) (*sparse.Vector[T], error) {
	obj, err := Decode(ctx, r)
	if err != nil {
		return nil, err
	}
	u, ok := obj.Value.(*sparse.Vector[T])
	if !ok {
		obj.Free()
		return nil, mismatch[T](obj.Header, ShapeVector)
	}
	return u, nil
}

func mismatch[T value.Value](h Header, shape Shape) error {
	return errors.Errorf("%w: want %s of %s, got %s",
		ErrKindMismatch, shape, value.KindOf[T](), h)
}
