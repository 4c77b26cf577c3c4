package snapshot

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"k3l.io/go-graphblas/pkg/sparse"
)

// ErrNotFound signals a missing blob.
var ErrNotFound = errors.New("snapshot not found")

// Store keeps named blobs.
//
// Delete of a missing name is not an error.
// List returns names in ascending order.
type Store interface {
	Put(ctx context.Context, name string, blob []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// InvalidNameError signals a name that cannot be used as a store key.
type InvalidNameError struct {
	Name string
}

func (e InvalidNameError) Error() string {
	return "invalid snapshot name " + strconv.Quote(e.Name)
}

// CheckName validates a blob name: non-empty, printable, no leading slash.
func CheckName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") ||
		strings.ContainsFunc(name, func(r rune) bool { return r < ' ' || r == 0x7f }) {
		return InvalidNameError{Name: name}
	}
	return nil
}

// Save encodes a container with write and stores the blob under name.
func Save(ctx context.Context, s Store, name string, write func(w io.Writer) error) error {
	if err := CheckName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return errors.Wrapf(err, "cannot encode %q", name)
	}
	return s.Put(ctx, name, buf.Bytes())
}

// Load fetches the blob stored under name and decodes it in sctx.
func Load(ctx context.Context, sctx *sparse.Context, s Store, name string) (Object, error) {
	if err := CheckName(name); err != nil {
		return Object{}, err
	}
	blob, err := s.Get(ctx, name)
	if err != nil {
		return Object{}, err
	}
	obj, err := Decode(sctx, bytes.NewReader(blob))
	if err != nil {
		return Object{}, errors.Wrapf(err, "cannot decode %q", name)
	}
	return obj, nil
}
