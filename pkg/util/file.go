package util

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/compress/zstd"
)

// ZstdSuffix marks files that OpenInputFile and OpenOutputFile
// transparently decompress and compress.
const ZstdSuffix = ".zst"

type DummyWriteCloser struct{}

func (wc DummyWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (wc DummyWriteCloser) Close() error                { return nil }

type WriteNoCloser struct{ io.Writer }

func (w WriteNoCloser) Close() error { return nil }

// zstdWriteCloser closes the encoder, then the file under it.
type zstdWriteCloser struct {
	*zstd.Encoder
	file io.Closer
}

func (w zstdWriteCloser) Close() error {
	err := w.Encoder.Close()
	if err2 := w.file.Close(); err == nil {
		err = err2
	}
	return err
}

// zstdReadCloser releases the decoder, then closes the file under it.
type zstdReadCloser struct {
	*zstd.Decoder
	file io.Closer
}

func (r zstdReadCloser) Close() error {
	r.Decoder.Close()
	return r.file.Close()
}

// OpenOutputFile opens and returns a file for output.
// If filename is "", it returns a dummy WriteCloser that does nothing.
// If filename is "-"/"!", it returns a stdout/stderr; its Close() does nothing.
// A filename ending in ZstdSuffix is written zstd-compressed.
func OpenOutputFile(filename string) (io.WriteCloser, error) {
	switch filename {
	case "":
		return DummyWriteCloser{}, nil
	case "-":
		return WriteNoCloser{os.Stdout}, nil
	case "!":
		return WriteNoCloser{os.Stderr}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filename, ZstdSuffix) {
		return f, nil
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		Close(f)
		return nil, errors.Wrapf(err, "cannot compress %q", filename)
	}
	return zstdWriteCloser{zw, f}, nil
}

// OpenInputFile opens and returns a file for input.
// If filename is "-", it returns stdin; its Close() does nothing.
// A filename ending in ZstdSuffix is read zstd-decompressed.
func OpenInputFile(filename string) (io.ReadCloser, error) {
	if filename == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filename, ZstdSuffix) {
		return f, nil
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		Close(f)
		return nil, errors.Wrapf(err, "cannot decompress %q", filename)
	}
	return zstdReadCloser{zr, f}, nil
}

// Close tries to close a closer, ignoring any error.
// For use with defer.
func Close(c io.Closer) { _ = c.Close() }
