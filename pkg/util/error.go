package util

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrChannelClosed is returned by ErrFromCh for a closed error channel.
var ErrChannelClosed = errors.New("error channel closed unexpectedly")

// ErrFromCh expects an error from the given channel and returns it.
// If ch is closed, ErrFromCh returns ErrChannelClosed.
func ErrFromCh(ctx context.Context, ch <-chan error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err, ok := <-ch:
		if !ok {
			err = ErrChannelClosed
		}
		return err
	}
}
