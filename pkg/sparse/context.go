package sparse

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

// Mode selects how a Context reports operation failures.
type Mode int

const (
	// Blocking reports every failure precisely, from the failing call.
	Blocking Mode = iota

	// NonBlocking reports engine failures with coarse attribution,
	// and also defers them to the next Wait.
	NonBlocking
)

func (m Mode) String() string {
	switch m {
	case Blocking:
		return "blocking"
	case NonBlocking:
		return "non-blocking"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "blocking" or "non-blocking".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "blocking":
		return Blocking, nil
	case "non-blocking", "nonblocking":
		return NonBlocking, nil
	}
	return 0, errors.Errorf("unknown mode %q", s)
}

// Context is the execution environment of containers and operations.
//
// A Context is safe for concurrent use.  Containers are not:
// concurrent mutating calls on one container need external locking.
type Context struct {
	mode    Mode
	workers int

	closed atomic.Bool
	live   atomic.Int64

	mu       sync.Mutex
	lastGood string
	deferred error
}

// ContextOpt is an option for Init.
type ContextOpt func(*Context)

// WithWorkers bounds the number of goroutines one operation may use.
// n <= 0 means GOMAXPROCS.
func WithWorkers(n int) ContextOpt {
	return func(c *Context) { c.workers = n }
}

// Init creates a new context in the given mode.
func Init(mode Mode, opts ...ContextOpt) (*Context, error) {
	switch mode {
	case Blocking, NonBlocking:
	default:
		return nil, errors.Errorf("invalid mode %v", mode)
	}
	c := &Context{mode: mode}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c, nil
}

// Mode returns the concurrency mode of the context.
func (c *Context) Mode() Mode { return c.mode }

// Workers returns the per-operation worker limit.
func (c *Context) Workers() int { return c.workers }

// Live returns the number of containers created under the context
// and not yet freed or finalized.
func (c *Context) Live() int64 { return c.live.Load() }

// Shutdown invalidates the context.  Subsequent container creation and
// operations fail with ErrUninitialized.  Shutdown is idempotent.
func (c *Context) Shutdown() { c.closed.Store(true) }

// Wait is the synchronization point of a NonBlocking context.
// It returns, and clears, the first engine failure since the last Wait.
func (c *Context) Wait() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.deferred
	c.deferred = nil
	return err
}

func (c *Context) check(what string) error {
	if c == nil || c.closed.Load() {
		return uninitialized(what)
	}
	return nil
}

func (c *Context) register() { c.live.Add(1) }

func (c *Context) unregister() { c.live.Add(-1) }

// run executes one operation, translating panics raised by user-supplied
// operators into EngineErrors attributed according to the context mode.
func (c *Context) run(name string, fn func() error) (err error) {
	if err := c.check(name); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = c.fail(name, r)
		}
	}()
	if err = fn(); err != nil {
		var pe *panicError
		if errors.As(err, &pe) {
			return c.fail(name, pe.value)
		}
		return err
	}
	c.mu.Lock()
	c.lastGood = name
	c.mu.Unlock()
	return nil
}

func (c *Context) fail(name string, cause any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err *EngineError
	switch c.mode {
	case NonBlocking:
		err = &EngineError{Status: "operation failed", LastGood: c.lastGood}
	default:
		err = &EngineError{Status: "operation failed",
			Op: name, Detail: fmt.Sprint(cause)}
	}
	if c.mode == NonBlocking && c.deferred == nil {
		c.deferred = err
	}
	return err
}

// parallel calls fn(i) for every i in [0, n) on at most Workers goroutines.
// A panic inside fn is returned as an error instead of crashing the process.
func (c *Context) parallel(n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	if n == 1 || c.workers == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(c.workers)
	for i := 0; i < n; i++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &panicError{r}
				}
			}()
			return fn(i)
		})
	}
	return g.Wait()
}

func uninitialized(what string) error {
	return &uninitializedError{what}
}

type uninitializedError struct{ what string }

func (e *uninitializedError) Error() string {
	return e.what + ": " + ErrUninitialized.Error()
}

func (e *uninitializedError) Is(target error) bool {
	return target == ErrUninitialized || target == ErrEngine
}
