package sheetfix

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const maxBackoff = 2 * time.Second

// Session owns the state of one interactive editing session. Engine
// operations are pure functions on State; Session only serializes access
// and talks to the loader and exporters.
type Session struct {
	config Config
	loader Loader
	state  State
	mu     sync.Mutex
	closed bool
}

// LoadResult is delivered once by LoadAsync
type LoadResult struct {
	State State
	Err   error
}

// NewSession creates a session reading from loader. Nothing is loaded until
// Load is called.
func NewSession(loader Loader, config *Config) *Session {
	return &Session{
		config: config.withDefaults(),
		loader: loader,
	}
}

// Config returns the effective configuration
func (s *Session) Config() Config {
	return s.config
}

// Load parses the input with retry and replaces the state, discarding the
// previous history. On failure the previous state is kept and a *LoadError
// is returned.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	loader := s.loader
	s.mu.Unlock()

	st, err := s.load(ctx, loader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.state = st
	return nil
}

// Open switches the session to a new loader and loads it
func (s *Session) Open(ctx context.Context, loader Loader) error {
	st, err := s.load(ctx, loader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.loader = loader
	s.state = st
	return nil
}

// LoadAsync runs Load on its own goroutine and delivers exactly one result
func (s *Session) LoadAsync(ctx context.Context) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		if err := s.Load(ctx); err != nil {
			ch <- LoadResult{Err: err}
			return
		}
		st, err := s.State()
		ch <- LoadResult{State: st, Err: err}
	}()
	return ch
}

// load calls the loader with exponential backoff between attempts
func (s *Session) load(ctx context.Context, loader Loader) (State, error) {
	var result *ParseResult
	var err error

	for i := 0; i <= s.config.MaxRetries; i++ {
		result, err = loader.Load(ctx)
		if err == nil {
			break
		}

		if i < s.config.MaxRetries {
			backoff := time.Duration(1<<uint(i)) * s.config.RetryInterval
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return State{}, &LoadError{Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}
	}

	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return State{}, le
		}
		return State{}, &LoadError{Err: fmt.Errorf("failed after %d retries: %w", s.config.MaxRetries, err)}
	}

	return NewState(result, &s.config)
}

// State returns the current state
func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return State{}, ErrSessionClosed
	}
	if !s.state.Loaded() {
		return State{}, ErrNotLoaded
	}
	return s.state, nil
}

// Update applies op to the current state. The state is replaced only when
// op succeeds.
func (s *Session) Update(op func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return State{}, ErrSessionClosed
	}
	if !s.state.Loaded() {
		return State{}, ErrNotLoaded
	}

	next, err := op(s.state)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// Export writes the displayed snapshot, including any sort, with retry
func (s *Session) Export(ctx context.Context, exporter Exporter) error {
	st, err := s.State()
	if err != nil {
		return err
	}

	snap := st.View()
	headers, rows := snap.Headers(), snap.Rows()

	for i := 0; i <= s.config.MaxRetries; i++ {
		err = exporter.Export(ctx, headers, rows)
		if err == nil {
			return nil
		}

		if i < s.config.MaxRetries {
			backoff := time.Duration(1<<uint(i)) * s.config.RetryInterval
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("export failed after %d retries: %w", s.config.MaxRetries, err)
}

// Close discards the session state. Unexported edits are lost.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.state = State{}
	return nil
}
