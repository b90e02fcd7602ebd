// Package alarm provides wake-up notifiers for monitoring sessions.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Notifier matches session.Notifier.
type Notifier interface {
	Alert(ctx context.Context) error
	Cancel(ctx context.Context) error
}

// Bell rings the terminal bell.
type Bell struct {
	W      io.Writer
	Repeat int

	mu sync.Mutex
}

// NewBell returns a bell writing repeat BEL characters to w.
func NewBell(w io.Writer, repeat int) *Bell {
	if repeat < 1 {
		repeat = 1
	}
	return &Bell{W: w, Repeat: repeat}
}

func (b *Bell) Alert(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.W == nil {
		return errors.New("bell: no output")
	}
	if _, err := io.WriteString(b.W, strings.Repeat("\a", max(b.Repeat, 1))); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// Cancel is a no-op; a bell that has rung cannot be unrung.
func (b *Bell) Cancel(context.Context) error { return nil }

// Func adapts plain functions to Notifier. Nil fields are no-ops.
type Func struct {
	OnAlert  func(ctx context.Context) error
	OnCancel func(ctx context.Context) error
}

func (f Func) Alert(ctx context.Context) error {
	if f.OnAlert == nil {
		return nil
	}
	return f.OnAlert(ctx)
}

func (f Func) Cancel(ctx context.Context) error {
	if f.OnCancel == nil {
		return nil
	}
	return f.OnCancel(ctx)
}

// Nop does nothing.
type Nop struct{}

func (Nop) Alert(context.Context) error  { return nil }
func (Nop) Cancel(context.Context) error { return nil }

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Alert(ctx context.Context) error {
	var errs []error
	for _, n := range m {
		if err := n.Alert(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Cancel(ctx context.Context) error {
	var errs []error
	for _, n := range m {
		if err := n.Cancel(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
