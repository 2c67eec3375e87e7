// Package location delivers the user's position as a stream of fixes.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/storelocator/internal/geo"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnsupported      = errors.New("location not supported")
)

// Fix is one position update.
type Fix struct {
	Point geo.Point
}

// Watcher subscribes to position updates. The channel is closed when ctx is
// cancelled or the source runs dry.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Fix, error)
}

// Fixed reports a single static position.
type Fixed struct {
	Point geo.Point
}

func (f Fixed) Watch(ctx context.Context) (<-chan Fix, error) {
	if !f.Point.Valid() {
		return nil, fmt.Errorf("fixed position %s: %w", f.Point, ErrUnsupported)
	}
	ch := make(chan Fix, 1)
	ch <- Fix{Point: f.Point}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

// Denied behaves like a user refusing the permission prompt.
type Denied struct{}

func (Denied) Watch(context.Context) (<-chan Fix, error) { return nil, ErrPermissionDenied }

// Unsupported behaves like a platform without positioning.
type Unsupported struct{}

func (Unsupported) Watch(context.Context) (<-chan Fix, error) { return nil, ErrUnsupported }

// Feed forwards positions pushed with Push. Invalid points are dropped.
type Feed struct {
	in chan geo.Point
}

func NewFeed() *Feed { return &Feed{in: make(chan geo.Point, 8)} }

// Push queues p. It blocks when the buffer is full.
func (f *Feed) Push(p geo.Point) { f.in <- p }

func (f *Feed) Watch(ctx context.Context) (<-chan Fix, error) {
	out := make(chan Fix)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case p := <-f.in:
				if !p.Valid() {
					continue
				}
				select {
				case out <- Fix{Point: p}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// FromConfig maps a location mode to a Watcher: fixed, denied or none.
func FromConfig(mode string, p geo.Point) (Watcher, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "fixed":
		return Fixed{Point: p}, nil
	case "denied":
		return Denied{}, nil
	case "none", "unsupported":
		return Unsupported{}, nil
	default:
		return nil, fmt.Errorf("unknown location mode %q", mode)
	}
}
