package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"sync"
	"time"
)

// Classifier answers whether an image contains a cat with at least the given
// confidence, expressed in percent.
type Classifier interface {
	ContainsCat(ctx context.Context, img image.Image, confidenceThreshold float32) (bool, error)
}

// Mode controls the answers of a FakeClassifier.
type Mode string

const (
	// ModeRandom answers randomly.
	ModeRandom Mode = "random"
	// ModeAlways always sees a cat.
	ModeAlways Mode = "always"
	// ModeNever never sees a cat.
	ModeNever Mode = "never"
)

var (
	// ErrImageRequired is returned when no image is provided.
	ErrImageRequired = errors.New("image must be provided")
	// errUnknownMode is returned for unsupported classifier modes.
	errUnknownMode = errors.New("unknown classifier mode")
)

// FakeClassifier pretends to recognise cats.
type FakeClassifier struct {
	// mode selects how answers are produced.
	mode Mode
	// rnd is the source for ModeRandom.
	rnd *rand.Rand
	// mu protects rnd, which is not safe for concurrent use.
	mu sync.Mutex
}

// NewFakeClassifier creates a fake classifier. A zero seed picks a time-based one.
func NewFakeClassifier(mode Mode, seed uint64) (*FakeClassifier, error) {
	switch mode {
	case ModeRandom, ModeAlways, ModeNever:
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownMode, mode)
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // Sign does not matter for a seed.
	}

	return &FakeClassifier{
		mode: mode,
		rnd:  rand.New(rand.NewPCG(seed, seed>>1)), //nolint:gosec // Not a security context.
	}, nil
}

// ContainsCat answers according to the configured mode. The threshold is ignored.
func (c *FakeClassifier) ContainsCat(ctx context.Context, img image.Image, _ float32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if img == nil {
		return false, ErrImageRequired
	}

	switch c.mode {
	case ModeAlways:
		return true, nil
	case ModeNever:
		return false, nil
	default:
		c.mu.Lock()
		defer c.mu.Unlock()

		return c.rnd.IntN(2) == 1, nil
	}
}
