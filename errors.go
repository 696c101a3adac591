package kdtree

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kdtree/internal/arena"
	"github.com/hupe1980/kdtree/internal/median"
)

var (
	// ErrUninitialized is returned for operations on a tree that was never
	// created through New or has been closed.
	ErrUninitialized = errors.New("tree not initialized")

	// ErrLocked is returned when a mutation is attempted while a rebuild is in
	// progress.
	ErrLocked = errors.New("tree locked for rebuild")

	// ErrCapacityExceeded is returned when the node pool has no empty slot.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrNotFound is returned when a point is not present in the tree.
	ErrNotFound = errors.New("not found")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidRadius is returned when a radius is negative or NaN.
	ErrInvalidRadius = errors.New("radius must be a non-negative number")

	// ErrInvalidThreshold is returned when a rebuild threshold is below 1 or NaN.
	ErrInvalidThreshold = errors.New("rebuild threshold must be at least 1")

	// ErrInvalidPoint is returned for points with NaN coordinates.
	ErrInvalidPoint = errors.New("point contains NaN coordinate")
)

// ErrDimensionMismatch indicates a point/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimensionality or a
// dimension index outside [0, dimensions).
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

// ErrInvalidCapacity indicates a non-positive capacity at creation.
type ErrInvalidCapacity struct {
	Capacity int
}

func (e *ErrInvalidCapacity) Error() string {
	return fmt.Sprintf("invalid capacity: %d", e.Capacity)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, arena.ErrFull) {
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	if errors.Is(err, arena.ErrReleased) {
		return fmt.Errorf("%w: %w", ErrUninitialized, err)
	}

	var id *median.ErrInvalidDimension
	if errors.As(err, &id) {
		return &ErrInvalidDimension{Dimension: id.Dimension, cause: err}
	}

	return err
}
