// Package alloc caps the memory handed out for particle and field storage.
//
// A Budget tracks bytes against a fixed ceiling. Allocators are thin typed
// views over a *Budget; copying an Allocator keeps the same budget, so every
// container built from one configuration draws on one shared ceiling.
// Exceeding the ceiling is always an error and never a truncated slice.
package alloc

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

var (
	ErrBudgetExceeded = errors.New("alloc: budget exceeded")
	ErrInvalidSize    = errors.New("alloc: invalid size")
)

// Budget is not safe for concurrent use.
type Budget struct {
	limit int64
	used  int64
}

func NewBudget(limit int64) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{limit: limit}
}

// Reserve accounts for n more bytes, or fails without changing anything.
func (b *Budget) Reserve(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidSize, n)
	}
	if n > b.limit-b.used {
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrBudgetExceeded, n, b.used, b.limit)
	}
	b.used += n
	return nil
}

func (b *Budget) Release(n int64) {
	b.used -= n
	if b.used < 0 {
		b.used = 0
	}
}

func (b *Budget) Used() int64      { return b.used }
func (b *Budget) Limit() int64     { return b.limit }
func (b *Budget) Remaining() int64 { return b.limit - b.used }

// Allocator hands out slices of T whose capacity is charged to a Budget.
type Allocator[T any] struct {
	budget *Budget
}

func New[T any](b *Budget) Allocator[T] {
	return Allocator[T]{budget: b}
}

func (a Allocator[T]) Budget() *Budget { return a.budget }

// Bytes returns the charge for n elements.
func (a Allocator[T]) Bytes(n int) (int64, error) {
	var zero T
	size := int64(unsafe.Sizeof(zero))
	if n < 0 {
		return 0, fmt.Errorf("%w: %d elements", ErrInvalidSize, n)
	}
	if size > 0 && int64(n) > math.MaxInt64/size {
		return 0, fmt.Errorf("%w: %d elements overflow", ErrBudgetExceeded, n)
	}
	return int64(n) * size, nil
}

// Make returns a zeroed slice of length n.
func (a Allocator[T]) Make(n int) ([]T, error) {
	bytes, err := a.Bytes(n)
	if err != nil {
		return nil, err
	}
	if err := a.budget.Reserve(bytes); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// Free returns the capacity of s to the budget. s must not be used afterwards.
func (a Allocator[T]) Free(s []T) {
	bytes, err := a.Bytes(cap(s))
	if err != nil {
		return
	}
	a.budget.Release(bytes)
}

// Grow returns s with capacity for at least minCap elements, doubling when it
// has to reallocate. On error s is returned unchanged.
func (a Allocator[T]) Grow(s []T, minCap int) ([]T, error) {
	if minCap <= cap(s) {
		return s, nil
	}
	newCap := max(2*cap(s), minCap, 4)
	grown, err := a.reallocate(s, newCap)
	if err == nil {
		return grown, nil
	}
	// Doubling may overshoot a budget that still fits minCap exactly.
	if newCap == minCap {
		return s, err
	}
	return a.reallocate(s, minCap)
}

func (a Allocator[T]) reallocate(s []T, newCap int) ([]T, error) {
	extra, err := a.Bytes(newCap - cap(s))
	if err != nil {
		return s, err
	}
	if err := a.budget.Reserve(extra); err != nil {
		return s, err
	}
	grown := make([]T, len(s), newCap)
	copy(grown, s)
	return grown, nil
}
