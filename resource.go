package rast

import (
	"fmt"
	"unsafe"
)

// Resource is a fixed size, contiguous buffer of T. It can be addressed
// linearly with Item or as a row-major grid with ItemXY.
// Resources are shared by pointer between the caller and a Rasterizer;
// the caller keeps ownership.
type Resource[T any] struct {
	data   []T
	stride int
}

// NewResource allocates a one dimensional resource of size zero-valued elements.
func NewResource[T any](size int) *Resource[T] {
	if size < 0 {
		panic("negative resource size")
	}
	return &Resource[T]{data: make([]T, size)}
}

// NewResource2D allocates a width*height resource with row stride equal to width.
func NewResource2D[T any](width, height int) *Resource[T] {
	if width < 0 || height < 0 {
		panic("negative resource dimensions")
	}
	return &Resource[T]{
		data:   make([]T, width*height),
		stride: width,
	}
}

// Item returns a pointer to the i'th element of the resource.
func (r *Resource[T]) Item(i int) (*T, error) {
	if r == nil {
		return nil, fmt.Errorf("resource item %d: %w", i, ErrUnbound)
	}
	if i < 0 || i >= len(r.data) {
		return nil, fmt.Errorf("resource item %d of %d: %w", i, len(r.data), ErrOutOfRange)
	}
	return &r.data[i], nil
}

// ItemXY returns a pointer to the element at x + stride*y. Only the resulting
// linear index is checked: an x past the row width addresses the next row
// and is not reported. Callers are responsible for using the width the
// resource was created with.
func (r *Resource[T]) ItemXY(x, y int) (*T, error) {
	if r == nil {
		return nil, fmt.Errorf("resource item (%d,%d): %w", x, y, ErrUnbound)
	}
	i := x + r.stride*y
	if i < 0 || i >= len(r.data) {
		return nil, fmt.Errorf("resource item (%d,%d) -> %d of %d: %w", x, y, i, len(r.data), ErrOutOfRange)
	}
	return &r.data[i], nil
}

// Data returns the underlying storage. The slice aliases the resource.
func (r *Resource[T]) Data() []T { return r.data }

// Count returns the number of elements in the resource.
func (r *Resource[T]) Count() int { return len(r.data) }

// Stride returns the row width used by ItemXY. It is zero for 1D resources.
func (r *Resource[T]) Stride() int { return r.stride }

// SizeBytes returns the size of the element storage in bytes.
func (r *Resource[T]) SizeBytes() int {
	var zero T
	return len(r.data) * int(unsafe.Sizeof(zero))
}
