package tensor

// Extended tensor operations - typed wrappers for backend operations.
//
// This file provides type-safe wrappers at the Tensor[T, B] level for the
// scalar and reduction operations of the Backend interface.

// ============================================================================
// Scalar Operations
// ============================================================================

// MulScalar multiplies each element of the tensor by a scalar value.
//
// The scalar is broadcast to all elements of the tensor.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 3}, backend)
//	y := x.MulScalar(2.5)  // multiply all elements by 2.5
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	result := t.backend.MulScalar(t.raw, float64(scalar))
	return New[T, B](result, t.backend)
}

// AddScalar adds a scalar value to each element of the tensor.
//
// The scalar is broadcast to all elements of the tensor.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 3}, backend)
//	y := x.AddScalar(1.0)  // add 1.0 to all elements
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	result := t.backend.AddScalar(t.raw, float64(scalar))
	return New[T, B](result, t.backend)
}

// ============================================================================
// Reduction Operations
// ============================================================================

// Sum computes the sum of all elements in the tensor, returning a scalar.
//
// The result is a tensor with shape [] (scalar).
//
// Example:
//
//	x := tensor.Randn[float32](Shape{3, 4}, backend)
//	total := x.Sum()  // sum of all 12 elements
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	result := t.backend.Sum(t.raw)
	return New[T, B](result, t.backend)
}

// SumDim computes the sum along the specified dimension.
//
// Supports negative dimension indexing (-1 = last dimension).
//
// Example:
//
//	x := tensor.Randn[float32](Shape{3, 4}, backend)
//	rows := x.SumDim(1, false)  // Shape: [3]
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.SumDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}

// MeanDim computes the mean along the specified dimension.
//
// Supports negative dimension indexing (-1 = last dimension).
//
// Example:
//
//	x := tensor.Randn[float32](Shape{3, 4}, backend)
//	rows := x.MeanDim(1, false)  // Shape: [3]
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.MeanDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}
