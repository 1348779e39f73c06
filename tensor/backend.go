// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/ripple-ml/ripple/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go kernels with NumPy-style broadcasting
//
// Decorator backends for additional functionality:
//   - autodiff: Automatic differentiation (wraps any backend)
//
// Operations that only exist with gradient support (ReLU, the spectral
// magnitude transform, 2D cross-correlation, fused MSE) are NOT part of
// this interface; they are extra methods on the autodiff backend, reached
// through capability interfaces in the nn package.
//
// Example:
//
//	import (
//	    "github.com/ripple-ml/ripple/tensor"
//	    "github.com/ripple-ml/ripple/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // Matrix multiplication.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.

	// Scalar operations (element-wise with scalar). Scalars are float64
	// and converted to the tensor's dtype by the backend.
	MulScalar(x *RawTensor, scalar float64) *RawTensor // Multiply by scalar.
	AddScalar(x *RawTensor, scalar float64) *RawTensor // Add scalar.

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                            // Total sum (scalar result).
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // Sum along dimension.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Mean along dimension.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU", "Autodiff(CPU)").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
