// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the Ripple ML framework.
//
// # Overview
//
// Tensors are the fundamental data structure in Ripple. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Zero-copy operations where possible
//   - A gonum bridge for calling external numerical routines
//
// # Basic Usage
//
//	import (
//	    "github.com/ripple-ml/ripple/tensor"
//	    "github.com/ripple-ml/ripple/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    // Tensor operations
//	    z := x.Add(y)
//	    result := x.MatMul(y.Transpose())
//	}
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers)
//
// # Scalars
//
// A scalar is a tensor with the empty shape Shape{}. It holds exactly one
// element, so reductions like Sum produce a true rank-0 result:
//
//	loss := x.Sum()              // shape: Shape{}
//	value := loss.Item()         // extract the single element
//
// # Broadcasting
//
// Tensor operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend)     // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4}, backend)      // (3, 4)
//	c := a.Add(b)                                                // (3, 4)
//
// # Memory Management
//
// Tensors use zero-copy operations where possible. The underlying data is
// reference-counted and automatically freed when no longer needed.
//
// # Available Operations
//
// Tensor[T, B] provides type-safe wrappers around the backend operations:
//
// Element-wise and matrix operations:
//
//	z := x.Add(y)            // Element-wise addition
//	z := x.Sub(y)            // Element-wise subtraction
//	z := x.Mul(y)            // Element-wise multiplication
//	z := x.Div(y)            // Element-wise division
//	z := x.MatMul(y)         // Matrix multiplication
//
// Scalar operations:
//
//	y := x.MulScalar(2.0)    // Multiply by scalar
//	y := x.AddScalar(1.0)    // Add scalar
//
// Shape operations:
//
//	y := x.Reshape(3, 2)     // Reshape to [3, 2]
//	y := x.Transpose()       // Reverse dimensions
//	y := x.T()               // Alias for Transpose()
//
// Reductions:
//
//	s := x.Sum()             // Total sum (scalar)
//	s := x.SumDim(0, false)  // Sum along dimension 0
//	s := x.MeanDim(1, true)  // Mean along dimension 1, keeping it
//
// # External Numerical Routines
//
// RawTensor.Dense() and NewRawFromDense() convert 2D tensors to and from
// gonum matrices. The internal dsp package uses this bridge to run FFTs and
// convolutions from gonum on tensor data; the same path is open to user code
// that needs linear algebra not covered by the Backend interface.
//
// See method documentation for full list of operations.
package tensor
