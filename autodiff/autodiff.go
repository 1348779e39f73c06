// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation (backpropagation)
// using a gradient tape. It wraps any backend to add autodiff capabilities,
// including the recorded bridge operations into external numerical routines
// (spectral magnitude via gonum's FFT, 2D cross-correlation, fused MSE).
//
// Example:
//
//	import (
//	    "github.com/ripple-ml/ripple/autodiff"
//	    "github.com/ripple-ml/ripple/backend/cpu"
//	    "github.com/ripple-ml/ripple/tensor"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    base := cpu.New()
//	    backend := autodiff.New(base)
//	    backend.Tape().StartRecording()
//
//	    x := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    y := x.Add(x) // Operations recorded on tape
//
//	    // Compute gradients of y with respect to everything on the tape
//	    grads := autodiff.Backward(y, backend)
//	    _ = grads[x.Raw()] // dy/dx
//	}
package autodiff

import (
	"github.com/ripple-ml/ripple/internal/autodiff"
	"github.com/ripple-ml/ripple/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t with respect to every tensor on the
// tape, seeding the output gradient with ones. Panics if nothing was
// recorded.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
