// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Matrix products dispatched to gonum's BLAS kernels
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//   - In-place fast paths when an operand buffer is not shared
//
// # Basic Usage
//
//	import (
//	    "github.com/ripple-ml/ripple/backend/cpu"
//	    "github.com/ripple-ml/ripple/tensor"
//	    "github.com/ripple-ml/ripple/nn"
//	)
//
//	func main() {
//	    // Create CPU backend
//	    backend := cpu.New()
//
//	    // Use with tensors
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//
//	    // Use with neural networks
//	    model := nn.NewLinear(64, 10, backend)
//	}
//
// For gradient tracking, wrap the backend with the autodiff decorator:
//
//	backend := autodiff.New(cpu.New())
//
// The wrapped backend also carries the recorded operations that bridge
// into external numerical routines (spectral magnitude, 2D
// cross-correlation, fused MSE).
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
