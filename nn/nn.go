// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/ripple-ml/ripple/internal/nn"
	"github.com/ripple-ml/ripple/tensor"
)

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(64, 16, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// CrossCorr2D represents a 2D cross-correlation layer with a single
// learnable kernel and no bias.
//
// The layer slides its kernel over a 2D input in valid mode, so an
// (h, w) input and a (kh, kw) kernel produce an (h-kh+1, w-kw+1)
// output. The kernel is the sole learnable parameter.
type CrossCorr2D[B tensor.Backend] = nn.CrossCorr2D[B]

// NewCrossCorr2D creates a new 2D cross-correlation layer with a randomly
// initialized kernelH x kernelW kernel.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer := nn.NewCrossCorr2D(3, 3, backend)
//	output := layer.Forward(input) // (8, 8) input -> (6, 6) output
func NewCrossCorr2D[B tensor.Backend](kernelH, kernelW int, backend B) *CrossCorr2D[B] {
	return nn.NewCrossCorr2D(kernelH, kernelW, backend)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
//
// Example:
//
//	relu := nn.NewReLU[Backend]()
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Transforms

// SpectralMagnitude computes the elementwise magnitude of the 2D real
// FFT of its input. It has no learnable parameters.
//
// An (m, n) input produces an (m, n/2+1) half-spectrum output. The
// backward pass is a documented approximation (inverse FFT of the
// upstream gradient), not the true adjoint; see the autodiff package.
type SpectralMagnitude[B tensor.Backend] = nn.SpectralMagnitude[B]

// NewSpectralMagnitude creates a new spectral magnitude transform.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer := nn.NewSpectralMagnitude[*autodiff.Backend[*cpu.CPUBackend]]()
//	output := layer.Forward(input) // (8, 8) input -> (8, 5) output
func NewSpectralMagnitude[B tensor.Backend]() *SpectralMagnitude[B] {
	return nn.NewSpectralMagnitude[B]()
}

// Loss Functions

// MSELoss represents the mean squared error loss for regression.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a new MSE loss function.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	criterion := nn.NewMSELoss(backend)
//	loss := criterion.Forward(predictions, targets)
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return nn.NewMSELoss(backend)
}

// Sequential

// Sequential represents a sequential container of modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential model.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewSequential[Backend](
//	    nn.NewCrossCorr2D(3, 3, backend),
//	    nn.NewReLU[Backend](),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	// Module is re-declared rather than aliased, so the slice must be
	// converted element-wise; the method sets are identical.
	converted := make([]nn.Module[B], len(modules))
	for i, m := range modules {
		converted[i] = m
	}
	return nn.NewSequential(converted...)
}

// Initialization functions

// Xavier initializes a tensor using Xavier/Glorot initialization.
//
// Example:
//
//	backend := cpu.New()
//	weights := nn.Xavier(64, 16, tensor.Shape{16, 64}, backend)
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros initializes a tensor with zeros (for biases).
//
// Example:
//
//	backend := cpu.New()
//	bias := nn.Zeros(tensor.Shape{16}, backend)
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones initializes a tensor with ones.
//
// Example:
//
//	backend := cpu.New()
//	weights := nn.Ones(tensor.Shape{3, 3}, backend)
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}

// Randn initializes a tensor with random values from N(0, 1).
//
// Example:
//
//	backend := cpu.New()
//	weights := nn.Randn(tensor.Shape{3, 3}, backend)
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Randn(shape, backend)
}

// Backend capabilities
//
// Layers that need gradient-tracked operations beyond the tensor.Backend
// surface reach them through these interfaces. The autodiff backend
// implements all of them; a custom backend only needs the ones its
// models use.

// ReLUBackend is implemented by backends providing a recorded ReLU.
type ReLUBackend = nn.ReLUBackend

// MSEBackend is implemented by backends providing a recorded fused MSE loss.
type MSEBackend = nn.MSEBackend

// CrossCorrBackend is implemented by backends providing recorded 2D
// cross-correlation.
type CrossCorrBackend = nn.CrossCorrBackend

// SpectralBackend is implemented by backends providing the recorded
// spectral magnitude transform.
type SpectralBackend = nn.SpectralBackend
