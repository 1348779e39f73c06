// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, CrossCorr2D
//   - Transforms: SpectralMagnitude
//   - Activations: ReLU
//   - Loss functions: MSELoss
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros, Ones, Randn
//
// # Basic Usage
//
//	import (
//	    "github.com/ripple-ml/ripple/autodiff"
//	    "github.com/ripple-ml/ripple/backend/cpu"
//	    "github.com/ripple-ml/ripple/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    // A correlation layer with a learnable 3x3 kernel
//	    layer := nn.NewCrossCorr2D(3, 3, backend)
//
//	    // Forward pass: (8, 8) input -> (6, 6) output
//	    output := layer.Forward(input)
//	}
//
// # Layers
//
// Linear: Fully connected layer with Xavier initialization
//
//	layer := nn.NewLinear(inFeatures, outFeatures, backend)
//
// CrossCorr2D: valid-mode 2D cross-correlation with one learnable kernel
// and no bias. The backward pass is the exact adjoint (full-mode
// convolution for the input gradient, valid-mode correlation for the
// kernel gradient).
//
//	layer := nn.NewCrossCorr2D(kernelH, kernelW, backend)
//
// SpectralMagnitude: elementwise magnitude of the 2D real FFT, computed
// by an external routine. Parameter-free. Its backward pass is a
// documented approximation rather than the true adjoint.
//
//	layer := nn.NewSpectralMagnitude[Backend]()
//
// # Loss Functions
//
// MSELoss: For regression tasks
//
//	criterion := nn.NewMSELoss(backend)
//	loss := criterion.Forward(predictions, targets)
//
// # Sequential Models
//
// Build models by composing layers:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewCrossCorr2D(3, 3, backend),
//	    nn.NewReLU[Backend](),
//	)
//
// # Parameter Management
//
// Access model parameters for optimization:
//
//	params := model.Parameters()
//	for _, param := range params {
//	    fmt.Println(param.Name(), param.Tensor().Shape())
//	}
//
// Layers with state implement StatefulModule, so a trained kernel can be
// exported and restored through an in-memory state dictionary:
//
//	state := layer.StateDict()          // {"kernel": ...}
//	err := other.LoadStateDict(state)
package nn
