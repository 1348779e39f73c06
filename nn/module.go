// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/ripple-ml/ripple/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    nn.NewCrossCorr2D(3, 3, backend),
//	    nn.NewReLU[Backend](),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features] and
	// CrossCorr2D expects a 2D [H, W] tensor.
	//
	// Returns the output tensor with shape determined by the module type.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// This includes weights, biases, and any nested module parameters.
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter[B]
}

// StatefulModule is implemented by modules whose parameters can be
// exported to and restored from an in-memory state dictionary.
//
// Parameter-free modules (ReLU, SpectralMagnitude) do not implement it;
// Sequential skips them when assembling its own state dictionary.
type StatefulModule interface {
	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads parameters from a state dictionary.
	//
	// Returns an error if a required parameter is missing or has the
	// wrong shape or dtype.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// Note: Internal implementations of Module automatically satisfy this interface
// because they have the same method signatures.
