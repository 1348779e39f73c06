// Package nn implements neural network modules for the Ripple framework.
//
// This package provides building blocks for constructing differentiable models:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - CrossCorr2D: Sliding-window correlation layer with one learnable kernel
//   - SpectralMagnitude: FFT magnitude transform (parameter-free)
//   - Linear: Fully connected layer
//   - ReLU activation and MSELoss
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/ripple-ml/ripple/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewCrossCorr2D(3, 3, backend),
//	    nn.NewReLU[Backend](),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features] while
	// CrossCorr2D expects a single [height, width] plane.
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

// StatefulModule is implemented by modules that can export and import their
// parameters as a state dictionary. Containers use it to collect nested
// state; parameter-free modules simply don't implement it.
type StatefulModule interface {
	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies parameter values from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
