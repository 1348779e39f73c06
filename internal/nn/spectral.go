package nn

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/tensor"
)

// SpectralBackend is an interface for backends that support the spectral
// magnitude operation.
type SpectralBackend interface {
	SpectralMagnitude(*tensor.RawTensor) *tensor.RawTensor
}

// SpectralMagnitude computes the element-wise magnitude of the 2D real FFT
// of its input.
//
// Input shape:  [height, width]
// Output shape: [height, width/2 + 1]
//
// The half-width output follows the real-FFT convention: for real input the
// full spectrum is conjugate-symmetric, so only the non-redundant half is
// kept.
//
// The layer has no trainable parameters. Its backward pass is a deliberate
// approximation (an inverse real FFT of the upstream gradient) rather than
// the true derivative of the magnitude, so gradients flowing through this
// layer carry a known bias. See the autodiff package for details.
//
// Example:
//
//	layer := nn.NewSpectralMagnitude[Backend]()
//	output := layer.Forward(input)  // [8, 8] input -> [8, 5] output
type SpectralMagnitude[B tensor.Backend] struct{}

// NewSpectralMagnitude creates a new spectral magnitude module.
func NewSpectralMagnitude[B tensor.Backend]() *SpectralMagnitude[B] {
	return &SpectralMagnitude[B]{}
}

// Forward computes |RFFT2(input)| element-wise.
func (s *SpectralMagnitude[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	// Validate input shape
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("spectralmagnitude: expected 2D input [H,W], got %dD", len(inputShape)))
	}

	backend := input.Backend()

	// Check if backend supports the spectral op via interface
	if spectralBackend, ok := any(backend).(SpectralBackend); ok {
		resultRaw := spectralBackend.SpectralMagnitude(input.Raw())
		return tensor.New[float32, B](resultRaw, backend)
	}

	// Fallback: backend doesn't support the spectral op
	panic("spectralmagnitude: backend must implement SpectralMagnitude (use autodiff.AutodiffBackend)")
}

// Parameters returns an empty slice (SpectralMagnitude has no trainable parameters).
func (s *SpectralMagnitude[B]) Parameters() []*Parameter[B] {
	return nil
}
