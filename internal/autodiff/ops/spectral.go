package ops

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ripple-ml/ripple/internal/dsp"
	"github.com/ripple-ml/ripple/internal/tensor"
)

// SpectralMagnitudeOp records the magnitude spectrum of a 2D real input.
//
// Forward:
//
//	output = |RFFT2(input)|
//
// For an (m, n) input the half spectrum has shape (m, n/2+1), so the
// output does too.
//
// Backward — APPROXIMATE, by construction:
//
//	d_input = IRFFT2(d_output)
//
// The upstream gradient is treated as a zero-phase half spectrum and
// mapped back through the inverse transform. The exact gradient of the
// modulus depends on the phase of the forward spectrum, which this rule
// discards, so gradients through this operation are a rough
// approximation rather than the true adjoint. That trade-off is
// intentional: the operation demonstrates how to route gradients across
// an external transform, and the inverse-transform rule keeps the
// backward pass as readable as the forward one. Do not rely on it where
// gradient accuracy matters; compare with CrossCorr2DOp, whose backward
// is exact.
type SpectralMagnitudeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSpectralMagnitudeOp creates a new spectral magnitude operation.
func NewSpectralMagnitudeOp(input, output *tensor.RawTensor) *SpectralMagnitudeOp {
	return &SpectralMagnitudeOp{
		input:  input,
		output: output,
	}
}

// Inputs returns the input tensors.
func (op *SpectralMagnitudeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SpectralMagnitudeOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward maps the upstream gradient back through the inverse real FFT.
//
// See the type documentation: this is deliberately approximate. The
// gradient is interpreted as a half spectrum with zero imaginary part
// and inverted to the input's (m, n) shape.
func (op *SpectralMagnitudeOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	gradDense := outputGrad.Dense()
	rows, hw := gradDense.Dims()

	coeff := mat.NewCDense(rows, hw, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < hw; j++ {
			coeff.Set(i, j, complex(gradDense.At(i, j), 0))
		}
	}

	cols := op.input.Shape()[1]
	gradInputDense, err := dsp.IRFFT2(coeff, cols)
	if err != nil {
		panic(fmt.Sprintf("SpectralMagnitudeOp: input gradient: %v", err))
	}

	gradInput, err := tensor.NewRawFromDense(gradInputDense, op.input.DType(), op.input.Device())
	if err != nil {
		panic(err)
	}
	return []*tensor.RawTensor{gradInput}
}

// SpectralMagnitudeForward computes the elementwise magnitude of the 2D
// real FFT of the input (helper function).
//
// This is a helper for use outside autodiff context.
// For autodiff support, use AutodiffBackend with SpectralMagnitudeOp.
func SpectralMagnitudeForward(input *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("SpectralMagnitudeForward: input must be 2D, got shape %v", inputShape))
	}

	spectrum, err := dsp.RFFT2(input.Dense())
	if err != nil {
		panic(fmt.Sprintf("SpectralMagnitudeForward: %v", err))
	}

	output, err := tensor.NewRawFromDense(dsp.Magnitude(spectrum), input.DType(), device)
	if err != nil {
		panic(err)
	}
	return output
}
