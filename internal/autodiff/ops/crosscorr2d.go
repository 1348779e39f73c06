package ops

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/dsp"
	"github.com/ripple-ml/ripple/internal/tensor"
)

// CrossCorr2DOp records a 2D cross-correlation against a learnable kernel.
//
// Forward:
//
//	output[i,j] = Σ_{u,v} input[i+u, j+v] * kernel[u,v]
//
// Valid mode: the kernel stays fully inside the input, so an (h, w) input
// and a (kh, kw) kernel produce an (h-kh+1, w-kw+1) output.
//
// Backward (the exact adjoint of the forward map):
//   - d_input:  full convolution of d_output with the kernel, i.e.
//     cross-correlation with the kernel rotated 180°, padded so the
//     result recovers the (h, w) input shape.
//   - d_kernel: valid cross-correlation of the input with d_output,
//     which lands exactly on the (kh, kw) kernel shape.
//
// The heavy lifting happens in the dsp package on gonum matrices; this
// operation is the bridge that carries gradients across that boundary.
type CrossCorr2DOp struct {
	input  *tensor.RawTensor
	kernel *tensor.RawTensor
	output *tensor.RawTensor
}

// NewCrossCorr2DOp creates a new cross-correlation operation.
func NewCrossCorr2DOp(input, kernel, output *tensor.RawTensor) *CrossCorr2DOp {
	return &CrossCorr2DOp{
		input:  input,
		kernel: kernel,
		output: output,
	}
}

// Inputs returns the input tensors.
func (op *CrossCorr2DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.kernel}
}

// Output returns the output tensor.
func (op *CrossCorr2DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes gradients for both the input and the kernel.
//
// Given d_output of shape (h-kh+1, w-kw+1):
//
//	d_input  = Convolve2D(d_output, kernel, Full)          → (h, w)
//	d_kernel = CrossCorrelate2D(input, d_output, Valid)    → (kh, kw)
//
// Both follow from writing the forward pass as a linear map in the input
// (resp. kernel) and transposing it.
func (op *CrossCorr2DOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	gradDense := outputGrad.Dense()

	gradInputDense, err := dsp.Convolve2D(gradDense, op.kernel.Dense(), dsp.Full)
	if err != nil {
		panic(fmt.Sprintf("CrossCorr2DOp: input gradient: %v", err))
	}
	gradInput, err := tensor.NewRawFromDense(gradInputDense, op.input.DType(), op.input.Device())
	if err != nil {
		panic(err)
	}

	gradKernelDense, err := dsp.CrossCorrelate2D(op.input.Dense(), gradDense, dsp.Valid)
	if err != nil {
		panic(fmt.Sprintf("CrossCorr2DOp: kernel gradient: %v", err))
	}
	gradKernel, err := tensor.NewRawFromDense(gradKernelDense, op.kernel.DType(), op.kernel.Device())
	if err != nil {
		panic(err)
	}

	return []*tensor.RawTensor{gradInput, gradKernel}
}

// CrossCorrelate2DForward computes the valid-mode cross-correlation of a
// 2D input with a 2D kernel (helper function).
//
// This is a helper for use outside autodiff context.
// For autodiff support, use AutodiffBackend with CrossCorr2DOp.
func CrossCorrelate2DForward(input, kernel *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("CrossCorrelate2DForward: input must be 2D, got shape %v", inputShape))
	}
	kernelShape := kernel.Shape()
	if len(kernelShape) != 2 {
		panic(fmt.Sprintf("CrossCorrelate2DForward: kernel must be 2D, got shape %v", kernelShape))
	}

	outDense, err := dsp.CrossCorrelate2D(input.Dense(), kernel.Dense(), dsp.Valid)
	if err != nil {
		panic(fmt.Sprintf("CrossCorrelate2DForward: %v", err))
	}

	output, err := tensor.NewRawFromDense(outDense, input.DType(), device)
	if err != nil {
		panic(err)
	}
	return output
}
