package ops

import "github.com/ripple-ml/ripple/internal/tensor"

// MeanDimOp represents a reduction mean operation along a dimension: output = mean(x, dim).
//
// Forward:
//
//	y = mean(x, dim, keepDim) = sum(x, dim, keepDim) / size[dim]
//
// Backward:
//
//	grad_x = broadcast(grad_y, x.shape) / size[dim]
//
// If keepDim=false, we need to unsqueeze grad_y first to match broadcasting requirements.
type MeanDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor   // mean(x, dim)
	dim     int                 // dimension to reduce
	keepDim bool                // whether to keep dimension
	dimSize int                 // size of reduced dimension (for backward pass)
}

// NewMeanDimOp creates a new MeanDimOp.
func NewMeanDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	// Normalize negative dim
	actualDim := dim
	if actualDim < 0 {
		actualDim = len(x.Shape()) + actualDim
	}

	return &MeanDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
		dimSize: x.Shape()[actualDim],
	}
}

// Backward computes input gradients for mean reduction.
//
// The gradient flows by broadcasting grad_output to match input shape,
// then dividing by the size of the reduced dimension.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	grad := outputGrad

	// If keepDim=false, we need to unsqueeze the gradient first
	if !op.keepDim {
		grad = unsqueezeDim(grad, op.dim, x.Shape())
	}

	// Broadcast gradient to input shape, then scale by 1/size
	gradX := broadcastTo(grad, x.Shape(), backend)
	gradX = backend.MulScalar(gradX, 1/float64(op.dimSize))

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *MeanDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor mean(x, dim).
func (op *MeanDimOp) Output() *tensor.RawTensor {
	return op.output
}
