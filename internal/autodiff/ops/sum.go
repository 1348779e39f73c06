package ops

import (
	"github.com/ripple-ml/ripple/internal/tensor"
)

// SumOp represents full reduction to a scalar: output = Σ input.
//
// Backward: every element contributes with weight 1, so the scalar
// output gradient broadcasts back to the input shape:
//
//	∂L/∂input[i] = ∂L/∂output
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor // Scalar (empty shape)
}

// NewSumOp creates a new full-sum operation.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{
		input:  input,
		output: output,
	}
}

// Backward broadcasts the scalar output gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{expandScalar(outputGrad, op.input.Shape())}
}

// Inputs returns the input tensors.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
