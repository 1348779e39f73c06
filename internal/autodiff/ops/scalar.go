package ops

import (
	"github.com/ripple-ml/ripple/internal/tensor"
)

// MulScalarOp represents element-wise multiplication by a scalar: output = input * s.
//
// Backward: ∂L/∂input = ∂L/∂output * s
type MulScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar float64
}

// NewMulScalarOp creates a new scalar multiplication operation.
func NewMulScalarOp(input, output *tensor.RawTensor, scalar float64) *MulScalarOp {
	return &MulScalarOp{
		input:  input,
		output: output,
		scalar: scalar,
	}
}

// Backward computes the gradient: scale the output gradient by the same scalar.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensors.
func (op *MulScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *MulScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// AddScalarOp represents element-wise addition of a scalar: output = input + s.
//
// Backward: ∂L/∂input = ∂L/∂output (the scalar shifts values, not gradients).
type AddScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar float64
}

// NewAddScalarOp creates a new scalar addition operation.
func NewAddScalarOp(input, output *tensor.RawTensor, scalar float64) *AddScalarOp {
	return &AddScalarOp{
		input:  input,
		output: output,
		scalar: scalar,
	}
}

// Backward passes the output gradient through unchanged.
// Cloned so the caller never aliases the upstream gradient buffer.
func (op *AddScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors.
func (op *AddScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *AddScalarOp) Output() *tensor.RawTensor {
	return op.output
}
