package ops

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
//
// The reverse direction also appears: backward from a scalar loss seeds
// an empty-shape gradient that must expand to the operand's shape.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// If shapes already match, clone to avoid aliasing issues
	// (prevents inplace operations from modifying shared gradients)
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Scalar target (empty shape): sum everything
	if len(targetShape) == 0 {
		return backend.Sum(grad)
	}

	// Scalar gradient: expand the seed value across the target shape
	if len(gradShape) == 0 {
		return expandScalar(grad, targetShape)
	}

	// NumPy broadcasting aligns shapes from the right, so extra leading
	// dimensions sum away first
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Then sum along dimensions where the target is 1
	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && result.Shape()[i] > 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	// Reshape if necessary to match target shape exactly
	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}

	return result
}

// expandScalar fills a tensor of the target shape with the scalar's value.
func expandScalar(grad *tensor.RawTensor, targetShape tensor.Shape) *tensor.RawTensor {
	result, err := tensor.NewRaw(targetShape, grad.DType(), grad.Device())
	if err != nil {
		panic(fmt.Sprintf("expandScalar: %v", err))
	}

	switch grad.DType() {
	case tensor.Float32:
		v := grad.AsFloat32()[0]
		data := result.AsFloat32()
		for i := range data {
			data[i] = v
		}
	case tensor.Float64:
		v := grad.AsFloat64()[0]
		data := result.AsFloat64()
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("expandScalar: unsupported dtype %s", grad.DType()))
	}

	return result
}

// negateGradient returns -grad.
func negateGradient(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return backend.MulScalar(grad, -1)
}
