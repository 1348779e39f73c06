package cpu

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/tensor"
)

// Scalar operations - element-wise operations with a scalar value.
// Scalars arrive as float64 and are converted to the tensor's dtype;
// fractional values are truncated for integer tensors.

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mulScalar: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		mulScalarFloat32(result, x, float32(scalar))
	case tensor.Float64:
		mulScalarFloat64(result, x, scalar)
	case tensor.Int32:
		mulScalarInt32(result, x, int32(scalar))
	case tensor.Int64:
		mulScalarInt64(result, x, int64(scalar))
	default:
		panic(fmt.Sprintf("mulScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("addScalar: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		addScalarFloat32(result, x, float32(scalar))
	case tensor.Float64:
		addScalarFloat64(result, x, scalar)
	case tensor.Int32:
		addScalarInt32(result, x, int32(scalar))
	case tensor.Int64:
		addScalarInt64(result, x, int64(scalar))
	default:
		panic(fmt.Sprintf("addScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

// ============================================================================
// Float32 implementations
// ============================================================================

func mulScalarFloat32(result, x *tensor.RawTensor, scalar float32) {
	xData := x.AsFloat32()
	resultData := result.AsFloat32()

	for i := range resultData {
		resultData[i] = xData[i] * scalar
	}
}

func addScalarFloat32(result, x *tensor.RawTensor, scalar float32) {
	xData := x.AsFloat32()
	resultData := result.AsFloat32()

	for i := range resultData {
		resultData[i] = xData[i] + scalar
	}
}

// ============================================================================
// Float64 implementations
// ============================================================================

func mulScalarFloat64(result, x *tensor.RawTensor, scalar float64) {
	xData := x.AsFloat64()
	resultData := result.AsFloat64()

	for i := range resultData {
		resultData[i] = xData[i] * scalar
	}
}

func addScalarFloat64(result, x *tensor.RawTensor, scalar float64) {
	xData := x.AsFloat64()
	resultData := result.AsFloat64()

	for i := range resultData {
		resultData[i] = xData[i] + scalar
	}
}

// ============================================================================
// Int32 implementations
// ============================================================================

func mulScalarInt32(result, x *tensor.RawTensor, scalar int32) {
	xData := x.AsInt32()
	resultData := result.AsInt32()

	for i := range resultData {
		resultData[i] = xData[i] * scalar
	}
}

func addScalarInt32(result, x *tensor.RawTensor, scalar int32) {
	xData := x.AsInt32()
	resultData := result.AsInt32()

	for i := range resultData {
		resultData[i] = xData[i] + scalar
	}
}

// ============================================================================
// Int64 implementations
// ============================================================================

func mulScalarInt64(result, x *tensor.RawTensor, scalar int64) {
	xData := x.AsInt64()
	resultData := result.AsInt64()

	for i := range resultData {
		resultData[i] = xData[i] * scalar
	}
}

func addScalarInt64(result, x *tensor.RawTensor, scalar int64) {
	xData := x.AsInt64()
	resultData := result.AsInt64()

	for i := range resultData {
		resultData[i] = xData[i] + scalar
	}
}
