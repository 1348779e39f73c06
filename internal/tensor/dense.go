package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense returns the tensor's data as a gonum matrix.
//
// This is the bridge used when handing tensor data to external numerical
// routines: the returned matrix carries no gradient linkage, so only the
// operation that wraps the external call participates in the graph.
//
// For Float64 tensors the matrix shares the tensor's buffer (zero copy);
// callers must treat it as read-only. For Float32 tensors the data is
// widened into a fresh float64 buffer. Widening is value-exact, so a
// subsequent NewRawFromDense with dtype Float32 restores the original
// values bit for bit.
//
// Panics if the tensor is not 2-dimensional or not Float32/Float64.
func (r *RawTensor) Dense() *mat.Dense {
	shape := r.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("dense: expected 2D tensor, got shape %v", shape))
	}
	rows, cols := shape[0], shape[1]

	switch r.DType() {
	case Float64:
		return mat.NewDense(rows, cols, r.AsFloat64())
	case Float32:
		src := r.AsFloat32()
		data := make([]float64, len(src))
		for i, v := range src {
			data[i] = float64(v)
		}
		return mat.NewDense(rows, cols, data)
	default:
		panic(fmt.Sprintf("dense: unsupported dtype %s (only float32/float64 supported)", r.DType()))
	}
}

// NewRawFromDense wraps a gonum matrix into a new RawTensor with the given
// dtype and device. This is the wrap-constructor for results coming back
// from external numerical routines; the data is always copied, so the
// returned tensor does not alias the matrix.
//
// For dtype Float64 the round trip through Dense and back is bit-exact.
// For dtype Float32 each value is narrowed from float64.
func NewRawFromDense(d *mat.Dense, dtype DataType, device Device) (*RawTensor, error) {
	rows, cols := d.Dims()

	result, err := NewRaw(Shape{rows, cols}, dtype, device)
	if err != nil {
		return nil, err
	}

	rm := d.RawMatrix()
	switch dtype {
	case Float64:
		dst := result.AsFloat64()
		for i := 0; i < rows; i++ {
			copy(dst[i*cols:(i+1)*cols], rm.Data[i*rm.Stride:i*rm.Stride+cols])
		}
	case Float32:
		dst := result.AsFloat32()
		for i := 0; i < rows; i++ {
			row := rm.Data[i*rm.Stride : i*rm.Stride+cols]
			for j, v := range row {
				dst[i*cols+j] = float32(v)
			}
		}
	default:
		return nil, fmt.Errorf("fromdense: unsupported dtype %s (only float32/float64 supported)", dtype)
	}

	return result, nil
}
