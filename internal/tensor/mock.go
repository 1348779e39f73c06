package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// elementWise performs element-wise operations with broadcasting.
func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	// Broadcast shapes
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	// Create output tensor
	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	// Perform operation (naive implementation)
	numElements := outShape.NumElements()

	// Convert to float64 for generic processing
	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := m.toFloat64Slice(result)

	for i := 0; i < numElements; i++ {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())

		resultData[i] = op(aData[aIdx], bData[bIdx])
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// MatMul performs matrix multiplication.
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	// Only support 2D for now
	if len(aShape) != 2 || len(bShape) != 2 {
		panic("MatMul only supports 2D tensors in mock backend")
	}

	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("incompatible shapes for MatMul: %v @ %v", aShape, bShape))
	}

	M, K := aShape[0], aShape[1]
	N := bShape[1]

	outShape := Shape{M, N}
	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := m.toFloat64Slice(result)

	// Naive matrix multiplication
	for i := 0; i < M; i++ {
		for j := 0; j < N; j++ {
			sum := 0.0
			for k := 0; k < K; k++ {
				sum += aData[i*K+k] * bData[k*N+j]
			}
			resultData[i*N+j] = sum
		}
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// MulScalar multiplies every element by a scalar.
func (m *MockBackend) MulScalar(t *RawTensor, scalar float64) *RawTensor {
	return m.scalarWise(t, func(x float64) float64 { return x * scalar })
}

// AddScalar adds a scalar to every element.
func (m *MockBackend) AddScalar(t *RawTensor, scalar float64) *RawTensor {
	return m.scalarWise(t, func(x float64) float64 { return x + scalar })
}

// scalarWise applies op to every element.
func (m *MockBackend) scalarWise(t *RawTensor, op func(float64) float64) *RawTensor {
	result, err := NewRaw(t.Shape(), t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	inData := m.toFloat64Slice(t)
	outData := make([]float64, len(inData))
	for i, v := range inData {
		outData[i] = op(v)
	}

	m.fromFloat64Slice(outData, result)
	return result
}

// Sum reduces all elements to a scalar tensor of shape [1].
func (m *MockBackend) Sum(t *RawTensor) *RawTensor {
	// Scalar result (empty shape, one element)
	result, err := NewRaw(Shape{}, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	data := m.toFloat64Slice(t)
	sum := 0.0
	for _, v := range data {
		sum += v
	}

	m.fromFloat64Slice([]float64{sum}, result)
	return result
}

// SumDim sums along the specified dimension.
func (m *MockBackend) SumDim(t *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.reduceDim(t, dim, keepDim, false)
}

// MeanDim averages along the specified dimension.
func (m *MockBackend) MeanDim(t *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.reduceDim(t, dim, keepDim, true)
}

// reduceDim performs a sum or mean reduction along one dimension (naive).
func (m *MockBackend) reduceDim(t *RawTensor, dim int, keepDim, mean bool) *RawTensor {
	shape := t.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("reduce: dim %d out of range for shape %v", dim, shape))
	}

	outShape := make(Shape, 0, len(shape))
	for i, s := range shape {
		if i == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, s)
	}
	if len(outShape) == 0 {
		outShape = Shape{1}
	}

	result, err := NewRaw(outShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	inData := m.toFloat64Slice(t)
	outData := make([]float64, outShape.NumElements())

	// outer iterates over dims before dim, inner over dims after.
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	n := shape[dim]

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += inData[o*n*inner+k*inner+in]
			}
			if mean {
				sum /= float64(n)
			}
			outData[o*inner+in] = sum
		}
	}

	m.fromFloat64Slice(outData, result)
	return result
}

// Reshape changes tensor shape.
func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(err)
	}

	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cannot reshape tensor with %d elements to shape %v (%d elements)",
			t.NumElements(), newShape, newShape.NumElements()))
	}

	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	// Copy data
	copy(result.Data(), t.Data())
	return result
}

// Transpose transposes tensor dimensions.
func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
	shape := t.Shape()

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, len(shape))
		for i := range axes {
			axes[i] = len(shape) - 1 - i
		}
	}

	// Validate axes
	if len(axes) != len(shape) {
		panic(fmt.Sprintf("axes length %d doesn't match tensor dimensions %d", len(axes), len(shape)))
	}

	// Compute new shape
	newShape := make(Shape, len(shape))
	for i, axis := range axes {
		if axis < 0 || axis >= len(shape) {
			panic(fmt.Sprintf("axis %d out of bounds for tensor with %d dimensions", axis, len(shape)))
		}
		newShape[i] = shape[axis]
	}

	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	// Transpose data (naive implementation)
	tData := m.toFloat64Slice(t)
	resultData := m.toFloat64Slice(result)

	oldStrides := shape.ComputeStrides()
	newStrides := newShape.ComputeStrides()

	for i := 0; i < t.NumElements(); i++ {
		// Convert flat index to multi-dimensional indices
		indices := make([]int, len(shape))
		temp := i
		for j := 0; j < len(shape); j++ {
			indices[j] = temp / oldStrides[j]
			temp %= oldStrides[j]
		}

		// Permute indices
		permuted := make([]int, len(indices))
		for j, axis := range axes {
			permuted[j] = indices[axis]
		}

		// Convert permuted indices to flat index
		newIdx := 0
		for j, idx := range permuted {
			newIdx += idx * newStrides[j]
		}

		resultData[newIdx] = tData[i]
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// Helper functions

func (m *MockBackend) toFloat64Slice(t *RawTensor) []float64 {
	switch t.DType() {
	case Float32:
		src := t.AsFloat32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Float64:
		return t.AsFloat64()
	case Int32:
		src := t.AsInt32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Int64:
		src := t.AsInt64()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.DType()))
	}
}

func (m *MockBackend) fromFloat64Slice(src []float64, t *RawTensor) {
	switch t.DType() {
	case Float32:
		dst := t.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.AsFloat64(), src)
	case Int32:
		dst := t.AsInt32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	case Int64:
		dst := t.AsInt64()
		for i, v := range src {
			dst[i] = int64(v)
		}
	}
}

func (m *MockBackend) broadcastIndex(flatIdx int, outShape, inShape Shape) int {
	// Convert flat index to multi-dimensional indices in output shape
	outStrides := outShape.ComputeStrides()
	indices := make([]int, len(outShape))

	temp := flatIdx
	for i := 0; i < len(outShape); i++ {
		indices[i] = temp / outStrides[i]
		temp %= outStrides[i]
	}

	// Map to input shape (accounting for broadcasting)
	inStrides := inShape.ComputeStrides()
	inIdx := 0

	offset := len(outShape) - len(inShape)
	for i := 0; i < len(inShape); i++ {
		outDimIdx := indices[offset+i]
		inDim := inShape[i]

		// If input dimension is 1, always use index 0 (broadcasting)
		if inDim == 1 {
			outDimIdx = 0
		}

		inIdx += outDimIdx * inStrides[i]
	}

	return inIdx
}
