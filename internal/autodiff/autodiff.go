// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient
// tracking capabilities through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (Add, Mul, MatMul) implements backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Beyond the tensor.Backend surface, AutodiffBackend carries recorded
// operations that bridge into external numerical routines: SpectralMagnitude
// (gonum's FFT), CrossCorrelate2D (sliding-window correlation) and the fused
// MSE loss. Callers reach these through capability interfaces rather than
// concrete types.
//
// Usage:
//
//	// Wrap any backend with autodiff
//	cpuBackend := cpu.New()
//	autodiffBackend := autodiff.New(cpuBackend)
//
//	// Use with tensors
//	x := tensor.FromSlice([]float32{2.0}, tensor.Shape{1}, autodiffBackend)
//	y := x.Mul(x) // y = x²
//
//	// Compute gradients
//	gradients := autodiff.Backward(y, autodiffBackend)
//	fmt.Println(gradients[x.Raw()]) // dy/dx = 2x = 4.0
package autodiff

import (
	"github.com/ripple-ml/ripple/internal/autodiff/ops"
	"github.com/ripple-ml/ripple/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend (CPU, GPU, etc.)
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
// Useful for:
//   - Starting/stopping recording
//   - Clearing tape between iterations
//   - Inspecting recorded operations
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// NoGrad runs fn with gradient recording disabled, then restores the
// previous recording state. Useful for evaluation passes (computing a
// validation loss, inspecting a recovered kernel) that should not grow
// the tape. Calls may be nested.
func (b *AutodiffBackend[B]) NoGrad(fn func()) {
	wasRecording := b.tape.IsRecording()
	b.tape.StopRecording()
	defer func() {
		if wasRecording {
			b.tape.StartRecording()
		}
	}()
	fn()
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	// CRITICAL: Prevent inplace modification that would corrupt autodiff graph.
	// Temporarily increase refCount so IsUnique() returns false.
	// This forces CPU backend to allocate new result instead of inplace modification.
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	// Forward pass using wrapped backend
	result := b.inner.Add(a, c)

	// Record operation if tape is recording
	if b.tape.IsRecording() {
		op := ops.NewAddOp(a, c, result)
		b.tape.Record(op)
	}

	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Sub(a, c)

	if b.tape.IsRecording() {
		op := ops.NewSubOp(a, c, result)
		b.tape.Record(op)
	}

	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Mul(a, c)

	if b.tape.IsRecording() {
		op := ops.NewMulOp(a, c, result)
		b.tape.Record(op)
	}

	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Div(a, c)

	if b.tape.IsRecording() {
		op := ops.NewDivOp(a, c, result)
		b.tape.Record(op)
	}

	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.MatMul(a, c)

	if b.tape.IsRecording() {
		op := ops.NewMatMulOp(a, c, result)
		b.tape.Record(op)
	}

	return result
}

// MulScalar multiplies each element by a scalar and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.MulScalar(x, scalar)

	if b.tape.IsRecording() {
		op := ops.NewMulScalarOp(x, result, scalar)
		b.tape.Record(op)
	}

	return result
}

// AddScalar adds a scalar to each element and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.AddScalar(x, scalar)

	if b.tape.IsRecording() {
		op := ops.NewAddScalarOp(x, result, scalar)
		b.tape.Record(op)
	}

	return result
}

// Sum reduces the tensor to a scalar and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sum(x)

	if b.tape.IsRecording() {
		op := ops.NewSumOp(x, result)
		b.tape.Record(op)
	}

	return result
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.SumDim(x, dim, keepDim)

	if b.tape.IsRecording() {
		op := ops.NewSumDimOp(x, result, dim, keepDim)
		b.tape.Record(op)
	}

	return result
}

// MeanDim averages along a dimension and records the operation.
func (b *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.MeanDim(x, dim, keepDim)

	if b.tape.IsRecording() {
		op := ops.NewMeanDimOp(x, result, dim, keepDim)
		b.tape.Record(op)
	}

	return result
}

// Reshape reshapes a tensor and records the operation.
//
// CRITICAL: Like Transpose, Reshape must be recorded on tape!
// Without recording, gradients computed for the reshaped tensor would
// never propagate back to the original parameter.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	// Forward pass using wrapped backend
	result := b.inner.Reshape(t, newShape)

	// Record operation if tape is recording
	if b.tape.IsRecording() {
		op := ops.NewReshapeOp(t, result)
		b.tape.Record(op)
	}

	return result
}

// Transpose transposes a tensor and records the operation.
//
// CRITICAL: Even though conceptually transpose is a "view", the underlying
// backend may create a new tensor (e.g., CPU backend copies data).
// We MUST record this operation so gradients flow back correctly.
//
// For example, in Linear layer:
//
//	w = weight parameter
//	wT = w.Transpose()  // Creates NEW tensor!
//	output = input @ wT  // MatMul records operation with wT
//
// Without recording Transpose:
//   - Backward computes grad for wT (new tensor)
//   - Optimizer looks for grad of w (original parameter)
//   - NO GRADIENT FOUND! Parameters don't update!
//
// With TransposeOp:
//   - Backward computes grad for wT
//   - TransposeOp.Backward propagates grad back to w
//   - Optimizer finds grad for w ✓
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	// Handle default axes (reverse all dimensions)
	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	// Forward pass using wrapped backend
	result := b.inner.Transpose(t, axes...)

	// Record operation if tape is recording
	if b.tape.IsRecording() {
		op := ops.NewTransposeOp(t, result, axes)
		b.tape.Record(op)
	}

	return result
}

// ReLU applies ReLU activation and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	// Forward pass: max(0, x)
	result, err := tensor.NewRaw(x.Shape(), x.DType(), b.Device())
	if err != nil {
		panic(err)
	}

	// Apply ReLU based on dtype
	switch x.DType() {
	case tensor.Float32:
		xData := x.AsFloat32()
		resData := result.AsFloat32()
		for i, val := range xData {
			if val > 0 {
				resData[i] = val
			} else {
				resData[i] = 0
			}
		}

	case tensor.Float64:
		xData := x.AsFloat64()
		resData := result.AsFloat64()
		for i, val := range xData {
			if val > 0 {
				resData[i] = val
			} else {
				resData[i] = 0
			}
		}

	default:
		panic("ReLU: only supports float32 and float64")
	}

	// Record operation if tape is recording
	if b.tape.IsRecording() {
		op := ops.NewReLUOp(x, result)
		b.tape.Record(op)
	}

	return result
}

// SpectralMagnitude computes the elementwise magnitude of the 2D real FFT
// of the input and records the operation.
//
// Forward:
//
//	output = |RFFT2(input)|
//
// An (m, n) input produces an (m, n/2+1) output (half spectrum).
//
// Backward:
//
//	∂L/∂input ≈ IRFFT2(∂L/∂output)
//
// The backward pass is a documented approximation; see ops.SpectralMagnitudeOp.
func (b *AutodiffBackend[B]) SpectralMagnitude(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	// Forward pass using helper function
	result := ops.SpectralMagnitudeForward(x, b.Device())

	// Record operation if tape is recording
	if b.tape.IsRecording() {
		op := ops.NewSpectralMagnitudeOp(x, result)
		b.tape.Record(op)
	}

	return result
}

// CrossCorrelate2D slides a learnable kernel over the input in valid mode
// and records the operation.
//
// Forward:
//
//	output[i,j] = Σ_{u,v} input[i+u, j+v] * kernel[u,v]
//
// An (h, w) input and a (kh, kw) kernel produce an (h-kh+1, w-kw+1) output.
//
// Backward:
//
//	∂L/∂input  = full convolution of ∂L/∂output with the kernel
//	∂L/∂kernel = valid cross-correlation of the input with ∂L/∂output
//
// Both gradients are exact adjoints; see ops.CrossCorr2DOp.
func (b *AutodiffBackend[B]) CrossCorrelate2D(input, kernel *tensor.RawTensor) *tensor.RawTensor {
	defer input.ForceNonUnique()()
	defer kernel.ForceNonUnique()()

	// Forward pass using helper function
	result := ops.CrossCorrelate2DForward(input, kernel, b.Device())

	// Record operation if tape is recording
	if b.tape.IsRecording() {
		op := ops.NewCrossCorr2DOp(input, kernel, result)
		b.tape.Record(op)
	}

	return result
}

// MSE computes mean squared error loss and records the operation.
//
// Forward:
//
//	Loss = mean((prediction - target)²)
//
// Backward:
//
//	∂L/∂prediction = 2 * (prediction - target) / n
//
// Parameters:
//   - prediction: model output, any shape
//   - target: ground truth, same shape as prediction
//
// Returns:
//   - Scalar loss value (mean over all elements)
func (b *AutodiffBackend[B]) MSE(prediction, target *tensor.RawTensor) *tensor.RawTensor {
	defer prediction.ForceNonUnique()()
	// Note: target doesn't need ForceNonUnique() as it's not differentiated

	// Forward pass using helper function
	result := ops.MSEForward(prediction, target, b.Device())

	// Record operation if tape is recording
	if b.tape.IsRecording() {
		op := ops.NewMSEOp(prediction, target, result)
		b.tape.Record(op)
	}

	return result
}
