package nn

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/tensor"
)

// CrossCorrBackend is an interface for backends that support 2D cross-correlation.
type CrossCorrBackend interface {
	CrossCorrelate2D(input, kernel *tensor.RawTensor) *tensor.RawTensor
}

// CrossCorr2D slides one learnable kernel over a 2D input in valid mode
// (no padding, stride 1).
//
// Performs: output[i,j] = Σ_{u,v} input[i+u, j+v] * kernel[u,v]
//
// Input shape:  [height, width]
// Kernel shape: [kernel_h, kernel_w]
// Output shape: [height - kernel_h + 1, width - kernel_w + 1]
//
// The kernel is the layer's only learnable parameter; there is no bias.
// It is initialized from a standard normal distribution, so two freshly
// constructed layers start from different kernels.
//
// The backward pass is the exact adjoint of the forward correlation: the
// input gradient is a full-mode convolution of the output gradient with
// the kernel, and the kernel gradient is a valid-mode correlation of the
// input with the output gradient. This makes the layer trainable by any
// gradient-descent optimizer, e.g. to recover a hidden kernel from
// input/output pairs.
//
// Example:
//
//	layer := nn.NewCrossCorr2D(3, 3, backend)
//
//	input := tensor.Randn[float32](tensor.Shape{8, 8}, backend)
//	output := layer.Forward(input) // shape: [6, 6]
type CrossCorr2D[B tensor.Backend] struct {
	kernelSize [2]int
	kernel     *Parameter[B] // [kernel_h, kernel_w]
	backend    B
}

// NewCrossCorr2D creates a new cross-correlation layer with a randomly
// initialized kernel.
//
// Parameters:
//   - kernelH, kernelW: Kernel dimensions
//   - backend: Backend for computation
//
// Returns a new CrossCorr2D layer.
func NewCrossCorr2D[B tensor.Backend](kernelH, kernelW int, backend B) *CrossCorr2D[B] {
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("crosscorr2d: invalid kernel size h=%d, w=%d", kernelH, kernelW))
	}

	kernelShape := tensor.Shape{kernelH, kernelW}
	kernelTensor := Randn(kernelShape, backend)
	kernel := NewParameter("kernel", kernelTensor)

	return &CrossCorr2D[B]{
		kernelSize: [2]int{kernelH, kernelW},
		kernel:     kernel,
		backend:    backend,
	}
}

// Forward computes the valid-mode cross-correlation of the input with the
// layer's kernel.
//
// Input shape: [height, width] with height ≥ kernel_h and width ≥ kernel_w.
// Output shape: [height - kernel_h + 1, width - kernel_w + 1].
func (c *CrossCorr2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	// Validate input shape
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("crosscorr2d: expected 2D input [H,W], got %dD", len(inputShape)))
	}
	if inputShape[0] < c.kernelSize[0] || inputShape[1] < c.kernelSize[1] {
		panic(fmt.Sprintf("crosscorr2d: kernel %dx%d larger than input %dx%d",
			c.kernelSize[0], c.kernelSize[1], inputShape[0], inputShape[1]))
	}

	// Check if backend supports cross-correlation via interface
	corrBackend, ok := any(c.backend).(CrossCorrBackend)
	if !ok {
		panic("crosscorr2d: backend must implement CrossCorrelate2D (use autodiff.AutodiffBackend)")
	}

	outputRaw := corrBackend.CrossCorrelate2D(input.Raw(), c.kernel.Tensor().Raw())

	return tensor.New[float32, B](outputRaw, c.backend)
}

// Parameters returns the trainable parameters of this layer.
//
// The kernel is the sole learnable parameter.
func (c *CrossCorr2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.kernel}
}

// Kernel returns the kernel parameter.
func (c *CrossCorr2D[B]) Kernel() *Parameter[B] {
	return c.kernel
}

// KernelSize returns the kernel size [height, width].
func (c *CrossCorr2D[B]) KernelSize() [2]int {
	return c.kernelSize
}

// ComputeOutputSize computes output spatial dimensions for given input size.
//
// Returns: [out_height, out_width].
func (c *CrossCorr2D[B]) ComputeOutputSize(inputH, inputW int) [2]int {
	outH := inputH - c.kernelSize[0] + 1
	outW := inputW - c.kernelSize[1] + 1
	return [2]int{outH, outW}
}

// String returns a string representation of the layer.
func (c *CrossCorr2D[B]) String() string {
	return fmt.Sprintf("CrossCorr2D(kernel_size=(%d, %d))", c.kernelSize[0], c.kernelSize[1])
}

// StateDict returns a map of parameter names to raw tensors.
func (c *CrossCorr2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"kernel": c.kernel.Tensor().Raw(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (c *CrossCorr2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	kernelRaw, ok := stateDict["kernel"]
	if !ok {
		return fmt.Errorf("missing kernel in state dict")
	}

	// Validate kernel shape
	expectedShape := tensor.Shape{c.kernelSize[0], c.kernelSize[1]}
	if !kernelRaw.Shape().Equal(expectedShape) {
		return fmt.Errorf("kernel shape mismatch: expected %v, got %v",
			expectedShape, kernelRaw.Shape())
	}

	// Validate kernel dtype
	if kernelRaw.DType() != tensor.Float32 {
		return fmt.Errorf("kernel dtype mismatch: expected float32, got %v",
			kernelRaw.DType())
	}

	// Copy kernel data
	kernelData := c.kernel.Tensor().Data()
	copy(kernelData, kernelRaw.AsFloat32())

	return nil
}
