package ops

import (
	"fmt"

	"github.com/ripple-ml/ripple/internal/tensor"
)

// MSEOp represents the mean squared error loss operation.
//
// Forward:
//
//	Loss = mean((prediction - target)²)
//
// Backward:
//
//	∂L/∂prediction = 2 * (prediction - target) / n
//
// Where n is the number of elements. Fusing the subtraction, square and
// mean into one operation keeps the tape short and the gradient formula
// a single pass over the data.
//
// Assumptions:
//   - Prediction and target have identical shapes
//   - Output: scalar loss (mean over all elements)
//   - The target is ground truth and receives no gradient
type MSEOp struct {
	prediction *tensor.RawTensor // Model output
	target     *tensor.RawTensor // Ground truth, same shape as prediction
	output     *tensor.RawTensor // Scalar loss output
}

// NewMSEOp creates a new mean squared error operation.
func NewMSEOp(prediction, target, output *tensor.RawTensor) *MSEOp {
	return &MSEOp{
		prediction: prediction,
		target:     target,
		output:     output,
	}
}

// Inputs returns the input tensors.
func (op *MSEOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.prediction}
}

// Output returns the output tensor.
func (op *MSEOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes the gradient with respect to the prediction.
//
// Gradient formula:
//
//	∂L/∂prediction[i] = 2 * (prediction[i] - target[i]) / n
func (op *MSEOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	predGrad, err := tensor.NewRaw(op.prediction.Shape(), op.prediction.DType(), op.prediction.Device())
	if err != nil {
		panic(err)
	}

	switch op.prediction.DType() {
	case tensor.Float32:
		computeMSEGradFloat32(
			op.prediction.AsFloat32(),
			op.target.AsFloat32(),
			outputGrad.AsFloat32(),
			predGrad.AsFloat32(),
		)

	case tensor.Float64:
		computeMSEGradFloat64(
			op.prediction.AsFloat64(),
			op.target.AsFloat64(),
			outputGrad.AsFloat64(),
			predGrad.AsFloat64(),
		)

	default:
		panic("MSEOp: backward only supports float32 and float64")
	}

	return []*tensor.RawTensor{predGrad}
}

// computeMSEGradFloat32 computes gradients for float32 MSE.
func computeMSEGradFloat32(predData, targetData, outGradData, gradData []float32) {
	gradScale := outGradData[0] // Usually 1.0, but we respect upstream gradient
	n := float32(len(predData))

	for i := range predData {
		gradData[i] = gradScale * 2 * (predData[i] - targetData[i]) / n
	}
}

// computeMSEGradFloat64 computes gradients for float64 MSE.
func computeMSEGradFloat64(predData, targetData, outGradData, gradData []float64) {
	gradScale := outGradData[0]
	n := float64(len(predData))

	for i := range predData {
		gradData[i] = gradScale * 2 * (predData[i] - targetData[i]) / n
	}
}

// MSEForward computes mean squared error loss (helper function).
//
// This is a helper for use outside autodiff context.
// For autodiff support, use AutodiffBackend with MSEOp.
//
// Returns a scalar tensor (empty shape) holding the mean over all elements.
func MSEForward(prediction, target *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	if !prediction.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("MSEForward: shape mismatch %v vs %v", prediction.Shape(), target.Shape()))
	}

	// Scalar output (empty shape, one element)
	output, err := tensor.NewRaw(tensor.Shape{}, prediction.DType(), device)
	if err != nil {
		panic(err)
	}

	switch prediction.DType() {
	case tensor.Float32:
		predData := prediction.AsFloat32()
		targetData := target.AsFloat32()

		total := float32(0.0)
		for i := range predData {
			diff := predData[i] - targetData[i]
			total += diff * diff
		}
		output.AsFloat32()[0] = total / float32(len(predData))

	case tensor.Float64:
		predData := prediction.AsFloat64()
		targetData := target.AsFloat64()

		total := 0.0
		for i := range predData {
			diff := predData[i] - targetData[i]
			total += diff * diff
		}
		output.AsFloat64()[0] = total / float64(len(predData))

	default:
		panic("MSEForward: only supports float32 and float64")
	}

	return output
}
