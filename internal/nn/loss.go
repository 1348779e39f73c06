package nn

import (
	"github.com/ripple-ml/ripple/internal/tensor"
)

// MSEBackend is an interface for backends that support the fused MSE loss.
type MSEBackend interface {
	MSE(prediction, target *tensor.RawTensor) *tensor.RawTensor
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is commonly used for regression tasks where the goal is to predict
// continuous values — recovering a correlation kernel from input/output
// pairs is exactly such a task.
//
// When the backend implements MSEBackend (autodiff.AutodiffBackend does),
// the loss is computed as a single fused operation recorded on the tape,
// so calling Backward on the returned scalar propagates
// 2*(predictions-targets)/n into the prediction graph. On backends without
// the fused op the loss value is still computed, but off-tape — useful for
// evaluation only.
//
// Example:
//
//	mse := nn.NewMSELoss(backend)
//	predictions := model.Forward(input)
//	loss := mse.Forward(predictions, targets)
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{
		backend: backend,
	}
}

// Forward computes the MSE loss.
//
// Loss = mean((predictions - targets)²)
//
// Parameters:
//   - predictions: Model predictions with shape [batch_size, ...]
//   - targets: Ground truth targets with same shape as predictions
//
// Returns a scalar loss tensor (empty shape, one element).
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	// Validate shapes match
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	// Fused op: computed and recorded in one step
	if mseBackend, ok := any(m.backend).(MSEBackend); ok {
		lossRaw := mseBackend.MSE(predictions.Raw(), targets.Raw())
		return tensor.New[float32, B](lossRaw, m.backend)
	}

	// Off-tape fallback for plain backends
	data := predictions.Raw().AsFloat32()
	targetData := targets.Raw().AsFloat32()
	var sum float32
	for i, v := range data {
		d := v - targetData[i]
		sum += d * d
	}
	mean := sum / float32(len(data))

	lossRaw, err := tensor.NewRaw(tensor.Shape{}, tensor.Float32, m.backend.Device())
	if err != nil {
		panic(err)
	}
	lossRaw.AsFloat32()[0] = mean

	return tensor.New[float32, B](lossRaw, m.backend)
}

// Parameters returns an empty slice (loss functions have no trainable parameters).
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
