package ops

import (
	"math"
	"testing"

	"github.com/ripple-ml/ripple/internal/backend/cpu"
	"github.com/ripple-ml/ripple/internal/tensor"
)

// TestReduceBroadcast_ScalarGradient tests scalar gradient broadcasting.
// This is critical for backward pass from a scalar loss such as MSE.
func TestReduceBroadcast_ScalarGradient(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name        string
		targetShape tensor.Shape
		scalarValue float32
	}{
		{"scalar to 1D", tensor.Shape{5}, 1.0},
		{"scalar to 2D", tensor.Shape{3, 4}, 2.5},
		{"scalar to 3D", tensor.Shape{2, 3, 4}, 0.5},
		{"scalar to 4D", tensor.Shape{2, 3, 4, 5}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create scalar gradient (empty shape)
			scalarGrad, err := tensor.NewRaw(tensor.Shape{}, tensor.Float32, backend.Device())
			if err != nil {
				t.Fatalf("Failed to create scalar gradient: %v", err)
			}
			scalarGrad.AsFloat32()[0] = tt.scalarValue

			// Broadcast to target shape
			result := reduceBroadcast(scalarGrad, tt.targetShape, backend)

			// Check result shape matches target
			if !result.Shape().Equal(tt.targetShape) {
				t.Errorf("Expected shape %v, got %v", tt.targetShape, result.Shape())
			}

			// Check all elements equal scalar value
			resultData := result.AsFloat32()
			expectedNumElements := tt.targetShape.NumElements()
			if len(resultData) != expectedNumElements {
				t.Errorf("Expected %d elements, got %d", expectedNumElements, len(resultData))
			}

			for i, val := range resultData {
				if val != tt.scalarValue {
					t.Errorf("Element %d: expected %v, got %v", i, tt.scalarValue, val)
				}
			}
		})
	}
}

// TestReduceBroadcast_ScalarGradient_Float64 tests scalar gradient broadcasting for float64.
func TestReduceBroadcast_ScalarGradient_Float64(t *testing.T) {
	backend := cpu.New()

	// Create scalar gradient (empty shape)
	scalarGrad, err := tensor.NewRaw(tensor.Shape{}, tensor.Float64, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create scalar gradient: %v", err)
	}
	scalarGrad.AsFloat64()[0] = 3.14159

	targetShape := tensor.Shape{2, 3}

	// Broadcast to target shape
	result := reduceBroadcast(scalarGrad, targetShape, backend)

	// Check result
	if !result.Shape().Equal(targetShape) {
		t.Errorf("Expected shape %v, got %v", targetShape, result.Shape())
	}

	resultData := result.AsFloat64()
	for i, val := range resultData {
		if math.Abs(val-3.14159) > 1e-10 {
			t.Errorf("Element %d: expected 3.14159, got %v", i, val)
		}
	}
}

// TestReduceBroadcast_ShapesMatch tests that matching shapes result in clone.
func TestReduceBroadcast_ShapesMatch(t *testing.T) {
	backend := cpu.New()

	grad, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, backend.Device())
	gradData := grad.AsFloat32()
	for i := range gradData {
		gradData[i] = float32(i + 1)
	}

	result := reduceBroadcast(grad, tensor.Shape{2, 3}, backend)

	// Should be clone (not same pointer)
	if result == grad {
		t.Error("Expected clone, got same pointer")
	}

	// Data should match
	resultData := result.AsFloat32()
	for i, val := range resultData {
		if val != gradData[i] {
			t.Errorf("Element %d: expected %v, got %v", i, gradData[i], val)
		}
	}
}

// TestReduceBroadcast_ToScalarTarget tests reduction to scalar.
func TestReduceBroadcast_ToScalarTarget(t *testing.T) {
	backend := cpu.New()

	// Create non-scalar gradient
	grad, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, backend.Device())
	gradData := grad.AsFloat32()
	for i := range gradData {
		gradData[i] = 1.0
	}

	// Reduce to scalar
	result := reduceBroadcast(grad, tensor.Shape{}, backend)

	// Check result is scalar
	if len(result.Shape()) != 0 {
		t.Errorf("Expected scalar shape [], got %v", result.Shape())
	}

	// Check value is sum of all elements
	resultData := result.AsFloat32()
	expected := float32(6.0) // 2*3 = 6 elements, each 1.0
	if resultData[0] != expected {
		t.Errorf("Expected %v, got %v", expected, resultData[0])
	}
}

// TestReduceBroadcast_BroadcastedDimension tests reduction along a broadcasted dimension.
func TestReduceBroadcast_BroadcastedDimension(t *testing.T) {
	backend := cpu.New()

	// Gradient has shape [3, 4] (result of forward broadcasting [3,1] -> [3,4])
	grad, _ := tensor.NewRaw(tensor.Shape{3, 4}, tensor.Float32, backend.Device())
	gradData := grad.AsFloat32()
	for i := range gradData {
		gradData[i] = 1.0
	}

	// Reduce back to [3, 1]
	targetShape := tensor.Shape{3, 1}
	result := reduceBroadcast(grad, targetShape, backend)

	// Check result shape
	if !result.Shape().Equal(targetShape) {
		t.Errorf("Expected shape %v, got %v", targetShape, result.Shape())
	}

	// Each element should be sum along broadcasted dimension (4 elements)
	resultData := result.AsFloat32()
	for i, val := range resultData {
		expected := float32(4.0)
		if val != expected {
			t.Errorf("Element %d: expected %v, got %v", i, expected, val)
		}
	}
}

// TestReduceBroadcast_LeadingDimension tests reduction of extra leading dimensions.
func TestReduceBroadcast_LeadingDimension(t *testing.T) {
	backend := cpu.New()

	// Gradient has shape [2, 3] (result of forward broadcasting [3] -> [2,3])
	grad, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, backend.Device())
	gradData := grad.AsFloat32()
	// Row 0: [1, 2, 3], Row 1: [10, 20, 30]
	copy(gradData, []float32{1, 2, 3, 10, 20, 30})

	// Reduce back to [3]: sum over the leading dimension
	targetShape := tensor.Shape{3}
	result := reduceBroadcast(grad, targetShape, backend)

	if !result.Shape().Equal(targetShape) {
		t.Fatalf("Expected shape %v, got %v", targetShape, result.Shape())
	}

	expected := []float32{11, 22, 33}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("Element %d: expected %v, got %v", i, exp, resultData[i])
		}
	}
}

// TestNegateGradient tests gradient negation.
func TestNegateGradient(t *testing.T) {
	backend := cpu.New()

	grad, _ := tensor.NewRaw(tensor.Shape{3}, tensor.Float64, backend.Device())
	gradData := grad.AsFloat64()
	gradData[0], gradData[1], gradData[2] = 1.5, -2.0, 0

	result := negateGradient(grad, backend)

	expected := []float64{-1.5, 2.0, 0}
	resultData := result.AsFloat64()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("Element %d: expected %v, got %v", i, exp, resultData[i])
		}
	}
}

// TestSubOp_Backward_ScalarGradient tests SubOp backward with scalar gradient.
// This reproduces the bug scenario from the bug report.
func TestSubOp_Backward_ScalarGradient(t *testing.T) {
	backend := cpu.New()

	// Create two tensors for subtraction
	a, _ := tensor.NewRaw(tensor.Shape{80, 13}, tensor.Float32, backend.Device())
	aData := a.AsFloat32()
	for i := range aData {
		aData[i] = float32(i % 10)
	}

	b, _ := tensor.NewRaw(tensor.Shape{80, 13}, tensor.Float32, backend.Device())
	bData := b.AsFloat32()
	for i := range bData {
		bData[i] = float32((i + 1) % 10)
	}

	// Forward: output = a - b
	output := backend.Sub(a, b)

	// Create SubOp
	op := NewSubOp(a, b, output)

	// Create scalar gradient (simulating backward from scalar loss)
	outputGrad, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32, backend.Device())
	outputGrad.AsFloat32()[0] = 1.0

	// Backward - this should NOT panic
	grads := op.Backward(outputGrad, backend)

	// Check gradients have correct shapes
	if !grads[0].Shape().Equal(a.Shape()) {
		t.Errorf("grad_a shape: expected %v, got %v", a.Shape(), grads[0].Shape())
	}

	if !grads[1].Shape().Equal(b.Shape()) {
		t.Errorf("grad_b shape: expected %v, got %v", b.Shape(), grads[1].Shape())
	}

	// Check gradient values
	// For Sub: grad_a = outputGrad, grad_b = -outputGrad
	// Since outputGrad is scalar 1.0 broadcast to [80,13]:
	// grad_a should be all 1.0
	// grad_b should be all -1.0

	gradAData := grads[0].AsFloat32()
	for i, val := range gradAData {
		if val != 1.0 {
			t.Errorf("grad_a[%d]: expected 1.0, got %v", i, val)
		}
	}

	gradBData := grads[1].AsFloat32()
	for i, val := range gradBData {
		if val != -1.0 {
			t.Errorf("grad_b[%d]: expected -1.0, got %v", i, val)
		}
	}
}

// TestAddOp_Backward_ScalarGradient tests AddOp backward with scalar gradient.
func TestAddOp_Backward_ScalarGradient(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.NewRaw(tensor.Shape{3, 4}, tensor.Float32, backend.Device())
	b, _ := tensor.NewRaw(tensor.Shape{3, 4}, tensor.Float32, backend.Device())
	output := backend.Add(a, b)

	op := NewAddOp(a, b, output)

	// Scalar gradient
	outputGrad, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32, backend.Device())
	outputGrad.AsFloat32()[0] = 2.0

	grads := op.Backward(outputGrad, backend)

	// Both gradients should be all 2.0
	gradAData := grads[0].AsFloat32()
	gradBData := grads[1].AsFloat32()

	for i := range gradAData {
		if gradAData[i] != 2.0 {
			t.Errorf("grad_a[%d]: expected 2.0, got %v", i, gradAData[i])
		}
		if gradBData[i] != 2.0 {
			t.Errorf("grad_b[%d]: expected 2.0, got %v", i, gradBData[i])
		}
	}
}

// TestMulOp_Backward_ScalarGradient tests MulOp backward with scalar gradient.
func TestMulOp_Backward_ScalarGradient(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, backend.Device())
	aData := a.AsFloat32()
	for i := range aData {
		aData[i] = float32(i + 1)
	}

	b, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, backend.Device())
	bData := b.AsFloat32()
	for i := range bData {
		bData[i] = 2.0
	}

	output := backend.Mul(a, b)
	op := NewMulOp(a, b, output)

	// Scalar gradient
	outputGrad, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32, backend.Device())
	outputGrad.AsFloat32()[0] = 1.0

	grads := op.Backward(outputGrad, backend)

	// grad_a = outputGrad * b (element-wise)
	// grad_b = outputGrad * a (element-wise)
	// Since outputGrad is scalar 1.0 broadcast to [2,3]:
	// grad_a[i] = 1.0 * b[i] = 2.0
	// grad_b[i] = 1.0 * a[i] = a[i]

	gradAData := grads[0].AsFloat32()
	gradBData := grads[1].AsFloat32()

	for i := range gradAData {
		expectedA := bData[i] // 2.0 * 1.0 = 2.0
		expectedB := aData[i] // a[i] * 1.0 = a[i]

		if gradAData[i] != expectedA {
			t.Errorf("grad_a[%d]: expected %v, got %v", i, expectedA, gradAData[i])
		}
		if gradBData[i] != expectedB {
			t.Errorf("grad_b[%d]: expected %v, got %v", i, expectedB, gradBData[i])
		}
	}
}
