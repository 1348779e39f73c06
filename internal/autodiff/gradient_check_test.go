package autodiff_test

import (
	"math"
	"testing"

	"github.com/ripple-ml/ripple/internal/autodiff"
	"github.com/ripple-ml/ripple/internal/backend/cpu"
	"github.com/ripple-ml/ripple/internal/tensor"
)

// numericalGradient computes the gradient using finite differences.
// f: function that takes a float32 and returns a float32.
// x: point at which to compute the gradient.
// epsilon: small value for finite difference.
func numericalGradient(f func(float32) float32, x, epsilon float32) float32 {
	return (f(x+epsilon) - f(x-epsilon)) / (2 * epsilon)
}

// numericalGradient64 is the float64 variant, used where finite differences
// need more headroom than float32 provides.
func numericalGradient64(f func(float64) float64, x, epsilon float64) float64 {
	return (f(x+epsilon) - f(x-epsilon)) / (2 * epsilon)
}

// relativeDiff measures |a-b| scaled by the larger magnitude, floored at 1
// so near-zero gradients are compared absolutely.
func relativeDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1 {
		scale = 1
	}
	return math.Abs(a-b) / scale
}

// TestNumericalGradient_SimpleSquare tests f(x) = x².
func TestNumericalGradient_SimpleSquare(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := float32(1e-4)
	testPoint := float32(3.0)

	// Autodiff gradient
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{testPoint}, tensor.Shape{1}, backend)
	y := backend.Mul(x.Raw(), x.Raw()) // y = x²

	result := tensor.New[float32](y, backend)
	gradients := autodiff.Backward(result, backend)

	autodiffGrad := gradients[x.Raw()].AsFloat32()[0]

	// Numerical gradient
	f := func(val float32) float32 { return val * val }
	numericalGrad := numericalGradient(f, testPoint, epsilon)

	// Expected: df/dx = 2x = 6.0
	expected := float32(6.0)

	// Compare
	if math.Abs(float64(autodiffGrad-expected)) > 1e-5 {
		t.Errorf("Autodiff gradient = %f, want %f", autodiffGrad, expected)
	}

	if math.Abs(float64(numericalGrad-expected)) > 1e-3 {
		t.Errorf("Numerical gradient = %f, want %f", numericalGrad, expected)
	}

	// Numerical gradients have inherent error from finite differences
	// 1% tolerance is reasonable (0.01)
	if math.Abs(float64(autodiffGrad-numericalGrad)) > 0.01 {
		t.Errorf("Autodiff grad (%f) differs from numerical grad (%f) by %f",
			autodiffGrad, numericalGrad, autodiffGrad-numericalGrad)
	}
}

// TestNumericalGradient_Composite tests f(x) = (x + 2) * 3.
func TestNumericalGradient_Composite(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := float32(1e-4)
	testPoint := float32(5.0)

	// Autodiff gradient
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{testPoint}, tensor.Shape{1}, backend)
	two, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	three, _ := tensor.FromSlice([]float32{3}, tensor.Shape{1}, backend)

	temp := backend.Add(x.Raw(), two.Raw())
	y := backend.Mul(temp, three.Raw()) // y = (x + 2) * 3

	result := tensor.New[float32](y, backend)
	gradients := autodiff.Backward(result, backend)

	autodiffGrad := gradients[x.Raw()].AsFloat32()[0]

	// Numerical gradient
	f := func(val float32) float32 { return (val + 2) * 3 }
	numericalGrad := numericalGradient(f, testPoint, epsilon)

	// Expected: df/dx = 3
	expected := float32(3.0)

	if math.Abs(float64(autodiffGrad-expected)) > 1e-5 {
		t.Errorf("Autodiff gradient = %f, want %f", autodiffGrad, expected)
	}

	// Numerical gradients have inherent error from finite differences
	// 1% tolerance is reasonable (0.01)
	if math.Abs(float64(autodiffGrad-numericalGrad)) > 0.01 {
		t.Errorf("Autodiff grad (%f) differs from numerical grad (%f) by %f",
			autodiffGrad, numericalGrad, autodiffGrad-numericalGrad)
	}
}

// TestNumericalGradient_Polynomial tests f(x) = x³ - 2x² + x.
func TestNumericalGradient_Polynomial(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := float32(1e-4)
	testPoint := float32(2.0)

	// Autodiff gradient: f(x) = x³ - 2x² + x
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{testPoint}, tensor.Shape{1}, backend)
	two, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)

	x2 := backend.Mul(x.Raw(), x.Raw()) // x²
	x3 := backend.Mul(x2, x.Raw())      // x³
	twoX2 := backend.Mul(two.Raw(), x2) // 2x²
	term1 := backend.Sub(x3, twoX2)     // x³ - 2x²
	y := backend.Add(term1, x.Raw())    // x³ - 2x² + x

	result := tensor.New[float32](y, backend)
	gradients := autodiff.Backward(result, backend)

	autodiffGrad := gradients[x.Raw()].AsFloat32()[0]

	// Numerical gradient
	f := func(val float32) float32 {
		return val*val*val - 2*val*val + val
	}
	numericalGrad := numericalGradient(f, testPoint, epsilon)

	// Expected: df/dx = 3x² - 4x + 1 = 3*4 - 4*2 + 1 = 12 - 8 + 1 = 5
	expected := float32(5.0)

	if math.Abs(float64(autodiffGrad-expected)) > 1e-4 {
		t.Errorf("Autodiff gradient = %f, want %f", autodiffGrad, expected)
	}

	// Numerical gradients have inherent error from finite differences
	// 1% tolerance is reasonable (0.01)
	if math.Abs(float64(autodiffGrad-numericalGrad)) > 0.01 {
		t.Errorf("Autodiff grad (%f) differs from numerical grad (%f) by %f",
			autodiffGrad, numericalGrad, autodiffGrad-numericalGrad)
	}
}

// TestNumericalGradient_Division tests f(x) = 1/x.
func TestNumericalGradient_Division(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := float32(1e-4)
	testPoint := float32(2.0)

	// Autodiff gradient: f(x) = 1/x
	tape.Clear()
	tape.StartRecording()

	one, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	x, _ := tensor.FromSlice([]float32{testPoint}, tensor.Shape{1}, backend)

	y := backend.Div(one.Raw(), x.Raw()) // y = 1/x

	result := tensor.New[float32](y, backend)
	gradients := autodiff.Backward(result, backend)

	gradX := gradients[x.Raw()]
	if gradX == nil {
		t.Fatal("Expected gradient for x")
	}

	autodiffGrad := gradX.AsFloat32()[0]

	// Numerical gradient
	f := func(val float32) float32 { return 1 / val }
	numericalGrad := numericalGradient(f, testPoint, epsilon)

	// Expected: df/dx = -1/x² = -1/4 = -0.25
	expected := float32(-0.25)

	if math.Abs(float64(autodiffGrad-expected)) > 1e-4 {
		t.Errorf("Autodiff gradient = %f, want %f", autodiffGrad, expected)
	}

	// Numerical gradients have inherent error from finite differences
	// 1% tolerance is reasonable (0.01)
	if math.Abs(float64(autodiffGrad-numericalGrad)) > 0.01 {
		t.Errorf("Autodiff grad (%f) differs from numerical grad (%f) by %f",
			autodiffGrad, numericalGrad, autodiffGrad-numericalGrad)
	}
}

// TestNumericalGradient_ReLU tests ReLU gradient checking.
func TestNumericalGradient_ReLU(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := float32(1e-4)

	tests := []struct {
		name      string
		testPoint float32
		expected  float32
	}{
		{"positive input", 2.0, 1.0},
		{"negative input", -2.0, 0.0},
		// Note: at x=0, ReLU is not differentiable, numerical gradient will be noisy
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Autodiff gradient
			tape.Clear()
			tape.StartRecording()

			x, _ := tensor.FromSlice([]float32{tt.testPoint}, tensor.Shape{1}, backend)
			y := backend.ReLU(x.Raw())

			result := tensor.New[float32](y, backend)
			gradients := autodiff.Backward(result, backend)

			autodiffGrad := gradients[x.Raw()].AsFloat32()[0]

			// Numerical gradient
			f := func(val float32) float32 {
				if val > 0 {
					return val
				}
				return 0
			}
			numericalGrad := numericalGradient(f, tt.testPoint, epsilon)

			if math.Abs(float64(autodiffGrad-tt.expected)) > 1e-5 {
				t.Errorf("Autodiff gradient = %f, want %f", autodiffGrad, tt.expected)
			}

			if math.Abs(float64(autodiffGrad-numericalGrad)) > 1e-3 {
				t.Errorf("Autodiff grad (%f) differs from numerical grad (%f) by %f",
					autodiffGrad, numericalGrad, autodiffGrad-numericalGrad)
			}
		})
	}
}

// TestNumericalGradient_Float64 tests gradient checking with float64.
func TestNumericalGradient_Float64(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := float64(1e-8)
	testPoint := float64(3.0)

	// Autodiff gradient: f(x) = x²
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float64{testPoint}, tensor.Shape{1}, backend)
	y := backend.Mul(x.Raw(), x.Raw())

	result := tensor.New[float64](y, backend)
	gradients := autodiff.Backward(result, backend)

	autodiffGrad := gradients[x.Raw()].AsFloat64()[0]

	// Numerical gradient
	f := func(val float64) float64 { return val * val }
	numericalGrad := (f(testPoint+epsilon) - f(testPoint-epsilon)) / (2 * epsilon)

	// Expected: df/dx = 2x = 6.0
	expected := float64(6.0)

	if math.Abs(autodiffGrad-expected) > 1e-9 {
		t.Errorf("Autodiff gradient = %f, want %f", autodiffGrad, expected)
	}

	if math.Abs(autodiffGrad-numericalGrad) > 1e-6 {
		t.Errorf("Autodiff grad (%f) differs from numerical grad (%f) by %e",
			autodiffGrad, numericalGrad, autodiffGrad-numericalGrad)
	}
}

// crossCorrSum computes Σ_ij (x ⋆ k)[i,j] over all valid windows, the scalar
// objective used for the cross-correlation finite-difference checks.
func crossCorrSum(x []float64, h, w int, k []float64, kh, kw int) float64 {
	var sum float64
	for i := 0; i <= h-kh; i++ {
		for j := 0; j <= w-kw; j++ {
			for u := 0; u < kh; u++ {
				for v := 0; v < kw; v++ {
					sum += x[(i+u)*w+(j+v)] * k[u*kw+v]
				}
			}
		}
	}
	return sum
}

// crossCorrMSE computes mean((x ⋆ k) - target)², the kernel-recovery
// training objective, entirely with plain loops so the check is independent
// of the dsp package.
func crossCorrMSE(x []float64, h, w int, k []float64, kh, kw int, target []float64) float64 {
	oh, ow := h-kh+1, w-kw+1
	var sum float64
	for i := 0; i < oh; i++ {
		for j := 0; j < ow; j++ {
			var acc float64
			for u := 0; u < kh; u++ {
				for v := 0; v < kw; v++ {
					acc += x[(i+u)*w+(j+v)] * k[u*kw+v]
				}
			}
			d := acc - target[i*ow+j]
			sum += d * d
		}
	}
	return sum / float64(oh*ow)
}

// spectralMagnitudeSum computes Σ_kl |RFFT2(x)[k,l]| over the half spectrum
// with a direct DFT, independent of the dsp package.
func spectralMagnitudeSum(x []float64, m, n int) float64 {
	hw := n/2 + 1
	var sum float64
	for k := 0; k < m; k++ {
		for l := 0; l < hw; l++ {
			var re, im float64
			for a := 0; a < m; a++ {
				for b := 0; b < n; b++ {
					angle := -2 * math.Pi * (float64(k*a)/float64(m) + float64(l*b)/float64(n))
					re += x[a*n+b] * math.Cos(angle)
					im += x[a*n+b] * math.Sin(angle)
				}
			}
			sum += math.Hypot(re, im)
		}
	}
	return sum
}

// TestNumericalGradient_CrossCorrelate2D checks both cross-correlation
// gradients against central differences on L = Σ_ij (x ⋆ k)[i,j].
// The backward pass is an exact adjoint, so autodiff and finite differences
// must agree to ~1e-4 relative error.
func TestNumericalGradient_CrossCorrelate2D(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := 1e-6

	xVal := []float64{
		0.5, -1.2, 0.8, 2.1,
		1.7, -0.3, 0.9, -1.5,
		-0.6, 1.1, 2.3, 0.4,
		1.9, -0.8, 0.2, 1.3,
	}
	kVal := []float64{
		0.7, -0.4,
		1.2, 0.5,
	}

	// Autodiff gradients: L = Sum(CrossCorrelate2D(x, k))
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice(xVal, tensor.Shape{4, 4}, backend)
	k, _ := tensor.FromSlice(kVal, tensor.Shape{2, 2}, backend)

	corr := backend.CrossCorrelate2D(x.Raw(), k.Raw())
	loss := backend.Sum(corr)

	result := tensor.New[float64](loss, backend)
	gradients := autodiff.Backward(result, backend)

	gradX := gradients[x.Raw()]
	gradK := gradients[k.Raw()]
	if gradX == nil || gradK == nil {
		t.Fatal("Expected gradients for both input and kernel")
	}

	t.Run("input gradient", func(t *testing.T) {
		adGrad := gradX.AsFloat64()
		perturbed := make([]float64, len(xVal))
		for i := range xVal {
			copy(perturbed, xVal)
			perturbed[i] = xVal[i] + epsilon
			plus := crossCorrSum(perturbed, 4, 4, kVal, 2, 2)
			perturbed[i] = xVal[i] - epsilon
			minus := crossCorrSum(perturbed, 4, 4, kVal, 2, 2)
			fd := (plus - minus) / (2 * epsilon)

			if relativeDiff(adGrad[i], fd) > 1e-4 {
				t.Errorf("grad_input[%d]: autodiff %f vs numerical %f", i, adGrad[i], fd)
			}
		}
	})

	t.Run("kernel gradient", func(t *testing.T) {
		adGrad := gradK.AsFloat64()
		perturbed := make([]float64, len(kVal))
		for i := range kVal {
			copy(perturbed, kVal)
			perturbed[i] = kVal[i] + epsilon
			plus := crossCorrSum(xVal, 4, 4, perturbed, 2, 2)
			perturbed[i] = kVal[i] - epsilon
			minus := crossCorrSum(xVal, 4, 4, perturbed, 2, 2)
			fd := (plus - minus) / (2 * epsilon)

			if relativeDiff(adGrad[i], fd) > 1e-4 {
				t.Errorf("grad_kernel[%d]: autodiff %f vs numerical %f", i, adGrad[i], fd)
			}
		}
	})
}

// TestNumericalGradient_CrossCorrMSEChain checks the full kernel-recovery
// objective L = MSE(x ⋆ k, target) against central differences, end to end
// through the tape. This is the gradient an optimizer actually consumes.
func TestNumericalGradient_CrossCorrMSEChain(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := 1e-6

	xVal := []float64{
		0.5, -1.2, 0.8, 2.1,
		1.7, -0.3, 0.9, -1.5,
		-0.6, 1.1, 2.3, 0.4,
		1.9, -0.8, 0.2, 1.3,
	}
	kVal := []float64{
		0.7, -0.4,
		1.2, 0.5,
	}
	targetVal := []float64{
		1.0, 0.0, -0.5,
		0.25, 1.5, -1.0,
		0.75, 0.5, 0.0,
	}

	// Autodiff gradients
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice(xVal, tensor.Shape{4, 4}, backend)
	k, _ := tensor.FromSlice(kVal, tensor.Shape{2, 2}, backend)
	target, _ := tensor.FromSlice(targetVal, tensor.Shape{3, 3}, backend)

	corr := backend.CrossCorrelate2D(x.Raw(), k.Raw())
	loss := backend.MSE(corr, target.Raw())

	result := tensor.New[float64](loss, backend)
	gradients := autodiff.Backward(result, backend)

	gradX := gradients[x.Raw()]
	gradK := gradients[k.Raw()]
	if gradX == nil || gradK == nil {
		t.Fatal("Expected gradients for both input and kernel")
	}

	t.Run("kernel gradient", func(t *testing.T) {
		adGrad := gradK.AsFloat64()
		perturbed := make([]float64, len(kVal))
		for i := range kVal {
			copy(perturbed, kVal)
			perturbed[i] = kVal[i] + epsilon
			plus := crossCorrMSE(xVal, 4, 4, perturbed, 2, 2, targetVal)
			perturbed[i] = kVal[i] - epsilon
			minus := crossCorrMSE(xVal, 4, 4, perturbed, 2, 2, targetVal)
			fd := (plus - minus) / (2 * epsilon)

			if relativeDiff(adGrad[i], fd) > 1e-4 {
				t.Errorf("grad_kernel[%d]: autodiff %f vs numerical %f", i, adGrad[i], fd)
			}
		}
	})

	t.Run("input gradient", func(t *testing.T) {
		adGrad := gradX.AsFloat64()
		perturbed := make([]float64, len(xVal))
		for i := range xVal {
			copy(perturbed, xVal)
			perturbed[i] = xVal[i] + epsilon
			plus := crossCorrMSE(perturbed, 4, 4, kVal, 2, 2, targetVal)
			perturbed[i] = xVal[i] - epsilon
			minus := crossCorrMSE(perturbed, 4, 4, kVal, 2, 2, targetVal)
			fd := (plus - minus) / (2 * epsilon)

			if relativeDiff(adGrad[i], fd) > 1e-4 {
				t.Errorf("grad_input[%d]: autodiff %f vs numerical %f", i, adGrad[i], fd)
			}
		}
	})
}

// TestNumericalGradient_MSE checks the fused MSE gradient against central
// differences and the closed form 2*(pred-target)/n.
func TestNumericalGradient_MSE(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := 1e-6

	predVal := []float64{0.5, -1.2, 2.0, 0.3}
	targetVal := []float64{1.0, -1.0, 1.5, 0.0}

	// Autodiff gradient
	tape.Clear()
	tape.StartRecording()

	pred, _ := tensor.FromSlice(predVal, tensor.Shape{4}, backend)
	target, _ := tensor.FromSlice(targetVal, tensor.Shape{4}, backend)

	loss := backend.MSE(pred.Raw(), target.Raw())

	result := tensor.New[float64](loss, backend)
	gradients := autodiff.Backward(result, backend)

	gradPred := gradients[pred.Raw()]
	if gradPred == nil {
		t.Fatal("Expected gradient for prediction")
	}

	adGrad := gradPred.AsFloat64()
	n := float64(len(predVal))

	for i := range predVal {
		f := func(val float64) float64 {
			var sum float64
			for j := range predVal {
				p := predVal[j]
				if j == i {
					p = val
				}
				d := p - targetVal[j]
				sum += d * d
			}
			return sum / n
		}
		fd := numericalGradient64(f, predVal[i], epsilon)
		expected := 2 * (predVal[i] - targetVal[i]) / n

		if relativeDiff(adGrad[i], expected) > 1e-6 {
			t.Errorf("grad_pred[%d] = %f, want %f", i, adGrad[i], expected)
		}
		if relativeDiff(adGrad[i], fd) > 1e-4 {
			t.Errorf("grad_pred[%d]: autodiff %f vs numerical %f", i, adGrad[i], fd)
		}
	}
}

// TestNumericalGradient_SpectralMagnitude_ApproximateBackward documents
// where the spectral backward pass deliberately departs from the true
// derivative. For a constant input the forward spectrum is DC-only, so the
// true gradient of L = Σ|RFFT2(x)| is 1.0 at every input position (checked
// here by central differences). The recorded backward instead inverts the
// upstream gradient as a zero-phase half spectrum, which maps the all-ones
// seed to a single impulse at the origin. Both behaviors are asserted: the
// gap is the intended trade-off, not a bug.
func TestNumericalGradient_SpectralMagnitude_ApproximateBackward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	epsilon := 1e-6

	m, n := 4, 4
	xVal := make([]float64, m*n)
	for i := range xVal {
		xVal[i] = 2.0
	}

	// Autodiff gradient with an implicit all-ones seed over the half spectrum
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice(xVal, tensor.Shape{m, n}, backend)
	y := backend.SpectralMagnitude(x.Raw())

	result := tensor.New[float64](y, backend)
	gradients := autodiff.Backward(result, backend)

	gradX := gradients[x.Raw()]
	if gradX == nil {
		t.Fatal("Expected gradient for x")
	}
	adGrad := gradX.AsFloat64()

	// Zero-phase inversion of the all-ones seed: impulse at the origin.
	if math.Abs(adGrad[0]-1.0) > 1e-9 {
		t.Errorf("adGrad[0] = %f, want 1.0 (impulse at origin)", adGrad[0])
	}
	for i := 1; i < len(adGrad); i++ {
		if math.Abs(adGrad[i]) > 1e-9 {
			t.Errorf("adGrad[%d] = %f, want 0.0 (impulse at origin)", i, adGrad[i])
		}
	}

	// Finite differences see the true gradient of the composed objective,
	// which is 1.0 everywhere for this input.
	perturbed := make([]float64, len(xVal))
	for _, i := range []int{0, 5, 15} {
		copy(perturbed, xVal)
		perturbed[i] = xVal[i] + epsilon
		plus := spectralMagnitudeSum(perturbed, m, n)
		perturbed[i] = xVal[i] - epsilon
		minus := spectralMagnitudeSum(perturbed, m, n)
		fd := (plus - minus) / (2 * epsilon)

		if math.Abs(fd-1.0) > 1e-4 {
			t.Errorf("numerical grad[%d] = %f, want 1.0", i, fd)
		}
	}

	// The two disagree away from the origin. That divergence is what the
	// zero-phase rule trades for simplicity.
	fdAt5 := 1.0
	if math.Abs(adGrad[5]-fdAt5) < 0.5 {
		t.Errorf("expected adGrad[5] (%f) to differ from true gradient (%f)", adGrad[5], fdAt5)
	}
}
