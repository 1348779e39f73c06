package dsp

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// RFFT2 computes the two-dimensional discrete Fourier transform of a real
// matrix. The transform runs along each row first (real-input FFT keeping
// the non-redundant half spectrum) and then down each column of the
// intermediate (full complex FFT).
//
// For an m x n input the result is m x (n/2 + 1): the row transform of a
// real sequence is Hermitian-symmetric, so the redundant half is dropped.
func RFFT2(in *mat.Dense) (*mat.CDense, error) {
	m, n := in.Dims()
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("rfft2: empty input")
	}

	hw := n/2 + 1
	out := mat.NewCDense(m, hw, nil)

	// Real FFT along each row.
	rowFFT := fourier.NewFFT(n)
	rowCoeff := make([]complex128, hw)
	for i := 0; i < m; i++ {
		rowFFT.Coefficients(rowCoeff, in.RawRowView(i))
		for j, v := range rowCoeff {
			out.Set(i, j, v)
		}
	}

	// Complex FFT down each column of the intermediate.
	colFFT := fourier.NewCmplxFFT(m)
	col := make([]complex128, m)
	colCoeff := make([]complex128, m)
	for j := 0; j < hw; j++ {
		for i := 0; i < m; i++ {
			col[i] = out.At(i, j)
		}
		colFFT.Coefficients(colCoeff, col)
		for i := 0; i < m; i++ {
			out.Set(i, j, colCoeff[i])
		}
	}

	return out, nil
}

// IRFFT2 inverts RFFT2, recovering an m x cols real matrix from an
// m x (cols/2 + 1) half spectrum. The target width must be supplied
// because the half spectrum does not distinguish even from odd widths.
//
// The gonum transforms are unnormalized, so the result is scaled by
// 1/(m*cols) to make IRFFT2 the exact inverse of RFFT2.
func IRFFT2(coeff *mat.CDense, cols int) (*mat.Dense, error) {
	m, hw := coeff.Dims()
	if m == 0 || hw == 0 {
		return nil, fmt.Errorf("irfft2: empty coefficients")
	}
	if cols <= 0 {
		return nil, fmt.Errorf("irfft2: target width must be positive, got %d", cols)
	}
	if cols/2+1 != hw {
		return nil, fmt.Errorf("irfft2: target width %d needs %d coefficient columns, got %d", cols, cols/2+1, hw)
	}

	// Inverse complex FFT down each column.
	tmp := mat.NewCDense(m, hw, nil)
	colFFT := fourier.NewCmplxFFT(m)
	col := make([]complex128, m)
	colSeq := make([]complex128, m)
	for j := 0; j < hw; j++ {
		for i := 0; i < m; i++ {
			col[i] = coeff.At(i, j)
		}
		colFFT.Sequence(colSeq, col)
		for i := 0; i < m; i++ {
			tmp.Set(i, j, colSeq[i])
		}
	}

	// Inverse real FFT along each row, then normalize.
	out := mat.NewDense(m, cols, nil)
	rowFFT := fourier.NewFFT(cols)
	rowCoeff := make([]complex128, hw)
	scale := 1 / float64(m*cols)
	for i := 0; i < m; i++ {
		for j := 0; j < hw; j++ {
			rowCoeff[j] = tmp.At(i, j)
		}
		row := rowFFT.Sequence(out.RawRowView(i), rowCoeff)
		for j := range row {
			row[j] *= scale
		}
	}

	return out, nil
}

// Magnitude returns the elementwise modulus of a complex matrix.
func Magnitude(c *mat.CDense) *mat.Dense {
	m, n := c.Dims()
	out := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, cmplx.Abs(c.At(i, j)))
		}
	}
	return out
}
