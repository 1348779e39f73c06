// Package dsp provides the numerical routines behind Ripple's signal
// processing operations: two-dimensional Fourier transforms and sliding
// window correlation, built on gonum.
//
// The package operates on gonum matrices (mat.Dense / mat.CDense) rather
// than tensors; the autodiff layer converts at the boundary and owns all
// gradient bookkeeping. Nothing in this package records to the tape.
//
// Key components:
//   - RFFT2 / IRFFT2: two-dimensional real-input FFT and its inverse,
//     storing the non-redundant half spectrum (m x (n/2+1) coefficients)
//   - Magnitude: elementwise modulus of a complex spectrum
//   - CrossCorrelate2D: sliding dot product in valid or full mode
//   - Convolve2D: true convolution (correlation with a 180-degree
//     rotated kernel)
//
// Example usage:
//
//	spectrum, err := dsp.RFFT2(image)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	power := dsp.Magnitude(spectrum)
//
//	response, err := dsp.CrossCorrelate2D(image, kernel, dsp.Valid)
//	if err != nil {
//	    log.Fatal(err)
//	}
package dsp
