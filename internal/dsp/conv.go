package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ripple-ml/ripple/internal/parallel"
)

// Mode selects how much of the sliding-window overlap is kept.
type Mode int

const (
	// Valid keeps only positions where the kernel lies fully inside the input.
	// Output dims: (ih-kh+1) x (iw-kw+1).
	Valid Mode = iota
	// Full keeps every position with at least one overlapping element,
	// treating out-of-range input as zero. Output dims: (ih+kh-1) x (iw+kw-1).
	Full
)

func (m Mode) String() string {
	switch m {
	case Valid:
		return "valid"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

var parallelCfg = parallel.DefaultConfig()

// CrossCorrelate2D slides kernel over in without flipping it and returns
// the dot product at each position:
//
//	out[i][j] = sum over (u, v) of in[i+u][j+v] * kernel[u][v]
//
// In Valid mode the kernel must fit inside the input. In Full mode the
// window is allowed to hang off every edge and missing input is zero.
func CrossCorrelate2D(in, kernel *mat.Dense, mode Mode) (*mat.Dense, error) {
	ih, iw := in.Dims()
	kh, kw := kernel.Dims()
	if ih == 0 || iw == 0 || kh == 0 || kw == 0 {
		return nil, fmt.Errorf("crosscorrelate: empty input or kernel")
	}

	var oh, ow int
	switch mode {
	case Valid:
		if kh > ih || kw > iw {
			return nil, fmt.Errorf("crosscorrelate: kernel %dx%d larger than input %dx%d", kh, kw, ih, iw)
		}
		oh, ow = ih-kh+1, iw-kw+1
	case Full:
		oh, ow = ih+kh-1, iw+kw-1
	default:
		return nil, fmt.Errorf("crosscorrelate: unknown mode %v", mode)
	}

	out := mat.NewDense(oh, ow, nil)

	inM := in.RawMatrix()
	kM := kernel.RawMatrix()
	outM := out.RawMatrix()

	// Offset of output position (0,0) relative to the input. Valid mode
	// starts flush with the input corner; Full mode hangs off by kh-1/kw-1.
	var offR, offC int
	if mode == Full {
		offR, offC = -(kh - 1), -(kw - 1)
	}

	// Each output element is written exactly once, so the sweep is safe
	// to run concurrently.
	parallel.ForRowCol(oh, ow, func(i, j int) {
		sum := 0.0
		for u := 0; u < kh; u++ {
			r := i + offR + u
			if r < 0 || r >= ih {
				continue
			}
			inRow := inM.Data[r*inM.Stride:]
			kRow := kM.Data[u*kM.Stride:]
			for v := 0; v < kw; v++ {
				c := j + offC + v
				if c < 0 || c >= iw {
					continue
				}
				sum += inRow[c] * kRow[v]
			}
		}
		outM.Data[i*outM.Stride+j] = sum
	}, parallelCfg)

	return out, nil
}

// Convolve2D computes the true convolution of in with kernel, which is
// cross-correlation with the kernel rotated 180 degrees.
func Convolve2D(in, kernel *mat.Dense, mode Mode) (*mat.Dense, error) {
	return CrossCorrelate2D(in, rot180(kernel), mode)
}

// rot180 flips the kernel on both axes.
func rot180(k *mat.Dense) *mat.Dense {
	kh, kw := k.Dims()
	out := mat.NewDense(kh, kw, nil)
	for i := 0; i < kh; i++ {
		for j := 0; j < kw; j++ {
			out.Set(kh-1-i, kw-1-j, k.At(i, j))
		}
	}
	return out
}
