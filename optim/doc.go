// Copyright 2025 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/ripple-ml/ripple/autodiff"
//	    "github.com/ripple-ml/ripple/backend/cpu"
//	    "github.com/ripple-ml/ripple/nn"
//	    "github.com/ripple-ml/ripple/optim"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    layer := nn.NewCrossCorr2D(3, 3, backend)
//	    criterion := nn.NewMSELoss(backend)
//
//	    // Create optimizer
//	    optimizer := optim.NewSGD(
//	        layer.Parameters(),
//	        optim.SGDConfig{LR: 0.01},
//	        backend,
//	    )
//
//	    // Training loop
//	    backend.Tape().StartRecording()
//	    for step := 0; step < steps; step++ {
//	        optimizer.ZeroGrad()
//
//	        loss := criterion.Forward(layer.Forward(x), y)
//
//	        grads := autodiff.Backward(loss, backend)
//	        optimizer.Step(grads)
//	        backend.Tape().Clear()
//	    }
//	}
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent):
//
//	optimizer := optim.NewSGD(
//	    layer.Parameters(),
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	    backend,
//	)
//
// Adam (Adaptive Moment Estimation):
//
//	optimizer := optim.NewAdam(
//	    layer.Parameters(),
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float32{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	    backend,
//	)
//
// # Training Loop Pattern
//
//	for step := 0; step < steps; step++ {
//	    // 1. Zero gradients
//	    optimizer.ZeroGrad()
//
//	    // 2. Forward pass
//	    output := layer.Forward(input)
//	    loss := criterion.Forward(output, target)
//
//	    // 3. Backward pass (seeds the output gradient with ones)
//	    grads := autodiff.Backward(loss, backend)
//
//	    // 4. Update parameters, then drop the step's tape records
//	    optimizer.Step(grads)
//	    backend.Tape().Clear()
//	}
package optim
