// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package izhi

// izhi.Context contains the timing state for running a model.
// The Network itself only tracks its delivery-buffer cursor; drivers
// use a Context to count simulated time across steps.
type Context struct {

	// accumulated amount of time the network has been running,
	// in simulation-time (not real world time), in seconds.
	Time float32

	// millisecond step counter within the current run,
	// reset by Reset at the start of each run.
	MSec int

	// total millisecond count.  This increments continuously from
	// whenever it was last zeroed, across runs.
	MSecTot int

	// amount of time to increment per step
	TimePerMSec float32 `def:"0.001"`
}

// NewContext returns a new Context struct with default parameters
func NewContext() *Context {
	ctx := &Context{}
	ctx.Defaults()
	return ctx
}

// Defaults sets default values
func (ctx *Context) Defaults() {
	ctx.TimePerMSec = 0.001
}

// Reset resets the run-level counters back to zero
func (ctx *Context) Reset() {
	ctx.Time = 0
	ctx.MSec = 0
	ctx.MSecTot = 0
	if ctx.TimePerMSec == 0 {
		ctx.Defaults()
	}
}

// StepStart starts a new run of steps
func (ctx *Context) StepStart() {
	ctx.MSec = 0
}

// StepInc increments at the millisecond step level
func (ctx *Context) StepInc() {
	ctx.MSec++
	ctx.MSecTot++
	ctx.Time += ctx.TimePerMSec
}
