// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package izhi

///////////////////////////////////////////////////////////////////////
//  act.go contains the integration params and functions for izhi

// izhi.ActParams contains all the parameters for the Izhikevich
// membrane equation and the fixed sub-step Euler scheme used to
// integrate it.  This is included in izhi.Network to drive the
// computation.
//
// Izhikevich, E. M. (2003). Simple model of spiking neurons.
// IEEE Transactions on Neural Networks, 14(6), 1569-72.
type ActParams struct {

	// Euler integration sub-step within one millisecond, in msec.
	// The membrane equation has a quadratic term that diverges rapidly
	// past threshold, so integrating at full 1 msec steps is unstable:
	// 1/Dt sub-steps are taken per Step.
	Dt float32 `def:"0.1" min:"0.001" max:"1"`

	// peak / firing potential: a neuron fires the instant v exceeds
	// this value, and its membrane potential is then clamped here for
	// one step so the spike is observable before reset.
	VPeak float32 `def:"30"`

	// initial membrane potential at construction and InitActs
	VmInit float32 `def:"-65"`

	// initial recovery variable at construction and InitActs
	UInit float32 `def:"-1"`

	// number of Euler sub-steps per millisecond = 1 / Dt -- computed in Update
	NSub int `edit:"-"`
}

func (ac *ActParams) Defaults() {
	ac.Dt = 0.1
	ac.VPeak = 30
	ac.VmInit = -65
	ac.UInit = -1
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
	if ac.Dt <= 0 {
		ac.Dt = 0.1
	}
	ac.NSub = int(1/ac.Dt + 0.5)
	if ac.NSub < 1 {
		ac.NSub = 1
	}
}

// InitActs initializes the dynamical state in neuron -- called at
// construction and from Network.InitActs.  Does not touch the model
// parameters (A, B, C, D).
func (ac *ActParams) InitActs(nrn *Neuron) {
	nrn.V = ac.VmInit
	nrn.U = ac.UInit
	nrn.I = 0
	nrn.Ext = 0
	nrn.Spike = 0
}

// VmFromI advances v and u by one Euler sub-step, given the total
// input current for this millisecond (nrn.I).  Both derivatives use
// the values from the start of the sub-step.
func (ac *ActParams) VmFromI(nrn *Neuron) {
	v := nrn.V
	u := nrn.U
	nrn.V += ac.Dt * (0.04*v*v + 5*v + 140 - u + nrn.I)
	nrn.U += ac.Dt * (nrn.A * (nrn.B*v - u))
}

// FiredNow returns true if the membrane potential has crossed the
// firing peak.  Once true within a millisecond, the neuron's state is
// frozen for the remaining sub-steps (see Network.Step), which keeps
// the explicit integrator from overflowing past threshold.
func (ac *ActParams) FiredNow(nrn *Neuron) bool {
	return nrn.V > ac.VPeak
}

// SpikeFromVm finalizes a neuron that fired this millisecond: the
// membrane potential is clamped at exactly VPeak so the spike is
// visible in recorded trajectories for one step.
func (ac *ActParams) SpikeFromVm(nrn *Neuron) {
	nrn.V = ac.VPeak
	nrn.Spike = 1
}

// ResetFired applies the after-spike reset to a neuron that fired on
// the previous step: v = c, u += d.  The reset happens one step after
// firing, not immediately, so the VPeak value remains observable for
// exactly one step.
func (ac *ActParams) ResetFired(nrn *Neuron) {
	nrn.V = nrn.C
	nrn.U += nrn.D
}
