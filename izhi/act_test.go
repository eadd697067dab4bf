// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package izhi

import "testing"

func TestActDefaults(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	CmprFloats([]float32{ac.Dt, ac.VPeak, ac.VmInit, ac.UInit},
		[]float32{0.1, 30, -65, -1}, "act defaults", t)
	if ac.NSub != 10 {
		t.Errorf("default NSub: got %v, want 10", ac.NSub)
	}
}

func TestActUpdate(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	ac.Dt = 0.5
	ac.Update()
	if ac.NSub != 2 {
		t.Errorf("NSub for Dt=0.5: got %v, want 2", ac.NSub)
	}
	ac.Dt = 0
	ac.Update()
	if ac.Dt != 0.1 || ac.NSub != 10 {
		t.Errorf("zero Dt must restore default: Dt %v NSub %v", ac.Dt, ac.NSub)
	}
}

func TestVmFromI(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{A: 0.02, B: 0.2, C: -65, D: 8}
	ac.InitActs(&nrn)
	nrn.I = 15

	// at v=-65, u=-1, I=15 the membrane derivative is exactly zero:
	// 0.04*65^2 - 5*65 + 140 = -16, and -u + I = 16
	ac.VmFromI(&nrn)
	CmprFloats([]float32{nrn.V, nrn.U}, []float32{-65, -1.024}, "one sub-step", t)
}

func TestInitActs(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{V: 12, U: 5, I: 3, Ext: 2, Spike: 1, A: 0.02, B: 0.2, C: -65, D: 8}
	ac.InitActs(&nrn)
	CmprFloats([]float32{nrn.V, nrn.U, nrn.I, nrn.Ext, nrn.Spike},
		[]float32{-65, -1, 0, 0, 0}, "init acts", t)
	// model parameters are not state: untouched by InitActs
	CmprFloats([]float32{nrn.A, nrn.B, nrn.C, nrn.D},
		[]float32{0.02, 0.2, -65, 8}, "params preserved", t)
}
