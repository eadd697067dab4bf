// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package izhi

import (
	"fmt"
	"unsafe"

	"cogentcore.org/core/math32"
)

// NeuronVarStart is the byte offset of fields in the Neuron structure
// where the float32 named variables start.
// All variables in Neuron are float32, so this is 0 here, but the
// machinery matches the other emer algorithm packages.
const NeuronVarStart = 0

// izhi.Neuron holds all of the neuron (unit) level variables for the
// Izhikevich model: the two dynamical variables, the per-neuron model
// parameters, and the input / spike state for the current millisecond.
// All variables accessible via the named-variable interface must be
// float32 and in contiguous order.
type Neuron struct {

	// membrane potential v -- primary dynamical variable.
	// Crossing ActParams.VPeak constitutes a firing event, after which
	// v is clamped at VPeak for one step and then reset to C.
	V float32

	// recovery variable u -- fast-acting inactivation / adaptation.
	// Incremented by D one step after a firing event.
	U float32

	// total input current for the current millisecond:
	// one-shot external current plus all delayed synaptic deliveries
	// arriving this step.
	I float32

	// pending external input current -- applies to the next Step only,
	// then is cleared back to zero by the engine (one-shot semantics).
	Ext float32

	// whether the neuron fired this millisecond (0 or 1)
	Spike float32

	// a: time scale of the recovery variable u
	A float32

	// b: sensitivity of u to subthreshold fluctuations of v
	B float32

	// c: after-spike reset value of v
	C float32

	// d: after-spike increment of u
	D float32
}

var NeuronVars = []string{"V", "U", "I", "Ext", "Spike", "A", "B", "C", "D"}

var NeuronVarsMap map[string]int

var NeuronVarProps = map[string]string{
	"V":     `min:"-90" max:"30"`,
	"U":     `auto-scale:"+"`,
	"I":     `auto-scale:"+"`,
	"Ext":   `auto-scale:"+"`,
	"Spike": `min:"0" max:"1"`,
}

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIndexByName returns the index of the variable in the Neuron, or error
func NeuronVarIndexByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(NeuronVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIndexByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return nrn.VarByIndex(i), nil
}
