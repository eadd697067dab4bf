// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package izhi

import (
	"fmt"
	"log"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/tensor"
	"github.com/emer/emergent/v2/params"
)

// izhi.Network simulates a network of Izhikevich point neurons with
// per-synapse integer conduction delays.  The state of the neurons is
// initialized at construction, and parameters and connectivity
// matrices are set with the setter methods, which validate and fail
// fast.  Step advances the network by one millisecond and returns the
// indices of the neurons that fired.
//
// For both the delay and weight matrices, [i,j] refers to the
// connection from neuron i to j (source-major, against the usual
// receiver-major convention) because the delivery scatter iterates
// over the rows of firing senders.
//
// Delivery with inhomogeneous delays uses a cylindrical accumulator:
// DelayBuf slot s (mod MaxDelay+1) holds all synaptic input scheduled
// to arrive at buffer-time s.  See:
//
// Brette, R., & Goodman, D. F. M. (2011). Vectorized algorithms for
// spiking neural network simulation. Neural Computation, 23(6), 1503-35.
type Network struct {

	// overall name of network -- helps discriminate if there are multiple
	Nm string

	// number of neurons, fixed at construction
	N int

	// maximum representable conduction delay, in whole msec, fixed at
	// construction.  The delivery buffer has MaxDelay+1 slots.
	MaxDelay int

	// integration parameters and methods
	Act ActParams `display:"add-fields"`

	// slice of neurons.  Must iterate over index and use pointer to
	// modify values.
	Neurons []Neuron

	// synaptic weights, N x N: Wts[i,j] is the strength of the
	// connection from source i to target j.  Zero means no connection.
	Wts *tensor.Float32

	// conduction delays in whole msec, N x N, every entry in
	// [1, MaxDelay] (all zero when MaxDelay is 0, in which case no
	// connections are representable).  Immutable during simulation.
	Delays *tensor.Int32

	// cylindrical delivery buffer, (MaxDelay+1) x N: slot s accumulates
	// synaptic input arriving at buffer-time s mod (MaxDelay+1)
	DelayBuf *tensor.Float32

	// count of elapsed msec, indexing "now" in DelayBuf modulo
	// MaxDelay+1.  Advances every step, never resets, never wraps.
	Cursor int

	// which neurons fired on the previous step -- consumed at the start
	// of the current step to apply the delayed after-spike reset
	LastFired []bool
}

// NewNetwork returns a new network with the given number of neurons
// and maximum conduction delay (msec), with all state initialized:
// no connections (zero weights, unit delays), default parameters,
// resting dynamical state.  A maxDelay of 0 is valid but leaves no
// representable delay, so such a network is permanently connectionless:
// SetWeights rejects nonzero weights and SetDelays rejects everything.
func NewNetwork(name string, n, maxDelay int) (*Network, error) {
	if n < 1 {
		err := fmt.Errorf("izhi.NewNetwork: %v: number of neurons must be >= 1, got: %v", name, n)
		log.Println(err)
		return nil, err
	}
	if maxDelay < 0 {
		err := fmt.Errorf("izhi.NewNetwork: %v: max delay must be >= 0, got: %v", name, maxDelay)
		log.Println(err)
		return nil, err
	}
	nt := &Network{Nm: name, N: n, MaxDelay: maxDelay}
	nt.Act.Defaults()
	nt.Neurons = make([]Neuron, n)
	nt.LastFired = make([]bool, n)
	nt.Wts = tensor.NewFloat32([]int{n, n}, "Send", "Recv")
	nt.Delays = tensor.NewNumber[int32]([]int{n, n}, "Send", "Recv")
	if maxDelay >= 1 {
		for i := range nt.Delays.Values {
			nt.Delays.Values[i] = 1
		}
	}
	nt.DelayBuf = tensor.NewFloat32([]int{maxDelay + 1, n}, "Slot", "Recv")
	nt.InitActs()
	return nt, nil
}

// InitActs restores the dynamical state of every neuron to the resting
// values (v = VmInit, u = UInit), clears pending input, spikes, the
// delivery buffer, and the cursor.  Model parameters and connectivity
// are untouched.
func (nt *Network) InitActs() {
	for ni := range nt.Neurons {
		nt.Act.InitActs(&nt.Neurons[ni])
		nt.LastFired[ni] = false
	}
	for i := range nt.DelayBuf.Values {
		nt.DelayBuf.Values[i] = 0
	}
	nt.Cursor = 0
}

// UpdateParams updates all the derived parameters if any have changed
func (nt *Network) UpdateParams() {
	nt.Act.Update()
}

// Defaults sets default parameter values for everything in the network
func (nt *Network) Defaults() {
	nt.Act.Defaults()
}

//////////////////////////////////////////////////////////////////////
//  Configuration

// SetWeights sets the synaptic weight matrix.  It must be N x N;
// Wts[i,j] is the strength from source i to target j, zero meaning no
// connection.  The values are copied; on error stored weights are
// unchanged.
func (nt *Network) SetWeights(w *tensor.Float32) error {
	if err := nt.checkShape("SetWeights", w.NumDims(), w.DimSize(0), w.DimSize(1)); err != nil {
		return err
	}
	if nt.MaxDelay < 1 {
		// with no representable delay, a spike would scatter into the
		// slot being consumed and be erased by the slot-clear
		for i, wv := range w.Values {
			if wv != 0 {
				err := fmt.Errorf("izhi.Network: %v SetWeights: weight %v at index %v on a network with max delay 0 could never deliver", nt.Nm, wv, i)
				log.Println(err)
				return err
			}
		}
	}
	copy(nt.Wts.Values, w.Values)
	return nil
}

// SetDelays sets the conduction delay matrix.  It must be N x N with
// every entry in [1, MaxDelay]: zero or negative delays cannot be
// scheduled, and a delay beyond MaxDelay would wrap onto a slot for a
// nearer time and silently never deliver at the intended one, so both
// are rejected here rather than at first use.  The values are copied;
// on error stored delays are unchanged.
func (nt *Network) SetDelays(d *tensor.Int32) error {
	if err := nt.checkShape("SetDelays", d.NumDims(), d.DimSize(0), d.DimSize(1)); err != nil {
		return err
	}
	for i, dv := range d.Values {
		if dv < 1 {
			err := fmt.Errorf("izhi.Network: %v SetDelays: delays must be strictly positive, got: %v at index: %v", nt.Nm, dv, i)
			log.Println(err)
			return err
		}
		if int(dv) > nt.MaxDelay {
			err := fmt.Errorf("izhi.Network: %v SetDelays: delay %v at index %v exceeds max delay %v and could never deliver", nt.Nm, dv, i, nt.MaxDelay)
			log.Println(err)
			return err
		}
	}
	copy(nt.Delays.Values, d.Values)
	return nil
}

// SetParams sets the per-neuron Izhikevich model parameters.  Names
// are the same as in Izhikevich's original paper.  All four vectors
// must be of length N.
func (nt *Network) SetParams(a, b, c, d []float32) error {
	if len(a) != nt.N || len(b) != nt.N || len(c) != nt.N || len(d) != nt.N {
		err := fmt.Errorf("izhi.Network: %v SetParams: parameter vectors must all be of length N = %v, got: %v %v %v %v", nt.Nm, nt.N, len(a), len(b), len(c), len(d))
		log.Println(err)
		return err
	}
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		nrn.A = a[ni]
		nrn.B = b[ni]
		nrn.C = c[ni]
		nrn.D = d[ni]
	}
	return nil
}

// SetExt sets the external input current, which applies only to the
// next call to Step and is then cleared back to zero by the engine.
// Must be of length N.
func (nt *Network) SetExt(cur []float32) error {
	if len(cur) != nt.N {
		err := fmt.Errorf("izhi.Network: %v SetExt: current vector must be of length N = %v, got: %v", nt.Nm, nt.N, len(cur))
		log.Println(err)
		return err
	}
	for ni := range nt.Neurons {
		nt.Neurons[ni].Ext = cur[ni]
	}
	return nil
}

func (nt *Network) checkShape(op string, ndim, d0, d1 int) error {
	if ndim != 2 || d0 != nt.N || d1 != nt.N {
		err := fmt.Errorf("izhi.Network: %v %v: matrix must be N x N with N = %v", nt.Nm, op, nt.N)
		log.Println(err)
		return err
	}
	return nil
}

//////////////////////////////////////////////////////////////////////
//  Step

// Step simulates one millisecond of network activity: applies the
// delayed after-spike reset, gathers this step's input from the
// one-shot external current and the delivery-buffer slot for "now",
// integrates the membrane equation with NSub Euler sub-steps (a neuron
// is frozen for the rest of the millisecond the instant it crosses
// VPeak), scatters the firing neurons' outgoing weights into future
// buffer slots keyed by their conduction delays, clears the consumed
// slot so it cannot redeliver after the buffer wraps, and advances the
// cursor.  Returns the indices of the neurons that fired.
func (nt *Network) Step() []int32 {
	nbuf := nt.MaxDelay + 1
	cur := nt.Cursor % nbuf
	slot := nt.DelayBuf.Values[cur*nt.N : (cur+1)*nt.N]

	// reset neurons that fired last step: v = c, u += d
	for ni := range nt.Neurons {
		if nt.LastFired[ni] {
			nt.Act.ResetFired(&nt.Neurons[ni])
		}
		nt.LastFired[ni] = false
	}

	// input current is the sum of external and delayed contributions
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		nrn.I = nrn.Ext + slot[ni]
	}

	// integrate v and u.  To avoid overflow with large input currents,
	// keep updating only neurons that haven't fired this millisecond.
	for sub := 0; sub < nt.Act.NSub; sub++ {
		for ni := range nt.Neurons {
			if nt.LastFired[ni] {
				continue
			}
			nrn := &nt.Neurons[ni]
			nt.Act.VmFromI(nrn)
			if nt.Act.FiredNow(nrn) {
				nt.LastFired[ni] = true
			}
		}
	}

	// finalize firing neurons: potential fixed at VPeak for one step,
	// reset per the Izhikevich equation at the start of the next.
	// external current is one-shot: clear for next step.
	var fired []int32
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nt.LastFired[ni] {
			nt.Act.SpikeFromVm(nrn)
			fired = append(fired, int32(ni))
		} else {
			nrn.Spike = 0
		}
		nrn.Ext = 0
	}

	// for each firing source i and target j, add Wts[i,j] to the
	// accumulator Delays[i,j] msec into the future.  As the cursor
	// moves, DelayBuf holds all input from time-delayed connections.
	wv := nt.Wts.Values
	dv := nt.Delays.Values
	xv := nt.DelayBuf.Values
	for _, fi := range fired {
		row := int(fi) * nt.N
		for j := 0; j < nt.N; j++ {
			w := wv[row+j]
			if w == 0 {
				continue
			}
			s := (nt.Cursor + int(dv[row+j])) % nbuf
			xv[s*nt.N+j] += w
		}
	}

	// the "now" slot has been fully consumed: zero it so it does not
	// redeliver stale input when the cursor wraps MaxDelay+1 steps on
	for j := range slot {
		slot[j] = 0
	}
	nt.Cursor++

	return fired
}

//////////////////////////////////////////////////////////////////////
//  State access

// UnitValues fills in values of given variable name on every neuron,
// into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (nt *Network) UnitValues(vals *[]float32, varNm string) error {
	if *vals == nil || cap(*vals) < nt.N {
		*vals = make([]float32, nt.N)
	} else {
		*vals = (*vals)[0:nt.N]
	}
	vidx, err := NeuronVarIndexByName(varNm)
	if err != nil {
		nan := math32.NaN()
		for i := range nt.Neurons {
			(*vals)[i] = nan
		}
		return err
	}
	for i := range nt.Neurons {
		(*vals)[i] = nt.Neurons[i].VarByIndex(vidx)
	}
	return nil
}

// VValues returns a copy of the membrane potentials of all neurons.
// The returned slice is a snapshot: it does not alias engine state.
func (nt *Network) VValues() []float32 {
	var vals []float32
	nt.UnitValues(&vals, "V")
	return vals
}

// UValues returns a copy of the recovery variables of all neurons.
func (nt *Network) UValues() []float32 {
	var vals []float32
	nt.UnitValues(&vals, "U")
	return vals
}

//////////////////////////////////////////////////////////////////////
//  Params styling

// ApplyParams applies given parameter style Sheet to the network.
// Calls UpdateParams if anything set to ensure derived parameters are
// all updated.  If setMsg is true, then a message is printed to
// confirm each parameter that is set.  It always prints a message if a
// parameter fails to be set.  Returns true if any params were set, and
// error if there were any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(nt, setMsg)
	if app {
		nt.UpdateParams()
	}
	return app, err
}

// params.Styler interface, for styling parameters with Sel strings:
// type = "Network", name = network name.

func (nt *Network) Name() string     { return nt.Nm }
func (nt *Network) Label() string    { return nt.Nm }
func (nt *Network) TypeName() string { return "Network" } // always, for params..
func (nt *Network) Class() string    { return "" }
