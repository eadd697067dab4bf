// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modnet builds modular small-world networks of excitatory
// and inhibitory Izhikevich neurons, in the style of the dynamical
// complexity experiments: excitatory neurons are grouped into modules
// with dense random within-module connectivity that is rewired across
// modules with a given probability, inhibitory neurons receive focal
// input from a few excitatory neurons of a single module and project
// diffusely back to everything.
package modnet

import (
	"fmt"
	"log"
	"math/rand"

	"cogentcore.org/core/tensor"
)

// WtRange specifies a uniform range for sampling synaptic weights,
// with a final scaling factor applied on top.
type WtRange struct {

	// minimum of the uniform range, before scaling
	Min float32

	// maximum of the uniform range, before scaling
	Max float32

	// scaling factor applied to the sampled value
	Scale float32
}

// Val returns one sampled, scaled weight
func (wr *WtRange) Val(rnd *rand.Rand) float32 {
	return wr.Scale * (wr.Min + (wr.Max-wr.Min)*rnd.Float32())
}

// Block holds the sampling parameters for one block of the
// connectivity matrix (e.g., excitatory -> inhibitory).
type Block struct {

	// weight range for connected pairs in this block
	Wt WtRange

	// minimum conduction delay, msec, inclusive
	DelayMin int `min:"1"`

	// maximum conduction delay, msec, inclusive
	DelayMax int `min:"1"`
}

// Delay returns one sampled integer delay in [DelayMin, DelayMax]
func (bl *Block) Delay(rnd *rand.Rand) int32 {
	if bl.DelayMax <= bl.DelayMin {
		return int32(bl.DelayMin)
	}
	return int32(bl.DelayMin + rnd.Intn(bl.DelayMax-bl.DelayMin+1))
}

// modnet.Params are all the parameters for building one modular
// small-world network.  Defaults reproduce the standard dynamical
// complexity configuration: 8 modules of 100 excitatory neurons, 200
// inhibitory neurons, 1000 random edges per module.
type Params struct {

	// number of excitatory modules
	NModules int `def:"8" min:"1"`

	// number of excitatory neurons per module
	ExcitPerModule int `def:"100" min:"1"`

	// number of inhibitory neurons.  Each consumes 4 distinct
	// excitatory sources from a single module, so 4 * NInhib must not
	// exceed NModules * ExcitPerModule.
	NInhib int `def:"200"`

	// number of directed within-module excitatory edges per module
	EdgesPerModule int `def:"1000"`

	// probability that a within-module edge is rewired to a random
	// excitatory target outside the module
	RewireP float32 `min:"0" max:"1"`

	// maximum conduction delay, msec -- also the engine's MaxDelay
	MaxDelay int `def:"20" min:"1"`

	// excitatory -> excitatory block
	ExEx Block `display:"inline"`

	// excitatory -> inhibitory block
	ExIn Block `display:"inline"`

	// inhibitory -> excitatory block
	InEx Block `display:"inline"`

	// inhibitory -> inhibitory block
	InIn Block `display:"inline"`
}

func (pr *Params) Defaults() {
	pr.NModules = 8
	pr.ExcitPerModule = 100
	pr.NInhib = 200
	pr.EdgesPerModule = 1000
	pr.RewireP = 0
	pr.MaxDelay = 20
	pr.ExEx = Block{Wt: WtRange{1, 1, 17}, DelayMin: 1, DelayMax: 20}
	pr.ExIn = Block{Wt: WtRange{0, 1, 50}, DelayMin: 1, DelayMax: 1}
	pr.InEx = Block{Wt: WtRange{-1, 0, 2}, DelayMin: 1, DelayMax: 1}
	pr.InIn = Block{Wt: WtRange{-1, 0, 1}, DelayMin: 1, DelayMax: 1}
}

// NExcit returns the total number of excitatory neurons
func (pr *Params) NExcit() int {
	return pr.NModules * pr.ExcitPerModule
}

// NTotal returns the total number of neurons
func (pr *Params) NTotal() int {
	return pr.NExcit() + pr.NInhib
}

// Validate checks the structural constraints that Build depends on
func (pr *Params) Validate() error {
	if pr.NModules < 1 || pr.ExcitPerModule < 1 {
		err := fmt.Errorf("modnet.Params: must have at least one module with at least one neuron")
		log.Println(err)
		return err
	}
	if 4*pr.NInhib > pr.NExcit() {
		err := fmt.Errorf("modnet.Params: %v inhibitory neurons need %v distinct excitatory sources, only %v available", pr.NInhib, 4*pr.NInhib, pr.NExcit())
		log.Println(err)
		return err
	}
	// a module of epm neurons holds at most epm*(epm-1) directed edges
	// (zero for a one-neuron module); more would make the no-duplicate
	// placement loop spin forever
	if pr.EdgesPerModule > pr.ExcitPerModule*(pr.ExcitPerModule-1) {
		err := fmt.Errorf("modnet.Params: %v edges per module cannot fit in a module of %v neurons", pr.EdgesPerModule, pr.ExcitPerModule)
		log.Println(err)
		return err
	}
	for _, bl := range []Block{pr.ExEx, pr.ExIn, pr.InEx, pr.InIn} {
		if bl.DelayMin < 1 || bl.DelayMax > pr.MaxDelay || bl.DelayMax < bl.DelayMin {
			err := fmt.Errorf("modnet.Params: block delay range [%v, %v] outside [1, %v]", bl.DelayMin, bl.DelayMax, pr.MaxDelay)
			log.Println(err)
			return err
		}
	}
	return nil
}

// modnet.Net is one built network: weight and delay matrices sized to
// the total neuron count, ready to configure an izhi.Network, plus the
// module structure needed for per-module statistics.
type Net struct {

	// number of excitatory neurons (first NExcit indexes)
	NExcit int

	// number of inhibitory neurons (last NInhib indexes)
	NInhib int

	// number of excitatory modules
	NModules int

	// excitatory neurons per module
	ExcitPerModule int

	// sampled synaptic weights, N x N, source-major; zero = no connection
	Wts *tensor.Float32

	// sampled conduction delays, N x N, all entries in [1, MaxDelay]
	Delays *tensor.Int32
}

// N returns the total number of neurons
func (bn *Net) N() int {
	return bn.NExcit + bn.NInhib
}

// Module returns the module index of the given neuron,
// or -1 for inhibitory neurons
func (bn *Net) Module(ni int) int {
	if ni >= bn.NExcit {
		return -1
	}
	return ni / bn.ExcitPerModule
}

// ModuleRange returns the [start, end) neuron index range of a module
func (bn *Net) ModuleRange(mi int) (int, int) {
	return mi * bn.ExcitPerModule, (mi + 1) * bn.ExcitPerModule
}

// Build samples one modular small-world network from the given random
// source.  Identical sources produce identical networks.
func (pr *Params) Build(rnd *rand.Rand) (*Net, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	ne := pr.NExcit()
	n := pr.NTotal()
	bn := &Net{NExcit: ne, NInhib: pr.NInhib, NModules: pr.NModules, ExcitPerModule: pr.ExcitPerModule}
	bn.Wts = tensor.NewFloat32([]int{n, n}, "Send", "Recv")
	bn.Delays = tensor.NewNumber[int32]([]int{n, n}, "Send", "Recv")

	conn := make([]bool, n*n)
	pr.connectExEx(conn, rnd)
	if err := pr.connectExIn(conn, rnd); err != nil {
		return nil, err
	}
	pr.connectInEx(conn)
	pr.connectInIn(conn)

	// sample weights on connected pairs, delays everywhere, per block:
	// the engine requires a valid delay for every entry so unconnected
	// pairs get one too (their zero weight never delivers).
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			bl := pr.block(i, j, ne)
			if conn[i*n+j] {
				bn.Wts.Values[i*n+j] = bl.Wt.Val(rnd)
			}
			bn.Delays.Values[i*n+j] = bl.Delay(rnd)
		}
	}
	return bn, nil
}

// block returns the sampling block for the i -> j connection
func (pr *Params) block(i, j, ne int) *Block {
	switch {
	case i < ne && j < ne:
		return &pr.ExEx
	case i < ne:
		return &pr.ExIn
	case j < ne:
		return &pr.InEx
	default:
		return &pr.InIn
	}
}

// connectExEx places EdgesPerModule distinct random directed edges
// within each module, then rewires each within-module edge with
// probability RewireP to a random excitatory target outside the module.
func (pr *Params) connectExEx(conn []bool, rnd *rand.Rand) {
	n := pr.NTotal()
	epm := pr.ExcitPerModule
	ne := pr.NExcit()
	for mi := 0; mi < pr.NModules; mi++ {
		st := mi * epm
		for e := 0; e < pr.EdgesPerModule; e++ {
			for {
				i := st + rnd.Intn(epm)
				j := st + rnd.Intn(epm)
				if i == j || conn[i*n+j] {
					continue
				}
				conn[i*n+j] = true
				break
			}
		}
	}
	if pr.RewireP <= 0 || pr.NModules < 2 {
		return
	}
	for mi := 0; mi < pr.NModules; mi++ {
		st := mi * epm
		for i := st; i < st+epm; i++ {
			for j := st; j < st+epm; j++ {
				if !conn[i*n+j] || rnd.Float32() >= pr.RewireP {
					continue
				}
				conn[i*n+j] = false
				for {
					k := rnd.Intn(ne)
					if k >= st && k < st+epm { // must leave the module
						continue
					}
					if conn[i*n+k] {
						continue
					}
					conn[i*n+k] = true
					break
				}
			}
		}
	}
}

// connectExIn gives each inhibitory neuron exactly 4 distinct
// excitatory sources from a single module, without replacement across
// the whole excitatory population.
func (pr *Params) connectExIn(conn []bool, rnd *rand.Rand) error {
	n := pr.NTotal()
	ne := pr.NExcit()
	remain := make([][]int, pr.NModules)
	for mi := range remain {
		st, ed := mi*pr.ExcitPerModule, (mi+1)*pr.ExcitPerModule
		for i := st; i < ed; i++ {
			remain[mi] = append(remain[mi], i)
		}
	}
	for ii := ne; ii < n; ii++ {
		var cands []int
		for ci, rm := range remain {
			if len(rm) >= 4 {
				cands = append(cands, ci)
			}
		}
		if len(cands) == 0 {
			err := fmt.Errorf("modnet.Build: no module has 4 unconsumed excitatory sources left for inhibitory neuron %v", ii)
			log.Println(err)
			return err
		}
		mi := cands[rnd.Intn(len(cands))]
		rm := remain[mi]
		for k := 0; k < 4; k++ {
			pi := rnd.Intn(len(rm))
			src := rm[pi]
			rm[pi] = rm[len(rm)-1]
			rm = rm[:len(rm)-1]
			conn[src*n+ii] = true
		}
		remain[mi] = rm
	}
	return nil
}

// connectInEx connects every inhibitory neuron to every excitatory one
func (pr *Params) connectInEx(conn []bool) {
	n := pr.NTotal()
	ne := pr.NExcit()
	for i := ne; i < n; i++ {
		for j := 0; j < ne; j++ {
			conn[i*n+j] = true
		}
	}
}

// connectInIn connects every inhibitory neuron to every other one
func (pr *Params) connectInIn(conn []bool) {
	n := pr.NTotal()
	ne := pr.NExcit()
	for i := ne; i < n; i++ {
		for j := ne; j < n; j++ {
			if i != j {
				conn[i*n+j] = true
			}
		}
	}
}

// SampleIzhiParams samples the per-neuron Izhikevich model parameters:
// regular-spiking excitatory neurons (a=0.02, b=0.2, c=-65+15r^2,
// d=8-6r^2) and fast-spiking inhibitory neurons (a=0.02+0.08r,
// b=0.25-0.05r, c=-65, d=2), with r uniform in [0,1) per neuron.
func (pr *Params) SampleIzhiParams(rnd *rand.Rand) (a, b, c, d []float32) {
	n := pr.NTotal()
	ne := pr.NExcit()
	a = make([]float32, n)
	b = make([]float32, n)
	c = make([]float32, n)
	d = make([]float32, n)
	for i := 0; i < ne; i++ {
		r := rnd.Float32()
		a[i] = 0.02
		b[i] = 0.2
		c[i] = -65 + 15*r*r
		d[i] = 8 - 6*r*r
	}
	for i := ne; i < n; i++ {
		r := rnd.Float32()
		a[i] = 0.02 + 0.08*r
		b[i] = 0.25 - 0.05*r
		c[i] = -65
		d[i] = 2
	}
	return
}
