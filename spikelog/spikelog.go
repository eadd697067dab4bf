// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spikelog records spike events emitted by a running network
// and turns them into raster and firing-rate tables, with optional
// persistence to a sqlite database.
package spikelog

import (
	"cogentcore.org/core/core"
	"cogentcore.org/core/tensor/table"
)

// Spike is one recorded spike event
type Spike struct {

	// millisecond step at which the neuron fired
	MSec int

	// index of the neuron that fired
	Neuron int32
}

// Raster accumulates the spike events of one run, in firing order
type Raster struct {

	// all recorded spikes, ordered by time then neuron index
	Spikes []Spike
}

func NewRaster() *Raster {
	return &Raster{}
}

// Reset discards all recorded spikes, keeping capacity
func (rs *Raster) Reset() {
	rs.Spikes = rs.Spikes[:0]
}

// AddSpikes records the spikes of one millisecond step, as returned by
// the network's Step method
func (rs *Raster) AddSpikes(msec int, fired []int32) {
	for _, ni := range fired {
		rs.Spikes = append(rs.Spikes, Spike{MSec: msec, Neuron: ni})
	}
}

// NumSpikes returns the total number of recorded spikes
func (rs *Raster) NumSpikes() int {
	return len(rs.Spikes)
}

// Table returns the raster as a table with Time and Neuron columns
func (rs *Raster) Table() *table.Table {
	dt := &table.Table{}
	dt.SetMetaData("name", "SpikeRaster")
	dt.SetMetaData("read-only", "true")
	dt.AddIntColumn("Time")
	dt.AddIntColumn("Neuron")
	dt.SetNumRows(len(rs.Spikes))
	for ri, sp := range rs.Spikes {
		dt.SetFloat("Time", ri, float64(sp.MSec))
		dt.SetFloat("Neuron", ri, float64(sp.Neuron))
	}
	return dt
}

// SaveCSV writes the raster table to the given file, tab separated
func (rs *Raster) SaveCSV(fname string) error {
	return rs.Table().SaveCSV(core.Filename(fname), table.Tab, table.Headers)
}

// Rates computes windowed mean firing rates per group of neurons,
// using a sliding window centered on regularly spaced bins.
type Rates struct {

	// spacing of rate bins, msec
	BinMSec int `def:"20"`

	// half-width of the averaging window around each bin, msec
	HalfWin int `def:"25"`
}

func (rt *Rates) Defaults() {
	rt.BinMSec = 20
	rt.HalfWin = 25
}

// Table computes per-group rates from the raster over [0, durMSec).
// groupOf maps a neuron index to its group in [0, nGroups), or -1 to
// exclude it (e.g., inhibitory neurons).  Each bin's rate is the spike
// count of the group inside the clipped window divided by the window
// width in msec, i.e. spikes per neuron-population per msec.
func (rt *Rates) Table(rs *Raster, nGroups int, groupOf func(ni int32) int, durMSec int) *table.Table {
	if rt.BinMSec <= 0 || rt.HalfWin <= 0 {
		// a non-positive half-window would make every bin's clipped
		// window empty and the rates 0/0
		rt.Defaults()
	}
	counts := make([]int, durMSec*nGroups)
	for _, sp := range rs.Spikes {
		gi := groupOf(sp.Neuron)
		if gi < 0 || sp.MSec < 0 || sp.MSec >= durMSec {
			continue
		}
		counts[sp.MSec*nGroups+gi]++
	}

	nbins := durMSec / rt.BinMSec
	dt := &table.Table{}
	dt.SetMetaData("name", "FiringRates")
	dt.SetMetaData("read-only", "true")
	dt.AddIntColumn("Time")
	dt.AddFloat32TensorColumn("Rate", []int{nGroups})
	dt.SetNumRows(nbins)
	rateCol, _ := dt.ColumnByName("Rate")

	for bi := 0; bi < nbins; bi++ {
		t := bi * rt.BinMSec
		l := t - rt.HalfWin
		if l < 0 {
			l = 0
		}
		r := t + rt.HalfWin
		if r > durMSec {
			r = durMSec
		}
		dt.SetFloat("Time", bi, float64(t))
		for gi := 0; gi < nGroups; gi++ {
			sum := 0
			for ms := l; ms < r; ms++ {
				sum += counts[ms*nGroups+gi]
			}
			rateCol.SetFloat([]int{bi, gi}, float64(sum)/float64(r-l))
		}
	}
	return dt
}

// SaveCSV computes the rates table and writes it, tab separated
func (rt *Rates) SaveCSV(rs *Raster, nGroups int, groupOf func(ni int32) int, durMSec int, fname string) error {
	return rt.Table(rs, nGroups, groupOf, durMSec).SaveCSV(core.Filename(fname), table.Tab, table.Headers)
}
