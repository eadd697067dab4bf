// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"

	"cogentcore.org/core/base/timer"
	"github.com/emer/izhi/izhi"
	"github.com/emer/izhi/spikelog"
)

// RunResult summarizes one completed simulation run
type RunResult struct {
	Name    string
	RewireP float64
	NSpikes int
	Files   []string
}

// RunSim builds one modular network with the given rewiring
// probability, simulates it with Poisson background current, and
// writes the raster and per-module firing-rate tables.  If a database
// file is configured, the run is also persisted there.
func RunSim(cf *Config, rewireP float64) (*RunResult, error) {
	rnd := rand.New(rand.NewSource(cf.Seed))

	pr := cf.ModParams(rewireP)
	bn, err := pr.Build(rnd)
	if err != nil {
		return nil, err
	}

	net, err := izhi.NewNetwork(fmt.Sprintf("mod-p%g", rewireP), bn.N(), pr.MaxDelay)
	if err != nil {
		return nil, err
	}
	a, b, c, d := pr.SampleIzhiParams(rnd)
	if err := net.SetParams(a, b, c, d); err != nil {
		return nil, err
	}
	if err := net.SetWeights(bn.Wts); err != nil {
		return nil, err
	}
	if err := net.SetDelays(bn.Delays); err != nil {
		return nil, err
	}
	net.InitActs()

	// a Poisson count clipped to {0, 1} is a Bernoulli draw with
	// p = 1 - exp(-lambda)
	pBg := 1 - math.Exp(-cf.Lambda)

	ctx := izhi.NewContext()
	ctx.Reset()
	raster := spikelog.NewRaster()
	ext := make([]float32, bn.N())

	tmr := timer.Time{}
	tmr.Start()
	for ms := 0; ms < cf.MSec; ms++ {
		for i := range ext {
			if rnd.Float64() < pBg {
				ext[i] = float32(cf.InputScale)
			} else {
				ext[i] = 0
			}
		}
		if err := net.SetExt(ext); err != nil {
			return nil, err
		}
		fired := net.Step()
		raster.AddSpikes(ctx.MSec, fired)
		ctx.StepInc()
	}
	tmr.Stop()

	res := &RunResult{Name: net.Name(), RewireP: rewireP, NSpikes: raster.NumSpikes()}

	rasterFile := filepath.Join(cf.OutDir, res.Name+"_raster.tsv")
	if err := raster.SaveCSV(rasterFile); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, rasterFile)

	rt := spikelog.Rates{}
	rt.Defaults()
	ratesFile := filepath.Join(cf.OutDir, res.Name+"_rates.tsv")
	modOf := func(ni int32) int { return bn.Module(int(ni)) }
	if err := rt.SaveCSV(raster, bn.NModules, modOf, cf.MSec, ratesFile); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, ratesFile)

	if cf.DBFile != "" {
		st := spikelog.NewRunStore(cf.DBFile)
		cctx := context.Background()
		if err := st.Init(cctx); err != nil {
			return nil, err
		}
		defer st.Close()
		run := spikelog.Run{
			Name:    res.Name,
			RewireP: rewireP,
			Seed:    cf.Seed,
			MSec:    cf.MSec,
			Neurons: bn.N(),
		}
		if err := st.SaveRun(cctx, run, raster.Spikes); err != nil {
			return nil, err
		}
	}

	fmt.Printf("%s: %v neurons, %v msec, %v spikes, took %v\n",
		res.Name, bn.N(), cf.MSec, res.NSpikes, tmr.Total)
	return res, nil
}
