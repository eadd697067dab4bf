// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/emer/izhi/modnet"
	"gopkg.in/yaml.v3"
)

// Config holds everything one simulation run needs, loadable from a
// YAML file and overridable by command flags.
type Config struct {

	// number of excitatory modules
	Modules int `yaml:"modules"`

	// excitatory neurons per module
	ExcitPerModule int `yaml:"excitPerModule"`

	// number of inhibitory neurons
	Inhib int `yaml:"inhib"`

	// within-module excitatory edges per module
	EdgesPerModule int `yaml:"edgesPerModule"`

	// maximum conduction delay, msec
	MaxDelay int `yaml:"maxDelay"`

	// simulated duration, msec
	MSec int `yaml:"msec"`

	// rewiring probability for the run command
	RewireP float64 `yaml:"rewireP"`

	// rewiring probabilities for the sweep command
	SweepP []float64 `yaml:"sweepP"`

	// random seed for building and driving the network
	Seed int64 `yaml:"seed"`

	// rate of the Poisson background process, events per msec per neuron.
	// Any step with at least one event injects InputScale current.
	Lambda float64 `yaml:"lambda"`

	// current injected on background events
	InputScale float64 `yaml:"inputScale"`

	// directory for raster and rate output files
	OutDir string `yaml:"outDir"`

	// optional sqlite database file; empty disables persistence
	DBFile string `yaml:"dbFile"`
}

func DefaultConfig() *Config {
	return &Config{
		Modules:        8,
		ExcitPerModule: 100,
		Inhib:          200,
		EdgesPerModule: 1000,
		MaxDelay:       20,
		MSec:           1000,
		RewireP:        0.1,
		SweepP:         []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5},
		Seed:           42,
		Lambda:         0.01,
		InputScale:     15,
		OutDir:         ".",
	}
}

// LoadConfig reads a YAML config file over the defaults.  A missing
// file is only an error when the path was set explicitly.
func LoadConfig(path string, explicit bool) (*Config, error) {
	cf := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cf, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cf); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cf, nil
}

// ModParams returns the network builder parameters for this config,
// with the given rewiring probability
func (cf *Config) ModParams(rewireP float64) *modnet.Params {
	pr := &modnet.Params{}
	pr.Defaults()
	pr.NModules = cf.Modules
	pr.ExcitPerModule = cf.ExcitPerModule
	pr.NInhib = cf.Inhib
	pr.EdgesPerModule = cf.EdgesPerModule
	pr.MaxDelay = cf.MaxDelay
	pr.RewireP = float32(rewireP)
	pr.ExEx.DelayMax = cf.MaxDelay
	return pr
}
