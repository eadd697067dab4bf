// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package izhi is the overall repository for an Izhikevich spiking
point-neuron network engine with per-synapse integer conduction delays,
implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* izhi: the core engine: per-neuron model parameters, the 1 msec step
with 10 Euler sub-steps, and the cylindrical delivery buffer that
schedules synaptic input up to MaxDelay msec into the future.

* modnet: builds modular small-world networks of excitatory and
inhibitory neurons, with within-module edges rewired across modules
with a configurable probability.

* spikelog: spike rasters, windowed per-module firing rates, and an
optional sqlite store for recorded runs.

* examples/bench: compiles into a runnable benchmark of the engine at
configurable network sizes.

* cmd/izhi: command-line simulator driving modnet networks with Poisson
background current, single runs or sweeps over rewiring probabilities.
*/
package izhi
