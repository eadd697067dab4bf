// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/izhi/spikelog"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	// missing default file falls back to defaults
	cf, err := LoadConfig(filepath.Join(dir, "izhi.yaml"), false)
	if err != nil {
		t.Fatal(err)
	}
	if cf.Modules != 8 || cf.MSec != 1000 || cf.Lambda != 0.01 {
		t.Errorf("defaults not applied: %+v", cf)
	}

	// missing explicit file is an error
	if _, err := LoadConfig(filepath.Join(dir, "nope.yaml"), true); err == nil {
		t.Errorf("explicit missing config must fail")
	}

	// partial file overrides only what it names
	path := filepath.Join(dir, "cfg.yaml")
	data := "modules: 2\nmsec: 250\nsweepP: [0, 0.5]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cf, err = LoadConfig(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cf.Modules != 2 || cf.MSec != 250 {
		t.Errorf("overrides not applied: %+v", cf)
	}
	if len(cf.SweepP) != 2 || cf.SweepP[1] != 0.5 {
		t.Errorf("sweepP override: %v", cf.SweepP)
	}
	if cf.ExcitPerModule != 100 || cf.Seed != 42 {
		t.Errorf("unnamed fields must keep defaults: %+v", cf)
	}
}

func TestRunSimSmall(t *testing.T) {
	dir := t.TempDir()
	cf := DefaultConfig()
	cf.Modules = 2
	cf.ExcitPerModule = 10
	cf.Inhib = 5
	cf.EdgesPerModule = 20
	cf.MSec = 50
	cf.Lambda = 0.5 // dense background so the short run spikes
	cf.OutDir = dir
	cf.DBFile = filepath.Join(dir, "runs.db")

	res, err := RunSim(cf, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("got %v output files, want 2", len(res.Files))
	}
	for _, fnm := range res.Files {
		if fi, err := os.Stat(fnm); err != nil || fi.Size() == 0 {
			t.Errorf("output %v not written: %v", fnm, err)
		}
	}

	st := spikelog.NewRunStore(cf.DBFile)
	ctx := context.Background()
	if err := st.Init(ctx); err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	run, ok, err := st.LoadRun(ctx, res.Name)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("run not persisted")
	}
	if run.NSpikes != res.NSpikes || run.MSec != cf.MSec || run.Neurons != 25 {
		t.Errorf("persisted run mismatch: %+v vs result %+v", run, res)
	}
}
