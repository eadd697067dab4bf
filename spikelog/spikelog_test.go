// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikelog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRasterTable(t *testing.T) {
	rs := NewRaster()
	rs.AddSpikes(3, []int32{1, 4})
	rs.AddSpikes(4, nil)
	rs.AddSpikes(7, []int32{2})
	if rs.NumSpikes() != 3 {
		t.Fatalf("got %v spikes, want 3", rs.NumSpikes())
	}

	dt := rs.Table()
	if dt.Rows != 3 {
		t.Fatalf("got %v rows, want 3", dt.Rows)
	}
	wantT := []float64{3, 3, 7}
	wantN := []float64{1, 4, 2}
	for ri := 0; ri < 3; ri++ {
		if dt.Float("Time", ri) != wantT[ri] || dt.Float("Neuron", ri) != wantN[ri] {
			t.Errorf("row %v: got (%v, %v), want (%v, %v)", ri,
				dt.Float("Time", ri), dt.Float("Neuron", ri), wantT[ri], wantN[ri])
		}
	}

	rs.Reset()
	if rs.NumSpikes() != 0 {
		t.Errorf("reset raster must be empty")
	}
}

func TestRatesTable(t *testing.T) {
	// neurons 0-1 -> group 0, 2-3 -> group 1, 4 excluded
	groupOf := func(ni int32) int {
		if ni >= 4 {
			return -1
		}
		return int(ni) / 2
	}

	rs := NewRaster()
	rs.AddSpikes(10, []int32{0, 4})
	rs.AddSpikes(50, []int32{2, 3})
	rs.AddSpikes(51, []int32{2})

	rt := Rates{}
	rt.Defaults()
	dt := rt.Table(rs, 2, groupOf, 100)
	if dt.Rows != 5 {
		t.Fatalf("got %v bins, want 5", dt.Rows)
	}
	rate, err := dt.ColumnByName("Rate")
	if err != nil {
		t.Fatal(err)
	}

	// bin windows clip at the run boundaries: [0,25), [0,45), [15,65),
	// [35,85), [55,100)
	wantG0 := []float64{1.0 / 25, 1.0 / 45, 0, 0, 0}
	wantG1 := []float64{0, 0, 3.0 / 50, 3.0 / 50, 0}
	for bi := 0; bi < 5; bi++ {
		if dt.Float("Time", bi) != float64(bi*20) {
			t.Errorf("bin %v time: got %v", bi, dt.Float("Time", bi))
		}
		g0 := rate.Float([]int{bi, 0})
		g1 := rate.Float([]int{bi, 1})
		if d := g0 - wantG0[bi]; d > 1e-6 || d < -1e-6 {
			t.Errorf("bin %v group 0: got %v, want %v", bi, g0, wantG0[bi])
		}
		if d := g1 - wantG1[bi]; d > 1e-6 || d < -1e-6 {
			t.Errorf("bin %v group 1: got %v, want %v", bi, g1, wantG1[bi])
		}
	}
}

// TestRatesZeroHalfWin verifies that a partially set Rates falls back
// to the default window instead of dividing by an empty one.
func TestRatesZeroHalfWin(t *testing.T) {
	groupOf := func(ni int32) int { return 0 }
	rs := NewRaster()
	rs.AddSpikes(10, []int32{0})

	rt := Rates{BinMSec: 20}
	dt := rt.Table(rs, 1, groupOf, 100)
	rate, err := dt.ColumnByName("Rate")
	if err != nil {
		t.Fatal(err)
	}
	for bi := 0; bi < dt.Rows; bi++ {
		v := rate.Float([]int{bi, 0})
		if v != v { // NaN
			t.Fatalf("bin %v: rate is NaN", bi)
		}
	}
	if got := rate.Float([]int{0, 0}); got != 1.0/25 {
		t.Errorf("bin 0 rate: got %v, want %v", got, 1.0/25)
	}
}

func TestRasterSaveCSV(t *testing.T) {
	rs := NewRaster()
	rs.AddSpikes(0, []int32{5})
	rs.AddSpikes(2, []int32{1})
	fnm := filepath.Join(t.TempDir(), "raster.tsv")
	if err := rs.SaveCSV(fnm); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(fnm); err != nil || fi.Size() == 0 {
		t.Errorf("raster file not written: %v", err)
	}
}

func TestRunStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	st := NewRunStore(path)
	if err := st.Init(ctx); err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	run := Run{Name: "p0.1", RewireP: 0.1, Seed: 42, MSec: 1000, Neurons: 1000}
	spikes := []Spike{{MSec: 1, Neuron: 3}, {MSec: 1, Neuron: 7}, {MSec: 9, Neuron: 0}}
	if err := st.SaveRun(ctx, run, spikes); err != nil {
		t.Fatal(err)
	}

	got, ok, err := st.LoadRun(ctx, "p0.1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("saved run not found")
	}
	if got.RewireP != 0.1 || got.Seed != 42 || got.MSec != 1000 || got.Neurons != 1000 || got.NSpikes != 3 {
		t.Errorf("round-trip metadata mismatch: %+v", got)
	}

	gotSp, err := st.LoadSpikes(ctx, "p0.1")
	if err != nil {
		t.Fatal(err)
	}
	if len(gotSp) != 3 {
		t.Fatalf("got %v spikes, want 3", len(gotSp))
	}
	for i, sp := range gotSp {
		if sp != spikes[i] {
			t.Errorf("spike %v: got %+v, want %+v", i, sp, spikes[i])
		}
	}

	// resaving under the same name replaces the spikes
	if err := st.SaveRun(ctx, run, spikes[:1]); err != nil {
		t.Fatal(err)
	}
	gotSp, err = st.LoadSpikes(ctx, "p0.1")
	if err != nil {
		t.Fatal(err)
	}
	if len(gotSp) != 1 {
		t.Errorf("resave must replace spikes: got %v, want 1", len(gotSp))
	}

	// missing run is not an error
	_, ok, err = st.LoadRun(ctx, "nope")
	if err != nil || ok {
		t.Errorf("missing run: ok %v err %v", ok, err)
	}

	names, err := st.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "p0.1" {
		t.Errorf("ListRuns: got %v", names)
	}
}

func TestRunStoreUninitialized(t *testing.T) {
	st := NewRunStore("")
	if err := st.Init(context.Background()); err == nil {
		t.Errorf("empty path must fail")
	}
	st = NewRunStore("x.db")
	if err := st.SaveRun(context.Background(), Run{Name: "r"}, nil); err == nil {
		t.Errorf("save before Init must fail")
	}
}
