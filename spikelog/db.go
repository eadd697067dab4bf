// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikelog

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// Run is the metadata of one recorded simulation run
type Run struct {

	// unique run name, the upsert key
	Name string

	// small-world rewiring probability used for the network
	RewireP float64

	// random seed the run was started with
	Seed int64

	// simulated duration, msec
	MSec int

	// total number of neurons
	Neurons int

	// total number of recorded spikes
	NSpikes int
}

// RunStore persists runs and their spike rasters to a sqlite database.
// Saving a run again under the same name replaces it.
type RunStore struct {
	path string

	db *sql.DB
}

func NewRunStore(path string) *RunStore {
	return &RunStore{path: path}
}

// Init opens the database and creates the tables if needed
func (s *RunStore) Init(ctx context.Context) error {
	if s.path == "" {
		return errors.New("spikelog: sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

// SaveRun upserts the run metadata and replaces its spike events
func (s *RunStore) SaveRun(ctx context.Context, run Run, spikes []Spike) error {
	if s.db == nil {
		return errors.New("spikelog: store is not initialized")
	}
	run.NSpikes = len(spikes)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (name, rewire_p, seed, msec, neurons, nspikes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			rewire_p = excluded.rewire_p,
			seed = excluded.seed,
			msec = excluded.msec,
			neurons = excluded.neurons,
			nspikes = excluded.nspikes
	`, run.Name, run.RewireP, run.Seed, run.MSec, run.Neurons, run.NSpikes)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM spikes WHERE run_name = ?`, run.Name); err != nil {
		return err
	}

	ins, err := tx.PrepareContext(ctx, `INSERT INTO spikes (run_name, msec, neuron) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ins.Close()
	for _, sp := range spikes {
		if _, err := ins.ExecContext(ctx, run.Name, sp.MSec, sp.Neuron); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadRun returns the metadata of a named run, and whether it exists
func (s *RunStore) LoadRun(ctx context.Context, name string) (Run, bool, error) {
	if s.db == nil {
		return Run{}, false, errors.New("spikelog: store is not initialized")
	}

	run := Run{Name: name}
	err := s.db.QueryRowContext(ctx, `
		SELECT rewire_p, seed, msec, neurons, nspikes FROM runs WHERE name = ?
	`, name).Scan(&run.RewireP, &run.Seed, &run.MSec, &run.Neurons, &run.NSpikes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	return run, true, nil
}

// LoadSpikes returns the spike events of a named run in time order
func (s *RunStore) LoadSpikes(ctx context.Context, name string) ([]Spike, error) {
	if s.db == nil {
		return nil, errors.New("spikelog: store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT msec, neuron FROM spikes WHERE run_name = ? ORDER BY msec, neuron
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spikes []Spike
	for rows.Next() {
		var sp Spike
		if err := rows.Scan(&sp.MSec, &sp.Neuron); err != nil {
			return nil, err
		}
		spikes = append(spikes, sp)
	}
	return spikes, rows.Err()
}

// ListRuns returns the names of all stored runs
func (s *RunStore) ListRuns(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, errors.New("spikelog: store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM runs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var nm string
		if err := rows.Scan(&nm); err != nil {
			return nil, err
		}
		names = append(names, nm)
	}
	return names, rows.Err()
}

// Close closes the database
func (s *RunStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			name TEXT PRIMARY KEY,
			rewire_p REAL NOT NULL,
			seed INTEGER NOT NULL,
			msec INTEGER NOT NULL,
			neurons INTEGER NOT NULL,
			nspikes INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS spikes (
			run_name TEXT NOT NULL,
			msec INTEGER NOT NULL,
			neuron INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS spikes_run ON spikes (run_name);
	`)
	return err
}
