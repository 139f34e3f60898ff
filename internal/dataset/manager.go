// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/rfmboard/internal/config"
	"github.com/tomtom215/rfmboard/internal/database"
	"github.com/tomtom215/rfmboard/internal/logging"
	"github.com/tomtom215/rfmboard/internal/metrics"
)

// Manager holds the current snapshot and performs reloads.
//
// Snapshot is lock-free. Reload calls are serialized, each one producing the
// next generation. Listeners registered with OnReload run after every
// publication, in registration order, on the reloading goroutine.
type Manager struct {
	loader *Loader
	data   config.DataConfig

	current atomic.Pointer[Snapshot]

	reloadMu   sync.Mutex
	generation uint64

	listenersMu sync.RWMutex
	listeners   []func(*Snapshot)
}

// NewManager creates a manager. Until the first Reload, Snapshot returns an
// empty degraded snapshot with generation 0.
func NewManager(loader *Loader, data config.DataConfig) *Manager {
	m := &Manager{loader: loader, data: data}
	m.current.Store(&Snapshot{
		Sources:  loader.Sources(),
		Degraded: true,
		Warning:  "Data belum dimuat.",
		Err:      errors.New("dataset not loaded yet"),
	})
	return m
}

// Snapshot returns the currently published snapshot. Never nil.
func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// OnReload registers fn to be called with every newly published snapshot.
func (m *Manager) OnReload(fn func(*Snapshot)) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Reload reads the tables again and publishes the result as the next
// generation. On a load failure it publishes an empty degraded snapshot and
// returns it together with the error. If ctx is canceled before the load
// finishes, nothing is published.
func (m *Manager) Reload(ctx context.Context) (*Snapshot, error) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	ctx = logging.ContextWithNewCorrelationID(ctx)
	start := time.Now()

	snap, err := m.loader.Load(ctx)
	if err != nil && ctx.Err() != nil {
		return m.Snapshot(), fmt.Errorf("dataset reload canceled: %w", ctx.Err())
	}
	if err != nil {
		snap = &Snapshot{
			Sources:  m.loader.Sources(),
			Degraded: true,
			Warning:  m.warningFor(err),
			Err:      loadError(err),
		}
	}

	m.generation++
	snap.Generation = m.generation
	snap.LoadedAt = time.Now().UTC()
	snap.LoadDuration = time.Since(start)
	m.current.Store(snap)

	metrics.RecordDatasetLoad(snap.LoadDuration, snap.Generation, snap.Degraded, snap.Rows(), snap.Quality.UnmappedClusterRows)

	if snap.Degraded {
		logging.Ctx(ctx).Error().Err(err).
			Uint64("generation", snap.Generation).
			Msg("Dataset load failed, serving empty data")
	} else {
		logging.Ctx(ctx).Info().
			Uint64("generation", snap.Generation).
			Int("rfm_rows", len(snap.RFM)).
			Int("scaled_rows", len(snap.Scaled)).
			Int("clustered_rows", len(snap.Clustered)).
			Dur("duration", snap.LoadDuration).
			Msg("Dataset loaded")
	}

	m.notify(snap)

	if snap.Degraded {
		return snap, snap.Err
	}
	return snap, nil
}

func (m *Manager) notify(snap *Snapshot) {
	m.listenersMu.RLock()
	listeners := make([]func(*Snapshot), len(m.listeners))
	copy(listeners, m.listeners)
	m.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// warningFor returns the localized message shown in place of the data.
func (m *Manager) warningFor(err error) string {
	var schemaErr *database.SchemaError
	if errors.As(err, &schemaErr) {
		return "Format file CSV tidak sesuai: " + schemaErr.Error()
	}
	return MissingSourceWarning(m.data)
}

// MissingSourceWarning is the message shown when an input file cannot be read.
func MissingSourceWarning(data config.DataConfig) string {
	return fmt.Sprintf("Pastikan file CSV (%s) berada di lokasi yang benar.", strings.Join(data.FileNames(), ", "))
}
