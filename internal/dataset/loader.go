// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package dataset

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/rfmboard/internal/config"
	"github.com/tomtom215/rfmboard/internal/database"
	"github.com/tomtom215/rfmboard/internal/logging"
	"github.com/tomtom215/rfmboard/internal/models"
)

// Source reads the three input tables. *database.DB implements it.
type Source interface {
	ReadRFM(ctx context.Context, path string) (database.RFMTable, error)
	ReadScaled(ctx context.Context, path string) ([]models.ScaledRecord, error)
	ReadClustered(ctx context.Context, path string) (database.ClusteredTable, error)
}

// Loader reads all three tables and attaches cluster labels.
type Loader struct {
	src  Source
	data config.DataConfig
}

// NewLoader creates a loader for the configured files.
func NewLoader(src Source, data config.DataConfig) *Loader {
	return &Loader{src: src, data: data}
}

// Sources returns the three file paths in load order.
func (l *Loader) Sources() []string {
	return []string{l.data.RFMPath(), l.data.ScaledPath(), l.data.ClusteredPath()}
}

// Load reads the tables in parallel. Any failure cancels the other reads and
// is returned as is (*database.MissingSourceError or *database.SchemaError);
// the returned snapshot has no generation assigned.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		rfm       database.RFMTable
		scaled    []models.ScaledRecord
		clustered database.ClusteredTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rfm, err = l.src.ReadRFM(gctx, l.data.RFMPath())
		return err
	})
	g.Go(func() error {
		var err error
		scaled, err = l.src.ReadScaled(gctx, l.data.ScaledPath())
		return err
	})
	g.Go(func() error {
		var err error
		clustered, err = l.src.ReadClustered(gctx, l.data.ClusteredPath())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unmappedRows, unmappedIDs := AttachLabels(clustered.Rows)
	quality := assessQuality(rfm.Rows, scaled, clustered.Rows)
	quality.UnmappedClusterRows = unmappedRows
	quality.UnmappedClusterIDs = unmappedIDs
	quality.MissingCompanyRows = rfm.MissingCompany + clustered.MissingCompany

	if unmappedRows > 0 {
		logging.Ctx(ctx).Warn().
			Int("rows", unmappedRows).
			Ints("cluster_ids", unmappedIDs).
			Msg("Clustered table has cluster ids without a label")
	}
	if quality.RowCountMismatch {
		logging.Ctx(ctx).Warn().
			Int("rfm_rows", len(rfm.Rows)).
			Int("scaled_rows", len(scaled)).
			Msg("RFM and scaled tables differ in length")
	}

	return &Snapshot{
		RFM:       rfm.Rows,
		Scaled:    scaled,
		Clustered: clustered.Rows,
		Quality:   quality,
		Sources:   l.Sources(),
	}, nil
}

// AttachLabels sets ClusterLabel on every row from its Cluster id. Rows with
// an unknown id keep the missing label. It returns the number of such rows
// and the distinct unknown ids in ascending order.
func AttachLabels(rows []models.CustomerRecord) (int, []int) {
	unmapped := 0
	seen := make(map[int]struct{})
	for i := range rows {
		label, ok := rows[i].Cluster.Label()
		rows[i].ClusterLabel = label
		if !ok {
			unmapped++
			seen[int(rows[i].Cluster)] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return 0, nil
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return unmapped, ids
}

// loadError is the error stored on a degraded snapshot.
func loadError(err error) error {
	return fmt.Errorf("dataset load failed: %w", err)
}
