// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package dataset

import (
	"math"

	"github.com/tomtom215/rfmboard/internal/models"
)

// scaledTolerance absorbs float noise from the upstream min-max scaler.
const scaledTolerance = 1e-9

// assessQuality counts rows whose values fall outside the documented ranges:
// negative raw metrics, or scaled metrics outside [0, 1]. Such rows are still
// served; the counts only feed the dataset status.
func assessQuality(rfm []models.RFMRecord, scaled []models.ScaledRecord, clustered []models.CustomerRecord) models.DataQuality {
	var q models.DataQuality

	for _, r := range rfm {
		if !rawInRange(r.Recency, float64(r.Frequency), r.Monetary) {
			q.OutOfRangeRows++
		}
	}
	for _, s := range scaled {
		if !scaledInRange(s.RecencyScaled, s.FrequencyScaled, s.MonetaryScaled) {
			q.OutOfRangeRows++
		}
	}
	for _, c := range clustered {
		if !rawInRange(c.Recency, float64(c.Frequency), c.Monetary) ||
			!scaledInRange(c.RecencyScaled, c.FrequencyScaled, c.MonetaryScaled) {
			q.OutOfRangeRows++
		}
	}

	q.RowCountMismatch = len(rfm) != len(scaled)
	return q
}

func rawInRange(values ...float64) bool {
	for _, v := range values {
		if !finite(v) || v < 0 {
			return false
		}
	}
	return true
}

func scaledInRange(values ...float64) bool {
	for _, v := range values {
		if !finite(v) || v < -scaledTolerance || v > 1+scaledTolerance {
			return false
		}
	}
	return true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
