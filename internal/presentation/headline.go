// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package presentation

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomtom215/rfmboard/internal/models"
)

// Placeholder shown for an undefined headline value.
const Placeholder = "-"

// Thousands grouping uses commas.
var printer = message.NewPrinter(language.English)

// Headline is the row of metric boxes at the top of the descriptive view.
type Headline struct {
	TotalCustomers  string             `json:"total_pelanggan"`
	AverageRecency  string             `json:"rata_rata_recency"`
	AverageFreq     string             `json:"rata_rata_frequency"`
	AverageMonetary string             `json:"rata_rata_monetary"`
	Description     models.Description `json:"description"`
}

// Headlines formats a population description, for example
// "1,234", "12.34 Hari", "5.67 Transaksi" and "Rp 1,234,567".
func Headlines(d models.Description) Headline {
	h := Headline{
		TotalCustomers:  printer.Sprintf("%d", d.Count),
		AverageRecency:  Placeholder,
		AverageFreq:     Placeholder,
		AverageMonetary: Placeholder,
		Description:     d,
	}
	if d.MeanRecency.Valid {
		h.AverageRecency = strconvRound(d.MeanRecency.Value, 2) + " Hari"
	}
	if d.MeanFrequency.Valid {
		h.AverageFreq = strconvRound(d.MeanFrequency.Value, 2) + " Transaksi"
	}
	if d.MeanMonetary.Valid {
		h.AverageMonetary = Rupiah(d.MeanMonetary.Value)
	}
	return h
}

// Rupiah rounds to a whole amount and groups thousands: "Rp 1,234,567".
func Rupiah(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return printer.Sprintf("Rp %d", int64(math.Round(v)))
}

// strconvRound rounds half away from zero and prints the shortest form,
// so 12.30 prints as "12.3".
func strconvRound(v float64, places int) string {
	p := math.Pow(10, float64(places))
	return strconv.FormatFloat(math.Round(v*p)/p, 'f', -1, 64)
}
