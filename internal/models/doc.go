// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

/*
Package models defines the data structures shared by the loader, the
aggregation engine and the HTTP API.

Key Components:

  - RFMRecord, ScaledRecord, CustomerRecord: rows of the three input tables
  - ClusterID and Label: cluster ids 0..2 and their display labels
  - Metric, RankSpec: ranking columns with explicit aggregate and order
  - SummaryResult, Distribution, CorrelationMatrix, Ranking: engine results
  - APIResponse, APIError, Metadata: the JSON envelope

JSON field names follow the CSV column names (perusahaan, Recency_Scaled,
Cluster_Label) so that tables and JSON agree. Undefined statistics and NaN
encode as null through OptionalFloat.

Thread Safety:

Values are plain data. Snapshots hand out slices that callers must treat as
read-only.
*/
package models
