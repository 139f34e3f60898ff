// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

/*
Package cache provides the thread-safe result cache used by the API layer.

Entries expire after a TTL and the least recently used entry is evicted once
the cache holds MaxEntries items. Concurrent misses for the same key are
collapsed so that an expensive view is computed once.

# Keys

Keys are built with GenerateKey from an endpoint name and its parameters.
The API includes the dataset generation in the parameters, so a reload
makes every earlier entry unreachable; Clear is still called on reload to
release the memory immediately.

# Usage

	c := cache.New("views", 5*time.Minute, 1000)
	defer c.Close()

	key := cache.GenerateKey("clustering/summary", params)
	v, cached, err := c.GetOrLoad(key, func() (interface{}, error) {
	    return buildSummary(params)
	})

# Metrics

Hits, misses, evictions and the entry count are exported through the
cache_* Prometheus collectors, labelled with the cache name.
*/
package cache
