// Copyright 2020 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package catalogdb

import (
	"github.com/VictoriaMetrics/fastcache"
)

// dayEntryCacheBytes is the default size of the in-memory, best-effort cache
// fronting DATA reads. Day entries are re-read on every reconciliation pass
// against every peer, and re-decoding the same snappy blob on each pass is
// pure waste; fastcache gives an allocation-free LRU-ish cache tuned for
// exactly this small-value, high-churn workload.
const dayEntryCacheBytes = 32 * 1024 * 1024

// dayEntryCache wraps a fastcache.Cache keyed by the raw DATA table key. It
// is purely an optimization: a miss always falls back to the engine. Only
// the write path (Store.AddPhotosToDay) ever calls set, with the exact
// bytes it is committing, while it holds the engine's write lock — a
// snapshot read populating the cache after the
// fact could race a concurrent commit and pin a stale value forever, so
// Store.GetPhotos never does that (see its comment).
type dayEntryCache struct {
	c *fastcache.Cache
}

func newDayEntryCache() *dayEntryCache {
	return &dayEntryCache{c: fastcache.New(dayEntryCacheBytes)}
}

func (dc *dayEntryCache) get(key []byte) ([]byte, bool) {
	v, ok := dc.c.HasGet(nil, key)
	return v, ok
}

// set replaces any cached value for key. fastcache silently skips entries of
// 64KB or more, so the old value is deleted first: an oversized day then
// reads as a miss instead of returning the previous, stale value.
func (dc *dayEntryCache) set(key, value []byte) {
	dc.c.Del(key)
	dc.c.Set(key, value)
}
