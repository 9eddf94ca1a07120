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

// Package catalogdb is the local, transactional index of one catalog node:
// four ordered tables (per-year, per-month and per-day checksums, plus the
// per-day object list) backed by an embedded key-value engine, kept
// consistent by cascading digest recomputation on every write.
package catalogdb

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// ChecksumSize is the width, in bytes, of every digest stored in the three
// checksum tables.
const ChecksumSize = sha256.Size

// Checksum is a fixed-width digest over the ascending-sorted ObjectIDs of a
// day, or over the digests of its children in the tier above.
type Checksum [ChecksumSize]byte

// String renders the checksum as lowercase hex.
func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// MarshalText implements encoding.TextMarshaler, so a Checksum serializes
// as a hex string in JSON rather than an array of 32 numbers — the
// transport/httppeer wire format relies on this.
func (c Checksum) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Checksum) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	if len(b) != ChecksumSize {
		return errChecksumLength
	}
	copy(c[:], b)
	return nil
}

func sumOf(parts ...[]byte) Checksum {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var c Checksum
	copy(c[:], h.Sum(nil))
	return c
}

// ObjectID is a caller-supplied content hash identifying a media object.
// The bytes of the object itself are never stored by this package.
type ObjectID []byte

// PeerLabel is an opaque identifier naming a peer known to host the bytes of
// an ObjectID.
type PeerLabel []byte

// DayObject is one (ObjectID, hosting peers) record inside a DayEntry.
type DayObject struct {
	ObjectID ObjectID
	Peers    []PeerLabel
}

// DayEntry is the full content recorded for one calendar day: a sequence of
// DayObject sorted ascending by ObjectID, with unique ObjectIDs (invariant
// I5). The peer-label sets of each DayObject are excluded from the day's
// checksum (invariant I1); only the ObjectIDs are hashed.
type DayEntry []DayObject

// Clone returns a deep copy, so callers can freely mutate the result without
// aliasing catalogdb-owned slices.
func (e DayEntry) Clone() DayEntry {
	out := make(DayEntry, len(e))
	for i, o := range e {
		peers := make([]PeerLabel, len(o.Peers))
		for j, p := range o.Peers {
			peers[j] = append(PeerLabel(nil), p...)
		}
		out[i] = DayObject{ObjectID: append(ObjectID(nil), o.ObjectID...), Peers: peers}
	}
	return out
}

// checksum computes CHK_YMD for this entry per invariant I1: the digest of
// the concatenation of ObjectID fields, in ascending ObjectID order. The
// entry is assumed to already be sorted (mergeDayEntries guarantees this).
func (e DayEntry) checksum() Checksum {
	parts := make([][]byte, len(e))
	for i, o := range e {
		parts[i] = o.ObjectID
	}
	return sumOf(parts...)
}

// mergeDayEntries implements the add_photos_to_day merge step (§4.2 step 2-3
// of the spec): union peer sets for ObjectIDs already present, append new
// ones, then sort ascending by (ObjectID, Peers) so that byte-identical
// content yields a byte-identical serialization regardless of insertion
// order (invariant I5, property P3).
func mergeDayEntries(existing DayEntry, incoming []DayObject) DayEntry {
	merged := existing.Clone()
	byOID := make(map[string]int, len(merged)+len(incoming))
	for i, o := range merged {
		byOID[string(o.ObjectID)] = i
	}

	for _, in := range incoming {
		key := string(in.ObjectID)
		if idx, ok := byOID[key]; ok {
			merged[idx].Peers = unionPeers(merged[idx].Peers, in.Peers)
			continue
		}
		byOID[key] = len(merged)
		merged = append(merged, DayObject{
			ObjectID: append(ObjectID(nil), in.ObjectID...),
			Peers:    unionPeers(nil, in.Peers),
		})
	}

	sort.Slice(merged, func(i, j int) bool {
		if c := bytes.Compare(merged[i].ObjectID, merged[j].ObjectID); c != 0 {
			return c < 0
		}
		return comparePeers(merged[i].Peers, merged[j].Peers) < 0
	})
	return merged
}

func comparePeers(a, b []PeerLabel) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := bytes.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}
