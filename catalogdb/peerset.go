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
	"bytes"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// unionPeers merges two peer-label lists into one, order-independent and
// without duplicates (property P2), returned sorted for deterministic
// serialization.
func unionPeers(a, b []PeerLabel) []PeerLabel {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, p := range a {
		set.Add(string(p))
	}
	for _, p := range b {
		set.Add(string(p))
	}
	out := make([]PeerLabel, 0, set.Cardinality())
	for _, s := range set.ToSlice() {
		out = append(out, PeerLabel(s))
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i], out[j]) < 0 })
	return out
}
