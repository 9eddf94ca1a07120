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

import "github.com/pkg/errors"

// ErrInvariantViolation is raised when digest recomputation finds no child
// row for a tier it has just written within the same transaction. Day keys
// are not validated, so this surfaces when a caller passes a day key whose
// day component is 0 or above 31 (or whose month component is outside 1..12
// in a year with no other stored month); the transaction is discarded.
var ErrInvariantViolation = errors.New("catalogdb: invariant violation")

// errChecksumLength is returned by Checksum.UnmarshalText when the decoded
// hex string isn't exactly ChecksumSize bytes.
var errChecksumLength = errors.New("catalogdb: wrong checksum length")

// wrapEngineErr tags a failure from the embedded key-value engine so callers
// can tell a StorageEngineError apart from an AbsentTable read (which is
// never an error, see Store.GetPhotos and friends) or a PeerError bubbling
// up from a remote call.
func wrapEngineErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "catalogdb: %s", op)
}
