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

package catalog

import "github.com/pkg/errors"

// ErrSyncAlreadyInProgress is returned by SyncWithPeers when a concurrent
// call is already reconciling against the roster. It is a try-lock failure,
// not a fault: no side effects occurred, and the caller is free to retry.
var ErrSyncAlreadyInProgress = errors.New("catalog: sync already in progress")

// peerErr tags a failure returned by a RemotePeer method so it is
// distinguishable, in logs and in %+v stack traces, from a local
// StorageEngineError. It aborts the enclosing sync; any day updates already
// committed locally before the failing call stay committed, since each
// Propose is its own transaction.
func peerErr(peerID []byte, op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "catalog: peer %x: %s", peerID, op)
}
