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
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// encodeDayEntry serializes a DayEntry as a flat, length-prefixed record and
// snappy-compresses it before it hits the engine, the same way rawdb
// compresses its larger blob values before writing them to disk.
//
// Layout (pre-compression): uint32 object count, then per object:
// uint32 ObjectID length, ObjectID bytes, uint32 peer count, then per peer
// uint32 PeerLabel length and PeerLabel bytes.
func encodeDayEntry(e DayEntry) []byte {
	size := 4
	for _, o := range e {
		size += 4 + len(o.ObjectID) + 4
		for _, p := range o.Peers {
			size += 4 + len(p)
		}
	}
	buf := make([]byte, size)
	off := 0
	binary.BigEndian.PutUint32(buf[off:], uint32(len(e)))
	off += 4
	for _, o := range e {
		binary.BigEndian.PutUint32(buf[off:], uint32(len(o.ObjectID)))
		off += 4
		off += copy(buf[off:], o.ObjectID)
		binary.BigEndian.PutUint32(buf[off:], uint32(len(o.Peers)))
		off += 4
		for _, p := range o.Peers {
			binary.BigEndian.PutUint32(buf[off:], uint32(len(p)))
			off += 4
			off += copy(buf[off:], p)
		}
	}
	return snappy.Encode(nil, buf)
}

func decodeDayEntry(compressed []byte) (DayEntry, error) {
	buf, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, errors.Wrap(err, "snappy decode day entry")
	}
	r := &byteReader{buf: buf}

	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	entry := make(DayEntry, count)
	for i := range entry {
		oidLen, err := r.uint32()
		if err != nil {
			return nil, err
		}
		oid, err := r.bytes(int(oidLen))
		if err != nil {
			return nil, err
		}
		peerCount, err := r.uint32()
		if err != nil {
			return nil, err
		}
		peers := make([]PeerLabel, peerCount)
		for j := range peers {
			pLen, err := r.uint32()
			if err != nil {
				return nil, err
			}
			p, err := r.bytes(int(pLen))
			if err != nil {
				return nil, err
			}
			peers[j] = PeerLabel(p)
		}
		entry[i] = DayObject{ObjectID: ObjectID(oid), Peers: peers}
	}
	return entry, nil
}

// byteReader is a tiny cursor over a decoded record; it exists so
// decodeDayEntry reads top to bottom instead of threading an offset through
// every call.
type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) uint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	out := append([]byte(nil), r.buf[r.pos:r.pos+n]...)
	r.pos += n
	return out, nil
}
