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

// Package httppeer implements catalog.RemotePeer over plain HTTP+JSON, so two
// photocat nodes can reconcile across a network instead of only in-process.
// Checksum's encoding.TextMarshaler makes every digest travel as hex rather
// than a byte-array literal.
package httppeer

import (
	"encoding/base64"

	"github.com/snorochevskiy/photocat/catalogdb"
	"github.com/snorochevskiy/photocat/ymd"
)

// notifyRequest is the body of POST /notify: the caller announces itself so
// the callee can register it back without a separate discovery step.
type notifyRequest struct {
	ID      string `json:"id"`
	BaseURL string `json:"base_url"`
}

type yearsResponse struct {
	Years []yearRow `json:"years"`
}

type yearRow struct {
	Year     ymd.Year          `json:"year"`
	Checksum catalogdb.Checksum `json:"checksum"`
}

type monthsResponse struct {
	Months []monthRow `json:"months"`
}

type monthRow struct {
	YearMonth ymd.YearMonth      `json:"year_month"`
	Checksum  catalogdb.Checksum `json:"checksum"`
}

type daysResponse struct {
	Days []dayRow `json:"days"`
}

type dayRow struct {
	YearMonthDay ymd.YearMonthDay   `json:"year_month_day"`
	Checksum     catalogdb.Checksum `json:"checksum"`
}

type existingDaysResponse struct {
	Days []ymd.YearMonthDay `json:"days"`
}

// dataResponse carries a DayEntry across the wire. ObjectID and PeerLabel
// are opaque byte strings, so they travel base64-encoded rather than relying
// on JSON's UTF-8-only string handling.
type dataResponse struct {
	Found   bool           `json:"found"`
	Objects []dayObjectRow `json:"objects,omitempty"`
}

type dayObjectRow struct {
	ObjectID string   `json:"object_id"`
	Peers    []string `json:"peers"`
}

type proposeResponse struct {
	Checksum catalogdb.Checksum `json:"checksum"`
}

func encodeDayEntry(e catalogdb.DayEntry) []dayObjectRow {
	rows := make([]dayObjectRow, len(e))
	for i, o := range e {
		peers := make([]string, len(o.Peers))
		for j, p := range o.Peers {
			peers[j] = base64.StdEncoding.EncodeToString(p)
		}
		rows[i] = dayObjectRow{
			ObjectID: base64.StdEncoding.EncodeToString(o.ObjectID),
			Peers:    peers,
		}
	}
	return rows
}

func decodeDayEntry(rows []dayObjectRow) (catalogdb.DayEntry, error) {
	out := make(catalogdb.DayEntry, len(rows))
	for i, r := range rows {
		oid, err := base64.StdEncoding.DecodeString(r.ObjectID)
		if err != nil {
			return nil, err
		}
		peers := make([]catalogdb.PeerLabel, len(r.Peers))
		for j, p := range r.Peers {
			b, err := base64.StdEncoding.DecodeString(p)
			if err != nil {
				return nil, err
			}
			peers[j] = catalogdb.PeerLabel(b)
		}
		out[i] = catalogdb.DayObject{ObjectID: catalogdb.ObjectID(oid), Peers: peers}
	}
	return out, nil
}
