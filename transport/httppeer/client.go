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

package httppeer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/snorochevskiy/photocat/catalog"
	"github.com/snorochevskiy/photocat/catalogdb"
	"github.com/snorochevskiy/photocat/ymd"
)

// Client is a catalog.RemotePeer backed by one remote node's HTTP API. It is
// the client half of transport/httppeer; Server is the other.
type Client struct {
	baseURL string
	hc      *http.Client

	// selfID and selfBaseURL describe this side to the remote node, so
	// NotifyAddedBy can hand the remote enough to dial back. They are
	// unset on the Client the Server constructs internally to represent
	// an inbound caller, since nothing calls NotifyAddedBy on that one.
	selfID      []byte
	selfBaseURL string
}

// NewClient builds a Client dialing baseURL (e.g. "http://10.0.0.2:8787").
// selfID and selfBaseURL are this node's own identity and advertise address,
// sent to the remote on NotifyAddedBy so it can register a Client pointing
// back at us.
func NewClient(baseURL string, selfID []byte, selfBaseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		hc:          &http.Client{Timeout: 15 * time.Second},
		selfID:      selfID,
		selfBaseURL: selfBaseURL,
	}
}

func newInboundClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, hc: &http.Client{Timeout: 15 * time.Second}}
}

func (c *Client) ID() []byte {
	var out []byte
	if err := c.getJSON("/id", &out); err != nil {
		return nil
	}
	return out
}

// NotifyAddedBy tells the remote node, over HTTP, that it was just added as
// a peer by the node this Client was constructed for, so the remote can
// reciprocally register a Client of its own pointing back here.
func (c *Client) NotifyAddedBy(peer catalog.RemotePeer) error {
	req := notifyRequest{ID: string(c.selfID), BaseURL: c.selfBaseURL}
	return c.postJSON("/notify", req, nil)
}

func (c *Client) GetYearsChecksums() ([]catalogdb.YearChecksum, error) {
	var resp yearsResponse
	if err := c.getJSON("/years", &resp); err != nil {
		return nil, err
	}
	out := make([]catalogdb.YearChecksum, len(resp.Years))
	for i, r := range resp.Years {
		out[i] = catalogdb.YearChecksum{Year: r.Year, Checksum: r.Checksum}
	}
	return out, nil
}

func (c *Client) GetMonthsChecksum(y ymd.Year) ([]catalogdb.MonthChecksum, error) {
	var resp monthsResponse
	path := fmt.Sprintf("/months/%d", uint32(y))
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	out := make([]catalogdb.MonthChecksum, len(resp.Months))
	for i, r := range resp.Months {
		out[i] = catalogdb.MonthChecksum{YearMonth: r.YearMonth, Checksum: r.Checksum}
	}
	return out, nil
}

func (c *Client) GetDaysChecksum(ym ymd.YearMonth) ([]catalogdb.DayChecksum, error) {
	var resp daysResponse
	path := fmt.Sprintf("/days/%d", uint32(ym))
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	out := make([]catalogdb.DayChecksum, len(resp.Days))
	for i, r := range resp.Days {
		out[i] = catalogdb.DayChecksum{YearMonthDay: r.YearMonthDay, Checksum: r.Checksum}
	}
	return out, nil
}

func (c *Client) GetExistingDaysInRange(lo, hi ymd.YearMonthDay) ([]ymd.YearMonthDay, error) {
	var resp existingDaysResponse
	q := url.Values{"lo": {strconv.FormatUint(uint64(lo), 10)}, "hi": {strconv.FormatUint(uint64(hi), 10)}}
	path := "/existing-days?" + q.Encode()
	if err := c.getJSON(path, &resp); err != nil {
		return nil, err
	}
	return resp.Days, nil
}

func (c *Client) GetData(d ymd.YearMonthDay) (catalogdb.DayEntry, bool, error) {
	var resp dataResponse
	path := fmt.Sprintf("/data/%d", uint32(d))
	if err := c.getJSON(path, &resp); err != nil {
		return nil, false, err
	}
	if !resp.Found {
		return nil, false, nil
	}
	entry, err := decodeDayEntry(resp.Objects)
	if err != nil {
		return nil, false, errors.Wrap(err, "httppeer: decode data response")
	}
	return entry, true, nil
}

func (c *Client) Propose(d ymd.YearMonthDay, entries catalogdb.DayEntry) (catalogdb.Checksum, error) {
	path := fmt.Sprintf("/propose/%d", uint32(d))
	var resp proposeResponse
	body := dataResponse{Found: true, Objects: encodeDayEntry(entries)}
	if err := c.postJSON(path, body, &resp); err != nil {
		return catalogdb.Checksum{}, err
	}
	return resp.Checksum, nil
}

func (c *Client) getJSON(path string, out interface{}) error {
	resp, err := c.hc.Get(c.baseURL + path)
	if err != nil {
		return errors.Wrapf(err, "httppeer: GET %s", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("httppeer: GET %s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(out), "httppeer: decode GET %s", path)
}

func (c *Client) postJSON(path string, in, out interface{}) error {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return errors.Wrapf(err, "httppeer: encode POST %s", path)
	}
	resp, err := c.hc.Post(c.baseURL+path, "application/json", buf)
	if err != nil {
		return errors.Wrapf(err, "httppeer: POST %s", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("httppeer: POST %s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(out), "httppeer: decode POST %s", path)
}
