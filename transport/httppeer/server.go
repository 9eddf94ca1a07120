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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/snorochevskiy/photocat/catalog"
	"github.com/snorochevskiy/photocat/log"
	"github.com/snorochevskiy/photocat/ymd"
)

// Server exposes a catalog.RemotePeer over HTTP so remote nodes can reconcile
// against it. It is the server half of transport/httppeer; Client is the
// other.
type Server struct {
	peer catalog.RemotePeer
	log  *log.Logger
}

// NewServer wraps peer (usually a *catalog.CatalogNode) for HTTP access.
func NewServer(peer catalog.RemotePeer) *Server {
	return &Server{peer: peer, log: log.With("component", "httppeer")}
}

// Handler returns the http.Handler to mount, CORS-permissive like the rest
// of the pack's JSON-RPC style endpoints.
func (s *Server) Handler() http.Handler {
	r := httprouter.New()
	r.GET("/id", s.handleID)
	r.POST("/notify", s.handleNotify)
	r.GET("/years", s.handleYears)
	r.GET("/months/:year", s.handleMonths)
	r.GET("/days/:yearmonth", s.handleDays)
	r.GET("/existing-days", s.handleExistingDays)
	r.GET("/data/:day", s.handleGetData)
	r.POST("/propose/:day", s.handlePropose)
	return cors.Default().Handler(r)
}

func (s *Server) handleID(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, s.peer.ID())
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req notifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	remote := newInboundClient(req.BaseURL)
	if err := s.peer.NotifyAddedBy(remote); err != nil {
		s.log.Error("notify failed", "peer", req.ID, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	years, err := s.peer.GetYearsChecksums()
	if !s.ok(w, err) {
		return
	}
	resp := yearsResponse{Years: make([]yearRow, len(years))}
	for i, y := range years {
		resp.Years[i] = yearRow{Year: y.Year, Checksum: y.Checksum}
	}
	writeJSON(w, resp)
}

func (s *Server) handleMonths(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	year, err := strconv.ParseUint(p.ByName("year"), 10, 32)
	if err != nil {
		http.Error(w, "bad year", http.StatusBadRequest)
		return
	}
	months, err := s.peer.GetMonthsChecksum(ymd.Year(year))
	if !s.ok(w, err) {
		return
	}
	resp := monthsResponse{Months: make([]monthRow, len(months))}
	for i, m := range months {
		resp.Months[i] = monthRow{YearMonth: m.YearMonth, Checksum: m.Checksum}
	}
	writeJSON(w, resp)
}

func (s *Server) handleDays(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	ym, err := strconv.ParseUint(p.ByName("yearmonth"), 10, 32)
	if err != nil {
		http.Error(w, "bad year-month", http.StatusBadRequest)
		return
	}
	days, err := s.peer.GetDaysChecksum(ymd.YearMonth(ym))
	if !s.ok(w, err) {
		return
	}
	resp := daysResponse{Days: make([]dayRow, len(days))}
	for i, d := range days {
		resp.Days[i] = dayRow{YearMonthDay: d.YearMonthDay, Checksum: d.Checksum}
	}
	writeJSON(w, resp)
}

func (s *Server) handleExistingDays(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lo, err := strconv.ParseUint(r.URL.Query().Get("lo"), 10, 32)
	if err != nil {
		http.Error(w, "bad lo", http.StatusBadRequest)
		return
	}
	hi, err := strconv.ParseUint(r.URL.Query().Get("hi"), 10, 32)
	if err != nil {
		http.Error(w, "bad hi", http.StatusBadRequest)
		return
	}
	days, err := s.peer.GetExistingDaysInRange(ymd.YearMonthDay(lo), ymd.YearMonthDay(hi))
	if !s.ok(w, err) {
		return
	}
	writeJSON(w, existingDaysResponse{Days: days})
}

func (s *Server) handleGetData(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	day, err := strconv.ParseUint(p.ByName("day"), 10, 32)
	if err != nil {
		http.Error(w, "bad day", http.StatusBadRequest)
		return
	}
	entry, ok, err := s.peer.GetData(ymd.YearMonthDay(day))
	if !s.ok(w, err) {
		return
	}
	if !ok {
		writeJSON(w, dataResponse{Found: false})
		return
	}
	writeJSON(w, dataResponse{Found: true, Objects: encodeDayEntry(entry)})
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	day, err := strconv.ParseUint(p.ByName("day"), 10, 32)
	if err != nil {
		http.Error(w, "bad day", http.StatusBadRequest)
		return
	}
	var body dataResponse
	if !decodeBody(w, r, &body) {
		return
	}
	entry, err := decodeDayEntry(body.Objects)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	chk, err := s.peer.Propose(ymd.YearMonthDay(day), entry)
	if !s.ok(w, err) {
		return
	}
	writeJSON(w, proposeResponse{Checksum: chk})
}

func (s *Server) ok(w http.ResponseWriter, err error) bool {
	if err == nil {
		return true
	}
	s.log.Error("request failed", "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
