// Package binancestub serves a synthetic USDT-M futures market data API for
// tests. Rows are filtered and capped the way the live endpoints do it.
package binancestub

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/thrasher-corp/pricetrace/encoding/json"
)

// Endpoint paths served by the stub
const (
	KlinesPath          = "/fapi/v1/klines"
	MarkPriceKlinesPath = "/fapi/v1/markPriceKlines"
	AggTradesPath       = "/fapi/v1/aggTrades"
	FundingRatePath     = "/fapi/v1/fundingRate"
	ExchangeInfoPath    = "/fapi/v1/exchangeInfo"
)

// UsedWeightHeader carries the request count served so far, one weight each
const UsedWeightHeader = "X-Mbx-Used-Weight-1m"

// Kline is one synthetic one minute candle
type Kline struct {
	OpenTime               time.Time
	Open, High, Low, Close float64
}

// AggTrade is one synthetic compressed trade
type AggTrade struct {
	ID    int64
	Price float64
	Time  time.Time
}

// Funding is one synthetic funding record. An empty MarkPrice is sent as "".
type Funding struct {
	Time      time.Time
	Rate      string
	MarkPrice string
}

// Server is a synthetic upstream
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	last       map[string][]Kline
	mark       map[string][]Kline
	trades     map[string][]AggTrade
	funding    map[string][]Funding
	precisions map[string]int
	failures   map[string]int
	requests   map[string]int
	queries    map[string][]string
	used       int
}

// New starts a stub server. Close it when done.
func New() *Server {
	s := &Server{
		last:       map[string][]Kline{},
		mark:       map[string][]Kline{},
		trades:     map[string][]AggTrade{},
		funding:    map[string][]Funding{},
		precisions: map[string]int{},
		failures:   map[string]int{},
		requests:   map[string]int{},
		queries:    map[string][]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc(KlinesPath, s.wrap(s.handleKlines(s.last)))
	mux.HandleFunc(MarkPriceKlinesPath, s.wrap(s.handleKlines(s.mark)))
	mux.HandleFunc(AggTradesPath, s.wrap(s.handleAggTrades))
	mux.HandleFunc(FundingRatePath, s.wrap(s.handleFunding))
	mux.HandleFunc(ExchangeInfoPath, s.wrap(s.handleExchangeInfo))
	s.Server = httptest.NewServer(mux)
	return s
}

// SetLastKlines replaces the traded price candles of symbol
func (s *Server) SetLastKlines(symbol string, k []Kline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[symbol] = sortedKlines(k)
}

// SetMarkKlines replaces the mark price candles of symbol
func (s *Server) SetMarkKlines(symbol string, k []Kline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mark[symbol] = sortedKlines(k)
}

// SetTrades replaces the compressed trades of symbol
func (s *Server) SetTrades(symbol string, t []AggTrade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := append([]AggTrade(nil), t...)
	sort.SliceStable(c, func(i, j int) bool { return c[i].ID < c[j].ID })
	s.trades[symbol] = c
}

// SetFunding replaces the funding records of symbol
func (s *Server) SetFunding(symbol string, f []Funding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := append([]Funding(nil), f...)
	sort.SliceStable(c, func(i, j int) bool { return c[i].Time.Before(c[j].Time) })
	s.funding[symbol] = c
}

// SetPrecision sets the price precision listed for symbol
func (s *Server) SetPrecision(symbol string, p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.precisions[symbol] = p
}

// FailWith makes path answer with status until cleared with status 0
func (s *Server) FailWith(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = status
}

// Requests returns how many requests reached path
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// Queries returns the raw query strings received on path in order
func (s *Server) Queries(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries[path]...)
}

// GenerateKlines returns n contiguous one minute candles from start. price
// returns the open, high, low and close of the i-th candle.
func GenerateKlines(start time.Time, n int, price func(i int) (o, h, l, c float64)) []Kline {
	out := make([]Kline, n)
	for i := range out {
		o, h, l, c := price(i)
		out[i] = Kline{OpenTime: start.Add(time.Duration(i) * time.Minute), Open: o, High: h, Low: l, Close: c}
	}
	return out
}

func sortedKlines(k []Kline) []Kline {
	c := append([]Kline(nil), k...)
	sort.SliceStable(c, func(i, j int) bool { return c[i].OpenTime.Before(c[j].OpenTime) })
	return c
}

func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.queries[r.URL.Path] = append(s.queries[r.URL.Path], r.URL.RawQuery)
		status := s.failures[r.URL.Path]
		s.used++
		used := s.used
		s.mu.Unlock()
		w.Header().Set(UsedWeightHeader, strconv.Itoa(used))
		if status != 0 {
			writeError(w, status, -1000, "synthetic failure")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}
}

type queryWindow struct {
	symbol     string
	start, end time.Time
	limit      int
}

// parseWindow reads symbol, startTime, endTime and limit. endTime is
// inclusive as it is upstream. aggTrades with fromId ignores the window.
func parseWindow(r *http.Request, defLimit, maxLimit int) (queryWindow, bool) {
	q := r.URL.Query()
	qw := queryWindow{symbol: q.Get("symbol"), limit: defLimit, end: time.UnixMilli(1<<62 - 1)}
	if v := q.Get("startTime"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return qw, false
		}
		qw.start = time.UnixMilli(ms)
	}
	if v := q.Get("endTime"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return qw, false
		}
		qw.end = time.UnixMilli(ms)
	}
	if v := q.Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 {
			return qw, false
		}
		qw.limit = min(l, maxLimit)
	}
	return qw, true
}

func inWindow(t time.Time, qw queryWindow) bool {
	return !t.Before(qw.start) && !t.After(qw.end)
}

func (s *Server) handleKlines(series map[string][]Kline) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("interval") != "1m" {
			writeError(w, http.StatusBadRequest, -1120, "Invalid interval.")
			return
		}
		qw, ok := parseWindow(r, 500, 1500)
		if !ok {
			writeError(w, http.StatusBadRequest, -1100, "Illegal characters found in parameter.")
			return
		}
		s.mu.Lock()
		data := series[qw.symbol]
		s.mu.Unlock()

		rows := make([][]any, 0)
		for i := range data {
			if len(rows) == qw.limit {
				break
			}
			if !inWindow(data[i].OpenTime, qw) {
				continue
			}
			k := data[i]
			rows = append(rows, []any{
				k.OpenTime.UnixMilli(),
				formatFloat(k.Open),
				formatFloat(k.High),
				formatFloat(k.Low),
				formatFloat(k.Close),
				"0",
				k.OpenTime.Add(time.Minute - time.Millisecond).UnixMilli(),
				"0",
				0,
				"0",
				"0",
				"0",
			})
		}
		writeJSON(w, rows)
	}
}

func (s *Server) handleAggTrades(w http.ResponseWriter, r *http.Request) {
	qw, ok := parseWindow(r, 500, 1000)
	if !ok {
		writeError(w, http.StatusBadRequest, -1100, "Illegal characters found in parameter.")
		return
	}
	var fromID int64
	if v := r.URL.Query().Get("fromId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, -1100, "Illegal characters found in parameter.")
			return
		}
		fromID = id
	}
	s.mu.Lock()
	data := s.trades[qw.symbol]
	s.mu.Unlock()

	type aggTrade struct {
		A int64  `json:"a"`
		P string `json:"p"`
		Q string `json:"q"`
		F int64  `json:"f"`
		L int64  `json:"l"`
		T int64  `json:"T"`
		M bool   `json:"m"`
	}
	rows := make([]aggTrade, 0)
	for i := range data {
		if len(rows) == qw.limit {
			break
		}
		if fromID > 0 && data[i].ID < fromID {
			continue
		}
		if fromID == 0 && !inWindow(data[i].Time, qw) {
			continue
		}
		rows = append(rows, aggTrade{
			A: data[i].ID,
			P: formatFloat(data[i].Price),
			Q: "1",
			F: data[i].ID,
			L: data[i].ID,
			T: data[i].Time.UnixMilli(),
		})
	}
	writeJSON(w, rows)
}

func (s *Server) handleFunding(w http.ResponseWriter, r *http.Request) {
	qw, ok := parseWindow(r, 100, 1000)
	if !ok {
		writeError(w, http.StatusBadRequest, -1100, "Illegal characters found in parameter.")
		return
	}
	s.mu.Lock()
	data := s.funding[qw.symbol]
	s.mu.Unlock()

	type fundingRate struct {
		Symbol      string `json:"symbol"`
		FundingRate string `json:"fundingRate"`
		FundingTime int64  `json:"fundingTime"`
		MarkPrice   string `json:"markPrice"`
	}
	rows := make([]fundingRate, 0)
	for i := range data {
		if len(rows) == qw.limit {
			break
		}
		if !inWindow(data[i].Time, qw) {
			continue
		}
		rows = append(rows, fundingRate{
			Symbol:      qw.symbol,
			FundingRate: data[i].Rate,
			FundingTime: data[i].Time.UnixMilli(),
			MarkPrice:   data[i].MarkPrice,
		})
	}
	writeJSON(w, rows)
}

func (s *Server) handleExchangeInfo(w http.ResponseWriter, _ *http.Request) {
	type symbol struct {
		Symbol         string `json:"symbol"`
		Status         string `json:"status"`
		PricePrecision int    `json:"pricePrecision"`
	}
	s.mu.Lock()
	symbols := make([]symbol, 0, len(s.precisions))
	for k, v := range s.precisions {
		symbols = append(symbols, symbol{Symbol: k, Status: "TRADING", PricePrecision: v})
	}
	s.mu.Unlock()
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Symbol < symbols[j].Symbol })
	writeJSON(w, map[string]any{
		"timezone":   "UTC",
		"serverTime": time.Now().UnixMilli(),
		"symbols":    symbols,
	})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "msg": msg})
}
