package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/common"
	"github.com/thrasher-corp/pricetrace/common/timeperiods"
	"github.com/thrasher-corp/pricetrace/encoding/json"
	"github.com/thrasher-corp/pricetrace/exchanges/fundingrate"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
	"github.com/thrasher-corp/pricetrace/exchanges/precision"
	"github.com/thrasher-corp/pricetrace/exchanges/request"
	"github.com/thrasher-corp/pricetrace/exchanges/trade"
	"github.com/thrasher-corp/pricetrace/log"
)

var (
	errMissingParameter = errors.New("missing query parameter")
	errInvalidDecimal   = errors.New("invalid decimal value")
)

// RESTError is the body sent for a failed request
type RESTError struct {
	Error string `json:"error"`
}

// RESTfulJSONResponse outputs a JSON response of the response interface
func RESTfulJSONResponse(w http.ResponseWriter, status int, response any) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(response)
}

// RESTfulError prints the REST method and error
func RESTfulError(method string, err error) {
	log.Errorf(log.WebserverSys, "RESTful %s: server failed to send JSON response. Error %s", method, err)
}

// ErrorStatus maps lookup errors to HTTP status codes
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, timeperiods.ErrInvalidTimestamp),
		errors.Is(err, common.ErrInvalidRange),
		errors.Is(err, common.ErrSymbolEmpty),
		errors.Is(err, errMissingParameter),
		errors.Is(err, errInvalidDecimal):
		return http.StatusBadRequest
	case errors.Is(err, kline.ErrNoDataFound),
		errors.Is(err, fundingrate.ErrNoFundingRecordFound),
		errors.Is(err, fundingrate.ErrMarkPriceUnavailable),
		errors.Is(err, precision.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, trade.ErrRetentionWindowExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, request.ErrUpstreamFetchFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, result any, err error) {
	status := http.StatusOK
	if err != nil {
		status = ErrorStatus(err)
		result = RESTError{Error: err.Error()}
	}
	if err := RESTfulJSONResponse(w, status, result); err != nil {
		RESTfulError(r.Method, err)
	}
}

func queryParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", errMissingParameter, name)
	}
	return v, nil
}

func decimalParam(r *http.Request, name string) (decimal.Decimal, error) {
	v, err := queryParam(r, name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q", errInvalidDecimal, name, v)
	}
	return d, nil
}

func getIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	fmt.Fprint(w, "pricetrace REST interface. Lookups are served under /v1/{symbol}/.")
}

func (e *Engine) restGetAllPrecisions(w http.ResponseWriter, r *http.Request) {
	res, err := e.GetAllPrecisions(r.Context())
	writeResult(w, r, res, err)
}

func (e *Engine) restGetPrecision(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	p, err := e.GetPrecision(r.Context(), symbol)
	writeResult(w, r, map[string]any{"symbol": strings.ToUpper(symbol), "pricePrecision": p}, err)
}

func (e *Engine) restTruncatePrice(w http.ResponseWriter, r *http.Request) {
	price, err := decimalParam(r, "price")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	symbol := mux.Vars(r)["symbol"]
	t, err := e.TruncatePrice(r.Context(), symbol, price)
	writeResult(w, r, map[string]string{"symbol": strings.ToUpper(symbol), "price": t.String()}, err)
}

func (e *Engine) restGetTriggerMinuteCandles(w http.ResponseWriter, r *http.Request) {
	at, err := queryParam(r, "at")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	res, err := e.GetTriggerMinuteCandles(r.Context(), mux.Vars(r)["symbol"], at)
	writeResult(w, r, res, err)
}

func (e *Engine) restGetRangeHighLow(w http.ResponseWriter, r *http.Request) {
	from, err := queryParam(r, "from")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	to, err := queryParam(r, "to")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	res, err := e.GetRangeHighLow(r.Context(), mux.Vars(r)["symbol"], from, to)
	writeResult(w, r, res, err)
}

func (e *Engine) restGetLastPriceAtSecond(w http.ResponseWriter, r *http.Request) {
	at, err := queryParam(r, "at")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	res, err := e.GetLastPriceAtSecond(r.Context(), mux.Vars(r)["symbol"], at)
	if err == nil && res == nil {
		err = fmt.Errorf("%w: no trades during %s", kline.ErrNoDataFound, at)
	}
	writeResult(w, r, res, err)
}

func (e *Engine) restGetNearestFunding(w http.ResponseWriter, r *http.Request) {
	at, err := queryParam(r, "at")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	res, err := e.GetNearestFunding(r.Context(), mux.Vars(r)["symbol"], at)
	writeResult(w, r, res, err)
}

func (e *Engine) restResolveMarkPriceFallback(w http.ResponseWriter, r *http.Request) {
	at, err := queryParam(r, "at")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	fundingTime, err := timeperiods.ParseUTC(at)
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	res, err := e.ResolveMarkPriceFallback(r.Context(), mux.Vars(r)["symbol"], fundingTime)
	if err == nil && res == nil {
		err = fmt.Errorf("%w: no traded candle at or before %s", fundingrate.ErrMarkPriceUnavailable, at)
	}
	writeResult(w, r, res, err)
}

func (e *Engine) restCalculateFundingPayment(w http.ResponseWriter, r *http.Request) {
	at, err := queryParam(r, "at")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	size, err := decimalParam(r, "size")
	if err != nil {
		writeResult(w, r, nil, err)
		return
	}
	res, err := e.CalculateFundingPayment(r.Context(), mux.Vars(r)["symbol"], at, size)
	writeResult(w, r, res, err)
}
