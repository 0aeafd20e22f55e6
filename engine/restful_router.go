package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	"github.com/thrasher-corp/pricetrace/exchanges/request"
	"github.com/thrasher-corp/pricetrace/log"
)

const requestIDHeader = "X-Request-ID"

var errServerNotEnabled = errors.New("REST server is not enabled")

// Route is a sub type that holds the request routes
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RESTLogger logs the requests internally
func RESTLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		inner.ServeHTTP(rec, r)

		log.Infof(log.WebserverSys,
			"%s\t%s\t%s\t%d\t%s\t%s",
			r.Method,
			r.RequestURI,
			name,
			rec.status,
			w.Header().Get(requestIDHeader),
			time.Since(start),
		)
	})
}

// RequestID tags every response with a request ID, reusing the caller's when
// one is supplied. The ID follows the request into upstream calls.
func RequestID(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			u, err := uuid.NewV4()
			if err != nil {
				log.Errorf(log.WebserverSys, "Failed to generate request ID: %v", err)
			} else {
				id = u.String()
			}
		}
		if id != "" {
			w.Header().Set(requestIDHeader, id)
			r = r.WithContext(request.WithTraceID(r.Context(), id))
		}
		inner.ServeHTTP(w, r)
	})
}

// newRouter returns the REST API multiplexor for e
func newRouter(e *Engine) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	routes := []Route{
		{"Index", http.MethodGet, "/", getIndex},
		{"AllPrecisions", http.MethodGet, "/v1/precision", e.restGetAllPrecisions},
		{"Precision", http.MethodGet, "/v1/{symbol}/precision", e.restGetPrecision},
		{"Truncate", http.MethodGet, "/v1/{symbol}/truncate", e.restTruncatePrice},
		{"TriggerCandles", http.MethodGet, "/v1/{symbol}/trigger", e.restGetTriggerMinuteCandles},
		{"RangeHighLow", http.MethodGet, "/v1/{symbol}/range", e.restGetRangeHighLow},
		{"LastPriceAtSecond", http.MethodGet, "/v1/{symbol}/second", e.restGetLastPriceAtSecond},
		{"NearestFunding", http.MethodGet, "/v1/{symbol}/funding", e.restGetNearestFunding},
		{"FundingPayment", http.MethodGet, "/v1/{symbol}/funding/payment", e.restCalculateFundingPayment},
		{"MarkPriceFallback", http.MethodGet, "/v1/{symbol}/funding/fallback", e.restResolveMarkPriceFallback},
	}

	for _, route := range routes {
		var handler http.Handler
		handler = route.HandlerFunc
		handler = RESTLogger(handler, route.Name)
		handler = RequestID(handler)

		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handler)
	}
	return router
}

// StartRESTServer serves the REST API until ctx is cancelled, then shuts the
// server down gracefully
func (e *Engine) StartRESTServer(ctx context.Context) error {
	if !e.Config.Webserver.Enabled {
		return errServerNotEnabled
	}
	srv := &http.Server{
		Addr:              e.Config.Webserver.ListenAddress,
		Handler:           newRouter(e),
		ReadHeaderTimeout: e.Config.Webserver.ReadTimeout,
		ReadTimeout:       e.Config.Webserver.ReadTimeout,
		WriteTimeout:      e.Config.Webserver.WriteTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof(log.WebserverSys, "HTTP REST server support enabled. Listen URL: http://%s", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info(log.WebserverSys, "HTTP REST server shutting down")
	return srv.Shutdown(shutdownCtx)
}
