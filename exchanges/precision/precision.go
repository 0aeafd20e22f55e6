package precision

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/common"
	"github.com/thrasher-corp/pricetrace/common/math"
	"github.com/thrasher-corp/pricetrace/log"
)

// DefaultPrecision is used for truncation when a symbol is unknown
const DefaultPrecision = 2

// ErrSymbolNotFound is returned when exchange metadata has no entry for a
// symbol
var ErrSymbolNotFound = errors.New("symbol not found in exchange metadata")

var errNilFetcher = errors.New("precision fetcher is nil")

// Fetcher returns the price precision of every listed symbol
type Fetcher interface {
	FetchPricePrecisions(ctx context.Context) (map[string]int, error)
}

// Cache lazily loads price precisions once and serves them for its lifetime.
// A failed load is not remembered.
type Cache struct {
	fetcher          Fetcher
	defaultPrecision int

	mu         sync.RWMutex
	precisions map[string]int
}

// NewCache returns a Cache backed by f
func NewCache(f Fetcher, defaultPrecision int) *Cache {
	if defaultPrecision < 0 {
		defaultPrecision = DefaultPrecision
	}
	return &Cache{fetcher: f, defaultPrecision: defaultPrecision}
}

func (c *Cache) load(ctx context.Context) (map[string]int, error) {
	c.mu.RLock()
	p := c.precisions
	c.mu.RUnlock()
	if p != nil {
		return p, nil
	}
	if c.fetcher == nil {
		return nil, errNilFetcher
	}

	// Fetched outside the lock; concurrent first callers may both fetch and
	// the last one to finish is kept
	fetched, err := c.fetcher.FetchPricePrecisions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading price precisions: %w", err)
	}
	if fetched == nil {
		fetched = map[string]int{}
	}
	c.mu.Lock()
	c.precisions = fetched
	c.mu.Unlock()
	log.Debugf(log.ExchangeSys, "price precision cache loaded %d symbols", len(fetched))
	return fetched, nil
}

// GetPrecision returns the price precision for symbol
func (c *Cache) GetPrecision(ctx context.Context, symbol string) (int, error) {
	s, err := common.FormatSymbol(symbol)
	if err != nil {
		return 0, err
	}
	p, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	prec, ok := p[s]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, s)
	}
	return prec, nil
}

// GetAllPrecisions returns a copy of the full precision map
func (c *Cache) GetAllPrecisions(ctx context.Context) (map[string]int, error) {
	p, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(p), nil
}

// Truncate cuts price down to the symbol precision without rounding. An
// unknown symbol uses the cache default; any other failure is returned.
func (c *Cache) Truncate(ctx context.Context, symbol string, price decimal.Decimal) (decimal.Decimal, error) {
	prec, err := c.GetPrecision(ctx, symbol)
	switch {
	case errors.Is(err, ErrSymbolNotFound):
		prec = c.defaultPrecision
	case err != nil:
		return decimal.Decimal{}, err
	}
	return math.TruncateToPrecision(price, prec), nil
}
