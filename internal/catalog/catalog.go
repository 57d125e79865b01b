package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"
)

// ErrCatalogUnavailable reports a missing or malformed menu source. Callers
// get an empty catalog alongside it and are expected to surface a warning
// rather than abort.
var ErrCatalogUnavailable = errors.New("menu catalog unavailable")

// AllCategories is the sentinel that disables category filtering.
const AllCategories = "All"

type MenuItem struct {
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Item      string  `json:"item"`
	UnitPrice float64 `json:"unit_price"`
}

// Catalog is an immutable snapshot of the menu plus any data-quality
// warnings collected while loading it (unparsable prices coerced to 0).
type Catalog struct {
	Items    []MenuItem `json:"items"`
	Warnings []string   `json:"warnings,omitempty"`
}

func (c *Catalog) Categories() []string {
	seen := map[string]struct{}{}
	for _, it := range c.Items {
		if it.Category != "" {
			seen[it.Category] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

func (c *Catalog) FilterByCategory(cat string) []MenuItem {
	if cat == AllCategories || cat == "" {
		out := make([]MenuItem, len(c.Items))
		copy(out, c.Items)
		return out
	}
	var out []MenuItem
	for _, it := range c.Items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) FindBySKU(sku string) (MenuItem, bool) {
	for _, it := range c.Items {
		if it.SKU == sku {
			return it, true
		}
	}
	return MenuItem{}, false
}

// Loader reads the menu file and caches the result for a short TTL so that
// every UI refresh does not hit the disk. Invalidate drops the cache at once.
type Loader struct {
	path string
	ttl  time.Duration

	mu        sync.Mutex
	cached    *Catalog
	cachedErr error
	cachedAt  time.Time
	now       func() time.Time
}

func NewLoader(path string, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &Loader{path: path, ttl: ttl, now: time.Now}
}

// Load returns the current catalog. On a missing or malformed source it
// returns an empty catalog together with ErrCatalogUnavailable; the empty
// result is still cached so a broken file does not get re-read in a loop.
func (l *Loader) Load() (*Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && l.now().Sub(l.cachedAt) < l.ttl {
		return l.cached, l.cachedErr
	}

	cat, err := readMenu(l.path)
	l.cached = cat
	l.cachedErr = err
	l.cachedAt = l.now()
	return cat, err
}

func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.cachedErr = nil
	l.mu.Unlock()
}

func readMenu(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Catalog{Items: []MenuItem{}}, fmt.Errorf("%w: %s", ErrCatalogUnavailable, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return &Catalog{Items: []MenuItem{}}, fmt.Errorf("%w: malformed csv", ErrCatalogUnavailable)
	}

	idx := headerIndex(records[0])
	for _, col := range []string{"SKU", "Category", "Item", "UnitPrice"} {
		if _, ok := idx[col]; !ok {
			return &Catalog{Items: []MenuItem{}},
				fmt.Errorf("%w: menu must have columns SKU, Category, Item, UnitPrice", ErrCatalogUnavailable)
		}
	}

	cat := &Catalog{Items: make([]MenuItem, 0, len(records)-1)}
	for n, rec := range records[1:] {
		get := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		price, perr := strconv.ParseFloat(get("UnitPrice"), 64)
		if perr != nil || price < 0 {
			// Coerce to zero, but keep a trace of it for the caller.
			cat.Warnings = append(cat.Warnings,
				fmt.Sprintf("row %d (%s): unit price %q coerced to 0", n+2, get("SKU"), get("UnitPrice")))
			price = 0
		}
		cat.Items = append(cat.Items, MenuItem{
			SKU:       get("SKU"),
			Category:  get("Category"),
			Item:      get("Item"),
			UnitPrice: price,
		})
	}
	return cat, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}
