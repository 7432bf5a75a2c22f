package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"github.com/dshills/quill/internal/listbox"
)

// Schema describes where the fields of a record live in a JSON document.
// All fields are gjson paths; List is relative to the document, the rest
// are relative to a record.
type Schema struct {
	List   string
	Value  string
	Label  []string
	Group  string
	Detail string
}

// Record is one searchable entry of a catalog.
type Record struct {
	Value  string
	Label  string
	Group  string
	Detail string
}

// Catalog is an in-memory searchable set of records.
type Catalog struct {
	name    string
	records []Record
	labels  []string

	limit  int
	delay  time.Duration
	flight singleflight.Group
	logger *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLimit caps the number of results per search.
func WithLimit(n int) CatalogOption {
	return func(c *Catalog) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithDelay simulates a slow backend.
func WithDelay(d time.Duration) CatalogOption {
	return func(c *Catalog) {
		c.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// Parse builds a catalog from a JSON document.
func Parse(name string, data []byte, schema Schema, opts ...CatalogOption) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s: invalid json", ErrMalformed, name)
	}
	list := gjson.GetBytes(data, schema.List)
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: %s: %q is not an array", ErrMalformed, name, schema.List)
	}

	c := &Catalog{
		name:   name,
		limit:  10,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("source", name)

	seen := make(map[string]bool)
	list.ForEach(func(_, rec gjson.Result) bool {
		value := rec.Get(schema.Value).String()
		if value == "" || seen[value] {
			return true
		}
		seen[value] = true

		parts := make([]string, 0, len(schema.Label))
		for _, p := range schema.Label {
			if s := rec.Get(p).String(); s != "" {
				parts = append(parts, s)
			}
		}
		label := strings.Join(parts, " ")
		if label == "" {
			label = value
		}

		r := Record{Value: value, Label: label}
		if schema.Group != "" {
			r.Group = rec.Get(schema.Group).String()
		}
		if schema.Detail != "" {
			r.Detail = rec.Get(schema.Detail).String()
		}
		c.records = append(c.records, r)
		c.labels = append(c.labels, label)
		return true
	})

	return c, nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Record returns the record with value.
func (c *Catalog) Record(value string) (Record, bool) {
	i := slices.IndexFunc(c.records, func(r Record) bool { return r.Value == value })
	if i < 0 {
		return Record{}, false
	}
	return c.records[i], true
}

// Search returns the records whose label fuzzily matches query, best
// match first. An empty query yields no results. Concurrent searches for
// the same query share one lookup; ctx only abandons the wait.
func (c *Catalog) Search(ctx context.Context, query string) ([]listbox.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	ch := c.flight.DoChan(strings.ToLower(query), func() (any, error) {
		if c.delay > 0 {
			time.Sleep(c.delay)
		}
		return c.rank(query), nil
	})

	select {
	case <-ctx.Done():
		c.logger.Debug("search abandoned", "query", query)
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		items, _ := res.Val.([]listbox.Item)
		return slices.Clone(items), nil
	}
}

func (c *Catalog) rank(query string) []listbox.Item {
	ranks := fuzzy.RankFindFold(query, c.labels)
	sort.Stable(ranks)

	items := make([]listbox.Item, 0, min(len(ranks), c.limit))
	for _, r := range ranks {
		if len(items) == c.limit {
			break
		}
		rec := c.records[r.OriginalIndex]
		items = append(items, listbox.Item{
			Value:  rec.Value,
			Label:  rec.Label,
			Group:  rec.Group,
			Detail: rec.Detail,
		})
	}
	c.logger.Debug("search", "query", query, "matches", len(ranks), "returned", len(items))
	return items
}
