package source

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/quill/internal/listbox"
	"github.com/dshills/quill/internal/popover"
)

//go:embed data/*.json
var fixtures embed.FS

// Definition names a fixture file and how to read it.
type Definition struct {
	Name   string
	File   string
	Schema Schema
}

// Builtin are the demo catalogs shipped with the binary.
var Builtin = []Definition{
	{
		Name: "users",
		File: "data/users.json",
		Schema: Schema{
			List:   "results",
			Value:  "login.uuid",
			Label:  []string{"name.last", "name.first"},
			Detail: "email",
		},
	},
	{
		Name: "products",
		File: "data/products.json",
		Schema: Schema{
			List:   "products",
			Value:  "id",
			Label:  []string{"title"},
			Group:  "category",
			Detail: "brand",
		},
	},
}

// Set holds loaded catalogs by name, along with the error of every
// definition that failed to load.
type Set struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
	errs     map[string]error
}

// LoadBuiltin loads the embedded demo catalogs.
func LoadBuiltin(ctx context.Context, opts ...CatalogOption) (*Set, error) {
	return Load(ctx, fixtures, Builtin, opts...)
}

// Load reads and parses every definition concurrently. Failed definitions
// do not stop the others: the returned set is always usable, and the
// error joins every individual failure.
func Load(ctx context.Context, fsys fs.FS, defs []Definition, opts ...CatalogOption) (*Set, error) {
	s := &Set{
		catalogs: make(map[string]*Catalog),
		errs:     make(map[string]error),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, def := range defs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := load(fsys, def, opts...)
			s.mu.Lock()
			defer s.mu.Unlock()
			if err != nil {
				s.errs[def.Name] = err
				return nil
			}
			s.catalogs[def.Name] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return s, err
	}

	names := make([]string, 0, len(s.errs))
	for name := range s.errs {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		errs = append(errs, s.errs[name])
	}
	return s, errors.Join(errs...)
}

func load(fsys fs.FS, def Definition, opts ...CatalogOption) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, def.File)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", def.Name, err)
	}
	c, err := Parse(def.Name, data, def.Schema, opts...)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", def.Name, err)
	}
	return c, nil
}

// Catalog returns the catalog with name.
func (s *Set) Catalog(name string) (*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.catalogs[name]; ok {
		return c, nil
	}
	if err, ok := s.errs[name]; ok {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
}

// Names returns the names of the loaded catalogs, sorted.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.catalogs))
	for name := range s.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Searcher returns a popover searcher for the named catalog. When the
// catalog could not be loaded every search fails with the load error, so
// the failure shows up where the user asked for the data.
func (s *Set) Searcher(name string) popover.Searcher {
	return popover.SearchFunc(func(ctx context.Context, query string) ([]listbox.Item, error) {
		c, err := s.Catalog(name)
		if err != nil {
			return nil, err
		}
		return c.Search(ctx, query)
	})
}
