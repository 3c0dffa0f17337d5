package scraper

import (
	"fmt"
	"sort"
	"strings"
)

// Entry binds an organization to its scraper and capability flags.
// The registry is assembled at startup; nothing is loaded from disk.
type Entry struct {
	Abbrev  string
	Name    string
	Scraper Scraper

	// PlaywrightDetail forces browser rendering for detail pages.
	PlaywrightDetail bool

	// ProvidesFullDescription marks scrapers whose listings already embed
	// the complete posting, letting the runner skip the fetch entirely.
	ProvidesFullDescription bool
}

type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

func (r *Registry) Register(e Entry) error {
	key := strings.ToUpper(e.Abbrev)
	if key == "" {
		return fmt.Errorf("registry entry missing abbrev (org %q)", e.Name)
	}
	if _, dup := r.entries[key]; dup {
		return fmt.Errorf("duplicate registry entry %s", key)
	}
	r.entries[key] = e
	return nil
}

func (r *Registry) Find(abbrev string) (Entry, bool) {
	e, ok := r.entries[strings.ToUpper(abbrev)]
	return e, ok
}

// All returns the entries sorted by abbreviation for deterministic runs.
func (r *Registry) All() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbrev < out[j].Abbrev })
	return out
}
