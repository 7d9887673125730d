package catalog

import (
	"log/slog"
	"sort"

	"immichsync/internal/album"
)

// Catalog is the desired album state built once per run.
type Catalog struct {
	models map[string]*album.Model
}

func newCatalog() *Catalog {
	return &Catalog{models: make(map[string]*album.Model)}
}

// upsert returns the model for name, creating it on first use.
func (c *Catalog) upsert(name string) *album.Model {
	if model, ok := c.models[name]; ok {
		return model
	}
	model := album.New(name)
	c.models[name] = model
	return model
}

// Len reports the number of albums in the catalog.
func (c *Catalog) Len() int {
	return len(c.models)
}

// SortedNames returns the album names in deterministic order.
func (c *Catalog) SortedNames() []string {
	names := make([]string, 0, len(c.models))
	for name := range c.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the model stored under the given derived name.
func (c *Catalog) Get(name string) *album.Model {
	return c.models[name]
}

// ApplyTemplates merges discovered per-folder properties into every album.
// When an album's source folders carry contradicting properties, the merge
// stops at the conflicting field with a warning; the album keeps whatever
// properties it picked up before the conflict and stays in the catalog.
func (c *Catalog) ApplyTemplates(templates *album.TemplateSet, logger *slog.Logger) {
	if templates == nil || templates.Len() == 0 {
		return
	}
	for _, name := range c.SortedNames() {
		model := c.models[name]
		if err := templates.ApplyTo(model); err != nil {
			logger.Warn("ambiguous album properties, keeping the values merged so far", "album", name, "error", err)
		}
	}
}

// ApplyDefaults merges CLI-supplied defaults into fields still unset after
// template merging. Exclusive merging never reports conflicts.
func (c *Catalog) ApplyDefaults(defaults album.Properties) {
	for _, model := range c.models {
		_ = model.Merge(defaults, album.MergeExclusive)
	}
}

// Desired returns the catalog keyed by final (remote-facing) name, the
// shape consumed by the reconciliation engine. When override names collide,
// the first album in derived-name order wins and later ones are dropped
// with a warning.
func (c *Catalog) Desired(logger *slog.Logger) map[string]*album.Model {
	desired := make(map[string]*album.Model, len(c.models))
	for _, name := range c.SortedNames() {
		model := c.models[name]
		finalName := model.FinalName()
		if _, taken := desired[finalName]; taken {
			logger.Warn("duplicate final album name, keeping the first", "album", finalName, "derived_from", name)
			continue
		}
		desired[finalName] = model
	}
	return desired
}
