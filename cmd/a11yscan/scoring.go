package main

import (
	"fmt"
	"log/slog"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/aggregate"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/canon"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/config"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/score"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/taxonomy"
)

// loadConfigFile loads the .a11yscan file. An explicitly given path must
// exist; otherwise a missing file yields an empty configuration.
func loadConfigFile(path string) (*config.File, error) {
	found := config.FindConfigFile(path)
	if found == "" {
		if path != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
		}
		return &config.File{Sites: make(map[string]config.SiteConfig)}, nil
	}

	cf, err := config.LoadConfigFile(found)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
	}
	return cf, nil
}

// scoring bundles the taxonomy-dependent components of a run. They are
// built once and shared read-only.
type scoring struct {
	taxonomy   *taxonomy.Taxonomy
	canon      *canon.Canonicalizer
	aggregator *aggregate.Aggregator
	scorer     *score.Scorer
}

// newScoring builds the taxonomy with the overrides of cf and the
// components that depend on it.
func newScoring(cf *config.File, logger *slog.Logger) (*scoring, error) {
	tax, err := taxonomy.New(cf.TaxonomyOptions()...)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy override: %w", err)
	}
	c := canon.New(canon.WithTaxonomy(tax))

	return &scoring{
		taxonomy: tax,
		canon:    c,
		aggregator: aggregate.New(
			aggregate.WithTaxonomy(tax),
			aggregate.WithCanonicalizer(c),
			aggregate.WithLogger(logger),
		),
		scorer: score.New(score.WithTaxonomy(tax), score.WithCanonicalizer(c)),
	}, nil
}
