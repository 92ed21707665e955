package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// taxonomyRow is one category as printed by the taxonomy command.
type taxonomyRow struct {
	Category   string  `yaml:"category"`
	Severity   int     `yaml:"severity"`
	TypeFactor float64 `yaml:"type_factor"`
	Weight     float64 `yaml:"weight"`
	Label      string  `yaml:"label"`
}

// taxonomyDoc is the YAML document printed by the taxonomy command.
type taxonomyDoc struct {
	MaxWeight  float64       `yaml:"max_weight"`
	Categories []taxonomyRow `yaml:"categories"`
}

// NewTaxonomyCmd creates the taxonomy command.
func NewTaxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Print the issue categories and their weights",
		Long: `Taxonomy prints the issue categories used for scoring as YAML, with the
overrides of the configuration file applied.

A category's weight is severity times type factor. Each finding costs
points in proportion to its weight relative to the largest weight.`,
		Args: cobra.NoArgs,
		RunE: runTaxonomyCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .a11yscan in current or home directory)")

	return cmd
}

func runTaxonomyCmd(cmd *cobra.Command, _ []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(v.GetBool("verbose"))

	cf, err := loadConfigFile(v.GetString("config"))
	if err != nil {
		return err
	}
	sc, err := newScoring(cf, logger)
	if err != nil {
		return err
	}

	doc := taxonomyDoc{
		MaxWeight:  sc.taxonomy.MaxWeight(),
		Categories: make([]taxonomyRow, 0, sc.taxonomy.Len()),
	}
	for _, e := range sc.taxonomy.Entries() {
		doc.Categories = append(doc.Categories, taxonomyRow{
			Category:   e.Category,
			Severity:   int(e.Severity),
			TypeFactor: e.TypeFactor,
			Weight:     e.Weight(),
			Label:      e.Label,
		})
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode taxonomy: %w", err)
	}
	return enc.Close()
}
