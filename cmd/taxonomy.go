package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/taxonomy"
	"github.com/urfave/cli/v3"
)

// TaxonomyShow lists the configured taxonomy.
func (r *Runner) TaxonomyShow(ctx context.Context, cmd *cli.Command) error {
	table, err := r.taxonomyTable()
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(table.Definition(), cmd.Bool("pretty"))
	case cmd.Bool("markdown"):
		return r.writePlain("%s", formatter.ExportTaxonomyMarkdown(table))
	default:
		return r.writePlain("%s", formatter.ExportTaxonomyText(table))
	}
}

// TaxonomyCheck validates a definition file and reports every conflicting alias.
func (r *Runner) TaxonomyCheck(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("file"))
	if path == "" {
		return fmt.Errorf("%w: usage: genrex taxonomy check <file.toml>", shared.ErrMissingArgument)
	}

	def, err := taxonomy.LoadDefinition(path)
	if err != nil {
		return err
	}

	table, err := taxonomy.NewTable(def)
	var ambiguous *taxonomy.AmbiguousAliasError
	if errors.As(err, &ambiguous) {
		r.writePlain("✗ %s: %d conflicting aliases\n", path, len(ambiguous.Conflicts))
		for _, c := range ambiguous.Conflicts {
			names := make([]string, len(c.Genres))
			for i, g := range c.Genres {
				names[i] = g.String()
			}
			r.writePlain("  %q → %s\n", c.Alias, strings.Join(names, ", "))
		}
		return err
	}
	if err != nil {
		r.writePlain("✗ %s: %v\n", path, err)
		return err
	}

	r.writePlain("✓ %s: %d genres, %d aliases\n", path, len(table.Genres()), table.Len())
	return nil
}

// TaxonomyExport writes the built-in definition as TOML.
func (r *Runner) TaxonomyExport(ctx context.Context, cmd *cli.Command) error {
	data, err := taxonomy.EncodeDefinition(taxonomy.Default())
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return r.writePlain("%s", data)
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write taxonomy: %w", err)
	}
	r.logger.Info("taxonomy written", "path", output)
	return nil
}
