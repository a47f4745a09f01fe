// package formatter reads and writes track CSVs and renders batch, history and taxonomy reports
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/desertthunder/genrex/internal/taxonomy"
)

// Columns every track CSV must carry.
var requiredColumns = []string{"artist", "track"}

// ExportToCSV converts track rows to CSV with [models.TrackHeaders] columns
func ExportToCSV(rows []models.TrackRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV encodes rows to w, header first.
func WriteCSV(w io.Writer, rows []models.TrackRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(models.TrackHeaders); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// ParseCSV decodes a track CSV. Columns are matched by header name so order does not matter;
// unknown columns are ignored and absent ones stay empty. The artist and track columns are required.
func ParseCSV(r io.Reader) ([]models.TrackRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: CSV is empty", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV headers: %v", shared.ErrInvalidInput, err)
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	for _, col := range requiredColumns {
		if !slices.Contains(headers, col) {
			return nil, fmt.Errorf("%w: CSV is missing the %q column", shared.ErrInvalidInput, col)
		}
	}

	var rows []models.TrackRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV record: %v", shared.ErrInvalidInput, err)
		}

		var row models.TrackRow
		for i, value := range record {
			if i < len(headers) {
				row.SetField(headers[i], value)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadCSVFile parses the track CSV at path.
func ReadCSVFile(path string) ([]models.TrackRow, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// WriteCSVFile writes rows to path, creating parent directories as needed.
func WriteCSVFile(path string, rows []models.TrackRow) error {
	data, err := ExportToCSV(rows)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// EnrichedFileName derives the default output path for an enriched CSV: tracks.csv becomes tracks_enriched.csv
func EnrichedFileName(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_enriched.csv"
}

// ExportSummary renders the batch totals as plain text
func ExportSummary(res *tasks.BatchResult) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("Processed: %d\n", res.Total))
	buf.WriteString(fmt.Sprintf("Resolved: %d\n", res.Resolved))
	buf.WriteString(fmt.Sprintf("Unknown: %d\n", res.Unknown))
	buf.WriteString(fmt.Sprintf("Failed: %d\n", res.Failed))
	if res.Stored > 0 || res.StoreFailed > 0 {
		buf.WriteString(fmt.Sprintf("Stored: %d\n", res.Stored))
		if res.StoreFailed > 0 {
			buf.WriteString(fmt.Sprintf("Store failures: %d\n", res.StoreFailed))
		}
	}

	return buf.String()
}

// WriteFailures lists the items that could not be resolved, one per line.
func WriteFailures(w io.Writer, res *tasks.BatchResult) error {
	for _, r := range res.Results {
		if r.Status != tasks.StatusError {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s: %v\n", r.Item.Query, r.Err); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistory renders resolution history as an aligned table.
func WriteHistory(w io.Writer, resolutions []*models.Resolution) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "#\tWHEN\tARTIST\tTRACK\tGENRE\tSTAGE\tSOURCE"); err != nil {
		return err
	}

	for _, r := range resolutions {
		genre := r.Genre()
		if r.Status() == models.StatusError && r.ErrorMessage() != "" {
			genre = fmt.Sprintf("%s (%s)", genre, r.ErrorMessage())
		}

		_, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Sequence(),
			r.CreatedAt().Local().Format("2006-01-02 15:04"),
			r.Artist(),
			r.Track(),
			genre,
			r.Stage(),
			r.Source(),
		)
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

// ExportTaxonomyText lists each genre followed by its aliases
func ExportTaxonomyText(table *taxonomy.Table) []byte {
	var buf bytes.Buffer

	for _, g := range table.Genres() {
		aliases := table.Aliases(g)
		buf.WriteString(fmt.Sprintf("%s (%d)\n", g, len(aliases)))
		buf.WriteString(fmt.Sprintf("  %s\n", strings.Join(aliases, ", ")))
	}
	buf.WriteString(fmt.Sprintf("\n%d genres, %d aliases\n", len(table.Genres()), table.Len()))

	return buf.Bytes()
}

// ExportTaxonomyMarkdown renders the taxonomy as a Markdown document
func ExportTaxonomyMarkdown(table *taxonomy.Table) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Genre Taxonomy\n\n")
	buf.WriteString(fmt.Sprintf("**Genres**: %d\n", len(table.Genres())))
	buf.WriteString(fmt.Sprintf("**Aliases**: %d\n\n", table.Len()))

	for _, g := range table.Genres() {
		buf.WriteString(fmt.Sprintf("## %s\n\n", g))
		for _, alias := range table.Aliases(g) {
			buf.WriteString(fmt.Sprintf("- %s\n", alias))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}
