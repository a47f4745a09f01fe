package formatter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/desertthunder/genrex/internal/taxonomy"
	th "github.com/desertthunder/genrex/internal/testing"
)

func sampleRows() []models.TrackRow {
	return []models.TrackRow{
		{
			Year:           "2023",
			PlaylistFolder: "Summer",
			Playlist:       "Beach",
			Track:          "Song One",
			Album:          "Album One",
			Artist:         "Artist One",
			Duration:       185000,
			Time:           "3:05",
			TrackNumber:    0,
			Author:         "alice",
		},
		{
			Year:           "2023",
			PlaylistFolder: "Summer",
			Playlist:       "Beach",
			Track:          "Song, Two",
			Album:          "Album Two",
			Artist:         "Artist Two",
			Duration:       240000,
			Time:           "4:00",
			Genre:          "Jazz",
			TrackNumber:    1,
			Author:         "alice",
		},
	}
}

func TestCSV(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRows())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(lines))
		}

		if lines[0] != "year,playlistFolder,playlist,track,album,artist,albumArtist,duration,time,genre,trackNumber,author" {
			t.Errorf("unexpected headers: %s", lines[0])
		}
		if lines[1] != "2023,Summer,Beach,Song One,Album One,Artist One,,185000,3:05,,0,alice" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.Contains(lines[2], `"Song, Two"`) {
			t.Errorf("expected quoted track with comma, got: %s", lines[2])
		}
	})

	t.Run("ExportToCSVEmpty", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		if strings.Count(string(data), "\n") != 1 {
			t.Errorf("expected header only, got: %s", data)
		}
	})

	t.Run("WriteCSVFailingWriter", func(t *testing.T) {
		if err := WriteCSV(&th.FWriter{}, sampleRows()); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		data, err := ExportToCSV(sampleRows())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		rows, err := ParseCSV(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("ParseCSV failed: %v", err)
		}

		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[1] != sampleRows()[1] {
			t.Errorf("expected %+v, got %+v", sampleRows()[1], rows[1])
		}
	})

	t.Run("ParseByHeaderName", func(t *testing.T) {
		input := "\ufeffgenre, artist ,track,extra\n,Radiohead,Creep,x\nRock/Pop,Blur,Song 2,y\n"

		rows, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ParseCSV failed: %v", err)
		}

		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0].Artist != "Radiohead" || rows[0].Track != "Creep" || rows[0].Genre != "" {
			t.Errorf("unexpected first row %+v", rows[0])
		}
		if rows[1].Genre != "Rock/Pop" {
			t.Errorf("expected genre Rock/Pop, got %q", rows[1].Genre)
		}
	})

	t.Run("ParseShortRecords", func(t *testing.T) {
		rows, err := ParseCSV(strings.NewReader("artist,track,genre\nA,B\n"))
		if err != nil {
			t.Fatalf("ParseCSV failed: %v", err)
		}
		if len(rows) != 1 || rows[0].Track != "B" {
			t.Errorf("unexpected rows %+v", rows)
		}
	})

	t.Run("ParseMissingColumn", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("artist,album\nA,B\n"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), `"track"`) {
			t.Errorf("error should name the missing column, got %v", err)
		}
	})

	t.Run("ParseEmpty", func(t *testing.T) {
		if _, err := ParseCSV(strings.NewReader("")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ParseMalformed", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("artist,track\n\"unterminated,B\n"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestCSVFiles(t *testing.T) {
	t.Run("WriteThenRead", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out", "tracks_enriched.csv")

		if err := WriteCSVFile(path, sampleRows()); err != nil {
			t.Fatalf("WriteCSVFile failed: %v", err)
		}

		th.AssertDirExists(t, filepath.Join(dir, "out"))
		th.AssertFileExists(t, path)

		content := th.MustReadFile(t, path)
		if !strings.HasPrefix(content, "year,playlistFolder") {
			t.Errorf("unexpected file content: %s", content)
		}

		rows, err := ReadCSVFile(path)
		if err != nil {
			t.Fatalf("ReadCSVFile failed: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("expected 2 rows, got %d", len(rows))
		}
	})

	t.Run("WriteRelativePath", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		if err := WriteCSVFile("Summer_tracks.csv", sampleRows()); err != nil {
			t.Fatalf("WriteCSVFile failed: %v", err)
		}

		th.AssertFileExists(t, filepath.Join(tempDir, "Summer_tracks.csv"))
	})

	t.Run("ReadMissingFile", func(t *testing.T) {
		_, err := ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
		if !errors.Is(err, shared.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("WriteIntoFile", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		if err := WriteCSVFile(filepath.Join(blocker, "tracks.csv"), sampleRows()); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}

func TestEnrichedFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"tracks.csv", "tracks_enriched.csv"},
		{"data/Summer_tracks.csv", "data/Summer_tracks_enriched.csv"},
		{"tracks", "tracks_enriched.csv"},
		{"tracks.txt", "tracks_enriched.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EnrichedFileName(tt.input); got != tt.want {
				t.Errorf("EnrichedFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func sampleBatch() *tasks.BatchResult {
	return &tasks.BatchResult{
		Results: []tasks.ItemResult{
			{Item: tasks.Item{Query: services.TrackQuery{Artist: "A", Track: "One"}}, Genre: "Jazz", Status: tasks.StatusResolved},
			{Item: tasks.Item{Query: services.TrackQuery{Artist: "B", Track: "Two"}}, Genre: "Unknown", Status: tasks.StatusUnknown},
			{
				Item:   tasks.Item{Query: services.TrackQuery{Artist: "C", Track: "Three"}},
				Genre:  tasks.GenreError,
				Status: tasks.StatusError,
				Err:    shared.ErrTimeout,
			},
		},
		Resolved: 1,
		Unknown:  1,
		Failed:   1,
		Total:    3,
	}
}

func TestReports(t *testing.T) {
	t.Run("ExportSummary", func(t *testing.T) {
		summary := ExportSummary(sampleBatch())

		for _, want := range []string{"Processed: 3", "Resolved: 1", "Unknown: 1", "Failed: 1"} {
			if !strings.Contains(summary, want) {
				t.Errorf("summary missing %q: %s", want, summary)
			}
		}
		if strings.Contains(summary, "Stored") {
			t.Errorf("summary should omit storage when nothing was stored: %s", summary)
		}
	})

	t.Run("ExportSummaryStored", func(t *testing.T) {
		res := sampleBatch()
		res.Stored = 1
		res.StoreFailed = 2

		summary := ExportSummary(res)
		if !strings.Contains(summary, "Stored: 1") || !strings.Contains(summary, "Store failures: 2") {
			t.Errorf("unexpected summary: %s", summary)
		}
	})

	t.Run("WriteFailures", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteFailures(&buf, sampleBatch()); err != nil {
			t.Fatalf("WriteFailures failed: %v", err)
		}

		if !strings.Contains(buf.String(), "C - Three") {
			t.Errorf("unexpected failures output: %q", buf.String())
		}
		if strings.Contains(buf.String(), "A - One") {
			t.Errorf("resolved items should not be listed: %q", buf.String())
		}
	})

	t.Run("WriteFailuresFailingWriter", func(t *testing.T) {
		if err := WriteFailures(&th.FWriter{}, sampleBatch()); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("WriteHistory", func(t *testing.T) {
		created := time.Date(2024, 1, 2, 3, 4, 0, 0, time.Local)
		resolutions := []*models.Resolution{
			models.RestoreResolution("id-2", 2, models.ResolutionParams{
				Artist: "Miles Davis", Track: "So What", Genre: "Jazz",
				Status: models.StatusResolved, Stage: "track", Tag: "jazz", Source: "genre",
			}, created),
			models.RestoreResolution("id-1", 1, models.ResolutionParams{
				Artist: "X", Track: "Y", Genre: tasks.GenreError,
				Status: models.StatusError, Stage: "none", Error: "boom", Source: "enrich",
			}, created),
		}

		var buf bytes.Buffer
		if err := WriteHistory(&buf, resolutions); err != nil {
			t.Fatalf("WriteHistory failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d: %q", len(lines), buf.String())
		}
		if !strings.HasPrefix(lines[0], "#") || !strings.Contains(lines[0], "GENRE") {
			t.Errorf("unexpected header %q", lines[0])
		}
		if !strings.Contains(lines[1], "Miles Davis") || !strings.Contains(lines[1], "2024-01-02 03:04") {
			t.Errorf("unexpected row %q", lines[1])
		}
		if !strings.Contains(lines[2], "error (boom)") {
			t.Errorf("error rows should include the message, got %q", lines[2])
		}
	})

	t.Run("WriteHistoryLimitedWriter", func(t *testing.T) {
		var buf bytes.Buffer
		limited := th.NewLimitedWriter(0, 0, &buf)

		resolutions := []*models.Resolution{
			models.NewResolution(1, models.ResolutionParams{Artist: "A", Track: "B", Genre: "Jazz", Status: models.StatusResolved}),
		}
		if err := WriteHistory(&limited, resolutions); err == nil {
			t.Error("expected error from limited writer")
		}
	})
}

func TestTaxonomyExports(t *testing.T) {
	table := taxonomy.MustTable(taxonomy.Definition{
		{Genre: "Jazz", Aliases: []string{"jazz", "bebop"}},
		{Genre: "Blues", Aliases: []string{"blues"}},
	})

	t.Run("Text", func(t *testing.T) {
		out := string(ExportTaxonomyText(table))

		if !strings.HasPrefix(out, "Jazz (2)\n  jazz, bebop\n") {
			t.Errorf("unexpected text output: %q", out)
		}
		if !strings.Contains(out, "2 genres, 3 aliases") {
			t.Errorf("missing totals: %q", out)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		out := string(ExportTaxonomyMarkdown(table))

		for _, want := range []string{"# Genre Taxonomy", "**Genres**: 2", "**Aliases**: 3", "## Jazz", "- bebop", "## Blues"} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown missing %q: %s", want, out)
			}
		}
	})
}
