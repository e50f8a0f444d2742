package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/shared"
	th "github.com/desertthunder/autoalbum/internal/testing"
)

func testAlbums() []models.Album {
	return []models.Album{
		{ID: "album1", Title: "Family", MediaItemsCount: 12, ProductURL: "https://photos.example/album1"},
		{ID: "album2", MediaItemsCount: 3, Shared: true},
	}
}

func testRuns() []*models.SyncRun {
	ok := models.NewSyncRun("n-most-recent", "src", "dst", 5)
	ok.SetSequence(2)
	ok.SetStartedAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	ok.SetPlan(5, 2, 1)

	failed := models.NewSyncRun("n-most-recent", "src", "dst", 5)
	failed.SetSequence(1)
	failed.SetPlan(5, 1, 0)
	failed.Finish(time.Date(2024, 6, 1, 12, 1, 0, 0, time.UTC), nil, errors.New("permission denied"))

	return []*models.SyncRun{ok, failed}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"JSON", JSON, false},
		{" csv ", CSV, false},
		{"md", Markdown, false},
		{"markdown", Markdown, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAlbumFormatters(t *testing.T) {
	t.Run("AlbumsToCSV", func(t *testing.T) {
		data, err := AlbumsToCSV(testAlbums())
		if err != nil {
			t.Fatalf("AlbumsToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "ID,Title,Items,Shared,Writeable,URL" {
			t.Errorf("unexpected header: %s", lines[0])
		}
		if !strings.HasPrefix(lines[1], "album1,Family,12,false") {
			t.Errorf("unexpected first row: %s", lines[1])
		}
	})

	t.Run("AlbumsToMarkdown", func(t *testing.T) {
		output := string(AlbumsToMarkdown(testAlbums()))

		if !strings.Contains(output, "**Albums**: 2") {
			t.Errorf("missing album count, got: %s", output)
		}
		if !strings.Contains(output, "[Family](https://photos.example/album1)") {
			t.Errorf("missing linked title, got: %s", output)
		}
		if !strings.Contains(output, "<Unnamed Album with size 3>") {
			t.Errorf("missing placeholder title for untitled album, got: %s", output)
		}
	})

	t.Run("AlbumsToText", func(t *testing.T) {
		output := string(AlbumsToText(testAlbums()))

		if !strings.Contains(output, "1. Family (12 items)") {
			t.Errorf("missing first album, got: %s", output)
		}
		if !strings.Contains(output, "Albums: 2") {
			t.Errorf("missing total, got: %s", output)
		}
	})

	t.Run("AlbumsToText empty", func(t *testing.T) {
		if output := string(AlbumsToText(nil)); output != "No albums found.\n" {
			t.Errorf("unexpected output: %q", output)
		}
	})

	t.Run("FormatAlbums JSON", func(t *testing.T) {
		data, err := FormatAlbums(nil, JSON)
		if err != nil {
			t.Fatalf("FormatAlbums failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("expected empty JSON array, got %s", data)
		}

		data, err = FormatAlbums(testAlbums(), JSON)
		if err != nil {
			t.Fatalf("FormatAlbums failed: %v", err)
		}
		var decoded []models.Album
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[1].ID != "album2" || !decoded[1].Shared {
			t.Errorf("unexpected albums: %+v", decoded)
		}
	})
}

func TestMediaFormatters(t *testing.T) {
	items := []models.MediaItem{
		th.Image("m1", 1),
		th.Video("m2", 2),
	}
	items[0].Filename = "IMG_0001.jpg"

	t.Run("MediaToCSV", func(t *testing.T) {
		data, err := MediaToCSV(items)
		if err != nil {
			t.Fatalf("MediaToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "ID,Filename,MimeType,CreationTime") {
			t.Errorf("missing headers, got: %s", output)
		}
		if !strings.Contains(output, "m1,IMG_0001.jpg,image/jpeg,2024-06-01T12:01:00Z") {
			t.Errorf("missing first item, got: %s", output)
		}
	})

	t.Run("MediaToText", func(t *testing.T) {
		output := string(MediaToText("Family", items))

		if !strings.Contains(output, "Album: Family") || !strings.Contains(output, "Items: 2") {
			t.Errorf("missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. IMG_0001.jpg") {
			t.Errorf("expected filename for first item, got: %s", output)
		}
		if !strings.Contains(output, "2. m2") {
			t.Errorf("expected id for item without filename, got: %s", output)
		}
	})

	t.Run("MediaToMarkdown", func(t *testing.T) {
		output := string(MediaToMarkdown("Family", items))

		if !strings.HasPrefix(output, "# Family\n") {
			t.Errorf("missing title, got: %s", output)
		}
		if !strings.Contains(output, "`video/mp4`") {
			t.Errorf("missing mime type, got: %s", output)
		}
	})
}

func TestRunFormatters(t *testing.T) {
	t.Run("RunsToText", func(t *testing.T) {
		output := string(RunsToText(testRuns()))

		if !strings.Contains(output, "#2 2024-06-01T12:00:00Z n-most-recent (ok)") {
			t.Errorf("missing first run, got: %s", output)
		}
		if !strings.Contains(output, "src -> dst: +2 -1 of 5 selected") {
			t.Errorf("missing plan summary, got: %s", output)
		}
		if !strings.Contains(output, "add failed: permission denied") {
			t.Errorf("missing add failure, got: %s", output)
		}
	})

	t.Run("RunsToText empty", func(t *testing.T) {
		if output := string(RunsToText(nil)); output != "No sync runs recorded.\n" {
			t.Errorf("unexpected output: %q", output)
		}
	})

	t.Run("RunsToCSV", func(t *testing.T) {
		data, err := RunsToCSV(testRuns())
		if err != nil {
			t.Fatalf("RunsToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, ",failed,") {
			t.Errorf("expected failed status, got: %s", output)
		}
	})

	t.Run("FormatRuns JSON", func(t *testing.T) {
		data, err := FormatRuns(testRuns(), JSON)
		if err != nil {
			t.Fatalf("FormatRuns failed: %v", err)
		}

		var records []RunRecord
		if err := json.Unmarshal(data, &records); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].ToAdd != 2 || records[0].ToRemove != 1 {
			t.Errorf("unexpected first record: %+v", records[0])
		}
		if records[1].AddError != "permission denied" {
			t.Errorf("expected add error, got %q", records[1].AddError)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "albums.csv")
		data, err := AlbumsToCSV(testAlbums())
		if err != nil {
			t.Fatalf("AlbumsToCSV failed: %v", err)
		}

		if err := WriteExport(path, data); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertDirExists(t, filepath.Dir(path))
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); content != string(data) {
			t.Errorf("expected written content to match, got %q", content)
		}
	})

	t.Run("relative path", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		if err := WriteExport("albums.md", AlbumsToMarkdown(testAlbums())); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		th.AssertFileExists(t, filepath.Join(tempDir, "albums.md"))
	})

	t.Run("empty path", func(t *testing.T) {
		if err := WriteExport("", nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
