// package formatter renders albums, media items and sync runs as plain text, JSON, CSV or Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// Format names an output format accepted by the --format flag.
type Format string

const (
	Text     Format = "text"
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
)

// Formats lists every supported [Format].
var Formats = []Format{Text, JSON, CSV, Markdown}

// ParseFormat maps a flag value to a [Format]. Empty values default to [Text].
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", Text:
		return Text, nil
	case JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	case Markdown, "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("%w: format %q (expected one of %v)", shared.ErrInvalidFlag, s, Formats)
	}
}

// FormatAlbums renders albums in format f.
func FormatAlbums(albums []models.Album, f Format) ([]byte, error) {
	switch f {
	case JSON:
		if albums == nil {
			albums = []models.Album{}
		}
		return shared.MarshalJSON(albums, true)
	case CSV:
		return AlbumsToCSV(albums)
	case Markdown:
		return AlbumsToMarkdown(albums), nil
	default:
		return AlbumsToText(albums), nil
	}
}

// FormatMedia renders the contents of album in format f.
func FormatMedia(album string, items []models.MediaItem, f Format) ([]byte, error) {
	switch f {
	case JSON:
		if items == nil {
			items = []models.MediaItem{}
		}
		return shared.MarshalJSON(items, true)
	case CSV:
		return MediaToCSV(items)
	case Markdown:
		return MediaToMarkdown(album, items), nil
	default:
		return MediaToText(album, items), nil
	}
}

// FormatRuns renders sync run history in format f.
func FormatRuns(runs []*models.SyncRun, f Format) ([]byte, error) {
	switch f {
	case JSON:
		records := make([]RunRecord, len(runs))
		for i, r := range runs {
			records[i] = NewRunRecord(r)
		}
		return shared.MarshalJSON(records, true)
	case CSV:
		return RunsToCSV(runs)
	default:
		return RunsToText(runs), nil
	}
}

// AlbumsToCSV converts albums to CSV with columns: ID, Title, Items, Shared, Writeable, URL
func AlbumsToCSV(albums []models.Album) ([]byte, error) {
	records := [][]string{{"ID", "Title", "Items", "Shared", "Writeable", "URL"}}
	for _, a := range albums {
		records = append(records, []string{
			a.ID,
			a.Title,
			strconv.FormatInt(a.MediaItemsCount, 10),
			strconv.FormatBool(a.Shared),
			strconv.FormatBool(a.Writeable),
			a.ProductURL,
		})
	}
	return writeCSV(records)
}

// AlbumsToMarkdown converts albums to a Markdown table.
func AlbumsToMarkdown(albums []models.Album) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Albums\n\n")
	fmt.Fprintf(&buf, "**Albums**: %d\n\n", len(albums))
	if len(albums) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| Title | Items | Shared | ID |\n")
	buf.WriteString("| --- | ---: | --- | --- |\n")
	for _, a := range albums {
		title := escapeCell(a.DisplayTitle())
		if a.ProductURL != "" {
			title = fmt.Sprintf("[%s](%s)", title, a.ProductURL)
		}
		fmt.Fprintf(&buf, "| %s | %d | %s | `%s` |\n", title, a.MediaItemsCount, yesNo(a.Shared), a.ID)
	}

	return buf.Bytes()
}

// AlbumsToText converts albums to one line per album.
func AlbumsToText(albums []models.Album) []byte {
	var buf bytes.Buffer

	if len(albums) == 0 {
		buf.WriteString("No albums found.\n")
		return buf.Bytes()
	}

	for i, a := range albums {
		fmt.Fprintf(&buf, "%d. %s (%d items)\n   %s\n", i+1, a.DisplayTitle(), a.MediaItemsCount, a.ID)
	}
	fmt.Fprintf(&buf, "\nAlbums: %d\n", len(albums))

	return buf.Bytes()
}

// MediaToCSV converts media items to CSV with columns: ID, Filename, MimeType, CreationTime
func MediaToCSV(items []models.MediaItem) ([]byte, error) {
	records := [][]string{{"ID", "Filename", "MimeType", "CreationTime"}}
	for _, m := range items {
		records = append(records, []string{m.ID, m.Filename, m.MimeType, formatTime(m.CreationTime)})
	}
	return writeCSV(records)
}

// MediaToMarkdown converts the contents of album to a Markdown list.
func MediaToMarkdown(album string, items []models.MediaItem) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", album)
	fmt.Fprintf(&buf, "**Items**: %d\n\n", len(items))

	for i, m := range items {
		fmt.Fprintf(&buf, "%d. %s `%s` [%s]\n", i+1, displayName(m), m.MimeType, formatTime(m.CreationTime))
	}

	return buf.Bytes()
}

// MediaToText converts the contents of album to plain text.
func MediaToText(album string, items []models.MediaItem) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Album: %s\n", album)
	fmt.Fprintf(&buf, "Items: %d\n\n", len(items))

	for i, m := range items {
		fmt.Fprintf(&buf, "%d. %s (%s, %s)\n", i+1, displayName(m), m.MimeType, formatTime(m.CreationTime))
	}

	return buf.Bytes()
}

// RunRecord is the JSON form of a [models.SyncRun].
type RunRecord struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"sequence"`
	Behavior    string    `json:"behavior"`
	Source      string    `json:"source_album_id"`
	Destination string    `json:"dest_album_id"`
	Count       int       `json:"count"`
	Selected    int       `json:"selected"`
	ToAdd       int       `json:"to_add"`
	ToRemove    int       `json:"to_remove"`
	DryRun      bool      `json:"dry_run"`
	RemoveError string    `json:"remove_error,omitempty"`
	AddError    string    `json:"add_error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

func NewRunRecord(r *models.SyncRun) RunRecord {
	return RunRecord{
		ID:          r.ID(),
		Sequence:    r.Sequence(),
		Behavior:    r.Behavior(),
		Source:      r.SourceAlbumID(),
		Destination: r.DestAlbumID(),
		Count:       r.Count(),
		Selected:    r.Selected(),
		ToAdd:       r.ToAdd(),
		ToRemove:    r.ToRemove(),
		DryRun:      r.DryRun(),
		RemoveError: r.RemoveError(),
		AddError:    r.AddError(),
		StartedAt:   r.StartedAt(),
		FinishedAt:  r.FinishedAt(),
	}
}

// RunsToCSV converts sync runs to CSV, newest first as given.
func RunsToCSV(runs []*models.SyncRun) ([]byte, error) {
	records := [][]string{{"Sequence", "Behavior", "Source", "Destination", "Added", "Removed", "DryRun", "Status", "StartedAt"}}
	for _, r := range runs {
		records = append(records, []string{
			strconv.Itoa(r.Sequence()),
			r.Behavior(),
			r.SourceAlbumID(),
			r.DestAlbumID(),
			strconv.Itoa(r.ToAdd()),
			strconv.Itoa(r.ToRemove()),
			strconv.FormatBool(r.DryRun()),
			status(r),
			formatTime(r.StartedAt()),
		})
	}
	return writeCSV(records)
}

// RunsToText converts sync runs to one block per run.
func RunsToText(runs []*models.SyncRun) []byte {
	var buf bytes.Buffer

	if len(runs) == 0 {
		buf.WriteString("No sync runs recorded.\n")
		return buf.Bytes()
	}

	for _, r := range runs {
		fmt.Fprintf(&buf, "#%d %s %s (%s)\n", r.Sequence(), formatTime(r.StartedAt()), r.Behavior(), status(r))
		fmt.Fprintf(&buf, "   %s -> %s: +%d -%d of %d selected\n",
			r.SourceAlbumID(), r.DestAlbumID(), r.ToAdd(), r.ToRemove(), r.Selected())
		if e := r.RemoveError(); e != "" {
			fmt.Fprintf(&buf, "   remove failed: %s\n", e)
		}
		if e := r.AddError(); e != "" {
			fmt.Fprintf(&buf, "   add failed: %s\n", e)
		}
	}

	return buf.Bytes()
}

// WriteExport writes rendered output to path, creating parent directories.
func WriteExport(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func status(r *models.SyncRun) string {
	switch {
	case r.DryRun():
		return "dry run"
	case r.Succeeded():
		return "ok"
	default:
		return "failed"
	}
}

func displayName(m models.MediaItem) string {
	if m.Filename != "" {
		return m.Filename
	}
	return m.ID
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
