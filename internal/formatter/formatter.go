// package formatter reads and writes plan files and exports scheduled playlists to various formats (plain text, CSV, Markdown, JSON)
package formatter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/shared"
)

// now is replaced in tests.
var now = time.Now

// ReadPlan decodes and validates a TOML plan file.
func ReadPlan(path string) (*models.Plan, error) {
	var plan models.Plan
	if _, err := toml.DecodeFile(path, &plan); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlanNotFound, path)
		}
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}

	if plan.Entries == nil {
		plan.Entries = []models.PlanEntry{}
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &plan, nil
}

// EncodePlan writes plan as TOML.
func EncodePlan(w io.Writer, plan *models.Plan) error {
	if err := toml.NewEncoder(w).Encode(plan); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return nil
}

// WritePlan validates plan and writes it to path, replacing any existing file.
func WritePlan(plan *models.Plan, path string) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodePlan(&buf, plan); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// ExportToText renders a playlist as a commented header followed by one track label per line.
func ExportToText(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Playlist: %s\n", playlist.Name)
	fmt.Fprintf(&buf, "# Generated by looper (%s, gap %d%s)\n", playlist.Mode, playlist.Gap, fallbackNote(playlist))
	fmt.Fprintf(&buf, "# Timestamp: %s\n\n", now().Format(time.RFC3339))

	for _, line := range textLines(playlist) {
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// textLines returns one line per track. Tracks that share a label but not a key get the key
// appended, so a read-back schedule keeps the identities the engine spaced.
func textLines(playlist *models.Playlist) []string {
	keys := make(map[string]map[string]bool)
	for _, t := range playlist.Tracks {
		label := t.Label()
		if keys[label] == nil {
			keys[label] = make(map[string]bool)
		}
		keys[label][t.Key()] = true
	}

	lines := make([]string, len(playlist.Tracks))
	for i, t := range playlist.Tracks {
		lines[i] = t.Label()
		if len(keys[lines[i]]) > 1 {
			lines[i] += " [" + t.Key() + "]"
		}
	}
	return lines
}

// ReadText reads track labels back from a text export, skipping blank and comment lines.
func ReadText(r io.Reader) ([]string, error) {
	var labels []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist text: %w", err)
	}
	return labels, nil
}

// ExportToCSV converts a playlist to CSV format with columns: Position, ID, Title, Artist
func ExportToCSV(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range playlist.Tracks {
		record := []string{
			strconv.Itoa(i + 1),
			track.Key(),
			track.Title,
			track.Artist,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to a Markdown document with a numbered track list
func ExportToMarkdown(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlist.Name)

	if playlist.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", playlist.Description)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(playlist.Tracks))
	fmt.Fprintf(&buf, "**Mode**: %s\n", playlist.Mode)
	fmt.Fprintf(&buf, "**Gap**: %d%s\n\n", playlist.Gap, fallbackNote(playlist))

	buf.WriteString("## Tracks\n\n")
	for i, label := range playlist.Labels() {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, label)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the playlist and its settings as indented JSON
func ExportToJSON(playlist *models.Playlist) ([]byte, error) {
	data, err := shared.MarshalJSON(playlist, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders playlist in the named format. See [shared.Formats].
func Export(playlist *models.Playlist, format string) ([]byte, error) {
	switch format {
	case "txt":
		return ExportToText(playlist)
	case "csv":
		return ExportToCSV(playlist)
	case "markdown":
		return ExportToMarkdown(playlist)
	case "json":
		return ExportToJSON(playlist)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// Extension returns the file extension, with dot, used for format.
func Extension(format string) string {
	switch format {
	case "markdown":
		return ".md"
	default:
		return "." + format
	}
}

// SanitizeFilename replaces characters that are not allowed in file names.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// WriteExport exports a playlist to path in the given format.
//
// When path is empty the file is written to dir as {sanitized name}{extension}.
// Returns the path written.
func WriteExport(playlist *models.Playlist, format, dir, path string) (string, error) {
	data, err := Export(playlist, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		name := SanitizeFilename(playlist.Name)
		if name == "" {
			name = "playlist"
		}
		path = filepath.Join(dir, name+Extension(format))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func fallbackNote(playlist *models.Playlist) string {
	if playlist.Fallback {
		return ", fallback"
	}
	return ""
}

// WriteManifest writes v as indented JSON to path, creating parent directories.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
