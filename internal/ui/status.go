package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StatusInfo describes the persisted index for display.
type StatusInfo struct {
	IndexPath         string     `json:"index_path"`
	Indexed           bool       `json:"indexed"`
	TotalFiles        int        `json:"total_files"`
	TotalChunks       int        `json:"total_chunks"`
	IndexSizeBytes    int64      `json:"index_size_bytes"`
	MaxIndexSizeBytes int64      `json:"max_index_size_bytes"`
	LastIndexed       *time.Time `json:"last_indexed,omitempty"`
}

// StatusRenderer displays index status.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
	now    func() time.Time
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:    out,
		styles: GetStyles(noColor),
		now:    time.Now,
	}
}

// Render displays status info to the terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Index Status"))

	state := r.styles.Success.Render("indexed")
	if !info.Indexed {
		state = r.styles.Warning.Render("not indexed")
	}
	_, _ = fmt.Fprintf(r.out, "  Status:       %s\n", state)
	_, _ = fmt.Fprintf(r.out, "  Path:         %s\n", info.IndexPath)
	_, _ = fmt.Fprintf(r.out, "  Files:        %d\n", info.TotalFiles)
	_, _ = fmt.Fprintf(r.out, "  Chunks:       %d\n", info.TotalChunks)

	size := FormatBytes(info.IndexSizeBytes)
	if info.MaxIndexSizeBytes > 0 {
		size = fmt.Sprintf("%s of %s", size, FormatBytes(info.MaxIndexSizeBytes))
		if info.IndexSizeBytes > info.MaxIndexSizeBytes {
			size = r.styles.Warning.Render(size + " (over advisory limit)")
		}
	}
	_, _ = fmt.Fprintf(r.out, "  Size:         %s\n", size)

	if info.LastIndexed != nil {
		_, _ = fmt.Fprintf(r.out, "  Last indexed: %s\n", formatTime(*info.LastIndexed, r.now()))
	}
	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// formatTime formats t relative to now.
func formatTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return t.Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
