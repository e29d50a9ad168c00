// Package report ranks channel totals and renders the upload duration summary
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/umputun/tubetally/pkg/domain"
)

// Header is the first line of every summary
const Header = "=== Upload Duration Summary ==="

const channelWidth = 40

// Line is a single channel row of the summary
type Line struct {
	Channel string
	Seconds int64
}

// String renders the line as a padded channel name followed by the duration
func (l Line) String() string {
	return fmt.Sprintf("%-*s %s", channelWidth, l.Channel, FormatDuration(l.Seconds))
}

// Rank sorts totals by descending duration, ties ordered by channel name
func Rank(totals domain.ChannelTotals) []Line {
	lines := make([]Line, 0, len(totals))
	for ch, secs := range totals {
		lines = append(lines, Line{Channel: ch, Seconds: secs})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Seconds != lines[j].Seconds {
			return lines[i].Seconds > lines[j].Seconds
		}
		return lines[i].Channel < lines[j].Channel
	})
	return lines
}

// FormatDuration renders seconds as "{H}h {M}m {S}s"
func FormatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%dh %dm %ds", secs/3600, (secs%3600)/60, secs%60)
}

// Reporter prints the summary and optionally saves it to a file
type Reporter struct {
	Out        io.Writer // stdout if nil
	OutputFile string    // no file written if empty
}

// Report prints lines and writes the output file when configured
func (r *Reporter) Report(lines []Line) error {
	r.Print(lines)
	if r.OutputFile == "" {
		return nil
	}
	return WriteFile(r.OutputFile, lines)
}

// Print writes the colored header and lines
func (r *Reporter) Print(lines []Line) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	_, _ = color.New(color.FgHiGreen, color.Bold).Fprintln(out, Header)
	for _, l := range lines {
		_, _ = fmt.Fprintln(out, l.String())
	}
}

// Render returns the plain text summary, header first
func Render(lines []Line) string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString("\n\n")
	for _, l := range lines {
		sb.WriteString(l.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteFile saves the plain text summary to path, replacing any existing content
func WriteFile(path string, lines []Line) error {
	if err := os.WriteFile(path, []byte(Render(lines)), 0o644); err != nil { //nolint:gosec // summary is not sensitive
		return fmt.Errorf("write summary to %s: %w", path, err)
	}
	return nil
}
