// Package ytdlp wraps the yt-dlp binary as a metadata source.
// Each call spawns one process asking for the json info of a single url without downloading media.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

const defaultPath = "yt-dlp"

// waitDelay bounds how long Run waits for output pipes after the process is killed
const waitDelay = time.Second

// ErrNotInstalled is returned when the yt-dlp binary can't be started
var ErrNotInstalled = errors.New("yt-dlp is not installed or not in PATH")

// Metadata is the subset of yt-dlp info json used for duration accounting.
// Pointer fields are nil when yt-dlp omits them or reports null.
type Metadata struct {
	Title      string   `json:"title"`
	Duration   *float64 `json:"duration"`
	IsLive     *bool    `json:"is_live"`
	LiveStatus string   `json:"live_status"`
}

// Client runs yt-dlp as a subprocess
type Client struct {
	Path      string   // yt-dlp binary, "yt-dlp" if empty
	ExtraArgs []string // added before the url
}

// Metadata returns info for a single video url. The process is killed when ctx is done.
func (c *Client) Metadata(ctx context.Context, url string) (*Metadata, error) {
	args := []string{"--skip-download", "--print-json", "--no-warnings", "--no-playlist"}
	args = append(args, c.ExtraArgs...)
	args = append(args, "--", url)

	cmd := exec.CommandContext(ctx, c.path(), args...) //nolint:gosec // binary and args come from config
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// yt-dlp is often a launcher script, kill its whole process group on cancel
	killGroup(cmd)
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotInstalled, c.path())
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("yt-dlp %s: %w", url, ctxErr)
		}
		return nil, fmt.Errorf("yt-dlp %s: %w: %s", url, err, lastLine(stderr.String()))
	}

	return parseMetadata(stdout.Bytes())
}

func (c *Client) path() string {
	if c.Path != "" {
		return c.Path
	}
	return defaultPath
}

// parseMetadata decodes the first json object printed by yt-dlp
func parseMetadata(data []byte) (*Metadata, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("parse yt-dlp output: empty output")
	}
	if data[0] != '{' {
		return nil, fmt.Errorf("parse yt-dlp output: not a json object: %.40q", data)
	}

	var meta Metadata
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&meta); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	return &meta, nil
}

// lastLine keeps the tail of stderr, yt-dlp prints the actual error last
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
