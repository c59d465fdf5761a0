// Package transcript reads timed subtitle files (WebVTT, SubRip) into cues
// and their plain text.
package transcript

import (
	"bufio"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Format represents a subtitle file format
type Format string

const (
	FormatVTT Format = "vtt"
	FormatSRT Format = "srt"
)

// Cue is one timed block of subtitle text
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Transcript is a parsed subtitle file
type Transcript struct {
	Format   Format
	Cues     []Cue
	Duration time.Duration
}

var (
	vttTiming = regexp.MustCompile(`^((?:\d{2,}:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d{2,}:)?\d{2}:\d{2}\.\d{3})`)
	srtTiming = regexp.MustCompile(`^(\d{2,}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2,}:\d{2}:\d{2},\d{3})`)
	markupTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
)

// FormatForFile returns the subtitle format implied by a filename extension
func FormatForFile(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".vtt":
		return FormatVTT, true
	case ".srt":
		return FormatSRT, true
	default:
		return "", false
	}
}

// Parse parses subtitle content in the given format
func Parse(content string, format Format) (*Transcript, error) {
	var timing *regexp.Regexp
	switch format {
	case FormatVTT:
		timing = vttTiming
	case FormatSRT:
		timing = srtTiming
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	t := &Transcript{Format: format}
	var current *Cue
	var lines []string

	flush := func() {
		if current != nil && len(lines) > 0 {
			current.Text = strings.Join(lines, " ")
			t.Cues = append(t.Cues, *current)
		}
		current = nil
		lines = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(content, "\ufeff")))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			flush()
			continue
		}

		if m := timing.FindStringSubmatch(line); m != nil {
			flush()
			start, err := parseTimestamp(m[1])
			if err != nil {
				return nil, err
			}
			end, err := parseTimestamp(m[2])
			if err != nil {
				return nil, err
			}
			current = &Cue{Start: start, End: end}
			continue
		}

		// Headers, notes and cue identifiers precede a timing line
		if current == nil {
			continue
		}

		if text := strings.TrimSpace(markupTag.ReplaceAllString(line, "")); text != "" {
			lines = append(lines, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading subtitles: %w", err)
	}
	flush()

	if n := len(t.Cues); n > 0 {
		t.Duration = t.Cues[n-1].End
	}
	return t, nil
}

// Text returns the cue texts joined one per line
func (t *Transcript) Text() string {
	texts := make([]string, 0, len(t.Cues))
	for _, cue := range t.Cues {
		texts = append(texts, cue.Text)
	}
	return strings.Join(texts, "\n")
}

// parseTimestamp accepts HH:MM:SS.mmm, MM:SS.mmm and HH:MM:SS,mmm
func parseTimestamp(ts string) (time.Duration, error) {
	ts = strings.Replace(ts, ",", ".", 1)
	parts := strings.Split(ts, ":")
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)).Round(time.Millisecond), nil
}
