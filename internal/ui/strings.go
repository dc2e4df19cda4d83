package ui

import (
	"html"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
)

// truncate shortens a string to the given limit, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

var (
	breakTags = regexp.MustCompile(`(?i)<\s*(br|/p|/li|/h[1-6])\s*/?>`)
	anyTag    = regexp.MustCompile(`<[^>]*>`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// plainText turns the store's HTML descriptions into wrapped plain text.
func plainText(raw string, width int) string {
	text := breakTags.ReplaceAllString(raw, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	text = strings.TrimSpace(text)
	if width > 0 {
		text = wordwrap.String(text, width)
	}
	return text
}

// relativeTime formats then relative to now, falling back to a date after a week.
func relativeTime(then, now time.Time) string {
	if then.IsZero() {
		return "never"
	}
	ago := now.Sub(then)
	if ago < time.Minute {
		return "just now"
	}
	if ago < humanize.Week {
		return humanize.CustomRelTime(then, now, "ago", "from now", magnitudes)
	}
	return then.Format("02 Jan 2006")
}

var magnitudes = []humanize.RelTimeMagnitude{
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: humanize.Week, Format: "%d days %s", DivBy: humanize.Day},
	{D: math.MaxInt64, Format: "a long while %s", DivBy: 1},
}

// progressBar renders pct (0-100) as a bar of width cells.
func progressBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
