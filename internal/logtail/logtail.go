package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/five82/vapor/internal/logging"
)

// Read returns at most maxLines from the end of the file at path.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log line.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	// Fields holds the remaining keys sorted by name, formatted as key=value.
	Fields []string
	// Raw is the original line, kept when it was not valid JSON.
	Raw string
}

// Structured reports whether the line decoded as a JSON log entry.
func (e Entry) Structured() bool {
	return e.Raw == ""
}

// Parse decodes a line written by the logging package. Lines that are not JSON
// objects come back with only Raw set.
func Parse(line string) Entry {
	var obj map[string]any
	if err := sonic.UnmarshalString(line, &obj); err != nil || obj == nil {
		return Entry{Raw: line}
	}

	var e Entry
	if ts, ok := obj[logging.TimeKey].(string); ok {
		if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			e.Time = t
		} else if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = t
		}
	}
	e.Level, _ = obj[logging.LevelKey].(string)
	e.Logger, _ = obj[logging.NameKey].(string)
	e.Message, _ = obj[logging.MessageKey].(string)

	keys := make([]string, 0, len(obj))
	for k := range obj {
		switch k {
		case logging.TimeKey, logging.LevelKey, logging.NameKey, logging.MessageKey, "caller":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Fields = append(e.Fields, fmt.Sprintf("%s=%v", k, obj[k]))
	}
	return e
}

// ParseLines decodes every line.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Parse(line))
	}
	return out
}
