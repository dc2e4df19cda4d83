// Package logtail reads the tail of Vapor's own log file for the Logs view.
//
// # Overview
//
// Vapor is a full-screen TUI, so nothing it logs can go to the terminal while
// the UI is up. The logging package writes JSON lines to log_file instead, and
// this package reads them back so the Logs view (key 5) can show what the
// client has been doing: page fetches, refresh failures, logins, rejected
// sessions.
//
// The package is stateless. Each call opens the file, reads it and closes it
// again; nothing is cached between calls.
//
// # Data Flow
//
//	logging.New ──JSON lines──→ vapor.log
//	                               │
//	             ui tick (follow on) or entering the view
//	                               ↓
//	                  logtail.Read(path, 500)      last N raw lines
//	                               ↓
//	                  logtail.ParseLines(lines)    []Entry
//	                               ↓
//	                  substring filter, viewport
//
// The UI runs Read inside a tea.Cmd so a large file never stalls a frame.
// While follow is on the view re-reads on every UI tick and sticks to the
// bottom; any manual scroll turns follow off.
//
// # Reading
//
// Read scans the file line by line into a ring buffer of maxLines entries,
// so memory stays bounded however large the file grows. Lines up to 1 MiB
// are accepted. The result is in file order, oldest first.
//
// Edge cases:
//   - A missing file returns no lines and no error. A fresh install has not
//     logged anything yet.
//   - maxLines of zero or less returns nothing without opening the file.
//   - Open and scan failures are wrapped ("open log: ...", "read log: ...").
//     The Logs view keeps the previous entries and shows the error.
//
// # Parsing
//
// Parse decodes one line. The well-known keys are the ones the logging
// package configures on its encoder:
//
//   - ts: ISO8601 timestamp, parsed into Time (RFC 3339 is also accepted)
//   - level: lowercase level name
//   - logger: the zap logger name ("poller", "ui.paging", ...)
//   - msg: the message
//
// caller is dropped. Every other key becomes a "key=value" string in Fields,
// sorted by key so the same entry always renders the same way.
//
// A line that is not a JSON object comes back with only Raw set, and
// Structured reports false for it. Panics and anything else written to the
// file outside zap still show up in the view that way.
//
// ParseLines decodes a batch and skips blank lines.
//
// # JSON Decoding
//
// Lines are decoded with sonic into a map[string]any. Field values are
// formatted with %v, so nested objects print in Go map syntax.
//
// # Usage Example
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//	if err != nil {
//		return err
//	}
//	for _, e := range logtail.ParseLines(lines) {
//		if !e.Structured() {
//			fmt.Println(e.Raw)
//			continue
//		}
//		fmt.Println(e.Time.Format(time.Kitchen), e.Level, e.Logger, e.Message, e.Fields)
//	}
//
// # Testing Considerations
//
// Tests write fixture files into t.TempDir. Read takes any path, so no test
// touches the real log file. Parse and ParseLines are pure and are tested on
// literal lines.
package logtail
