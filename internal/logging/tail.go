package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Tail returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Tail(path string, maxLines int) ([]string, error) {
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
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is a decoded JSON log line.
type Entry struct {
	Time    string
	Level   string
	Logger  string
	Message string
	Fields  map[string]any
}

var reservedKeys = map[string]struct{}{
	"ts": {}, "level": {}, "logger": {}, "msg": {}, "caller": {}, "stacktrace": {},
}

// ParseEntry decodes one line written by New. Lines that are not JSON
// objects report false.
func ParseEntry(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	entry := Entry{
		Time:    stringField(raw, "ts"),
		Level:   strings.ToUpper(stringField(raw, "level")),
		Logger:  stringField(raw, "logger"),
		Message: stringField(raw, "msg"),
		Fields:  map[string]any{},
	}
	for k, v := range raw {
		if _, skip := reservedKeys[k]; !skip {
			entry.Fields[k] = v
		}
	}
	return entry, true
}

// Format renders a log line as "time LEVEL [logger] message k=v ...".
// Non-JSON lines are returned unchanged.
func Format(line string) string {
	entry, ok := ParseEntry(line)
	if !ok {
		return line
	}
	var b strings.Builder
	if entry.Time != "" {
		b.WriteString(entry.Time)
		b.WriteByte(' ')
	}
	b.WriteString(entry.Level)
	if entry.Logger != "" {
		b.WriteString(" [" + entry.Logger + "]")
	}
	b.WriteString(" " + entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
