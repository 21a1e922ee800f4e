package quizlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Line format of the file sink. Every line is
//
//	2006-01-02 15:04:05 - <user> - LEVEL - message
//
// which internal/admin relies on when parsing logs back.
const lineTimeFormat = "2006-01-02 15:04:05"

var lineRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - (\S+) - (INFO|WARNING|ERROR) - (.*)$`)

// FileSink appends activity entries to one timestamped log file per
// process, created under dir at construction time.
type FileSink struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

var _ Sink = (*FileSink)(nil)
var _ Reader = (*FileSink)(nil)

// NewFileSink creates dir if needed and opens a fresh log file named
// <prefix>_<timestamp>.log.
func NewFileSink(dir, prefix string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", prefix, time.Now().Format("20060102_150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", path, err)
	}
	return &FileSink{path: path, f: f}, nil
}

// Path returns the file this sink writes to.
func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Append(e Entry) error {
	line := FormatLine(e)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.f.WriteString(line + "\n")
	return err
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Entries reads this sink's own file back. Newest entries last.
func (s *FileSink) Entries(q Query) ([]Entry, error) {
	return ReadFile(s.path, q)
}

// FormatLine renders one entry in the file sink's line format.
func FormatLine(e Entry) string {
	return fmt.Sprintf("%s - %s - %s - %s",
		e.Time.Format(lineTimeFormat), e.UserID, e.Level, e.Message)
}

// ParseLine parses one log line. ok is false for lines that do not match
// the format (they are skipped, not fatal — log files may contain partial
// last lines after a crash).
func ParseLine(line string) (Entry, bool) {
	m := lineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return Entry{}, false
	}
	ts, err := time.ParseInLocation(lineTimeFormat, m[1], time.Local)
	if err != nil {
		return Entry{}, false
	}
	return Entry{Time: ts, UserID: m[2], Level: Level(m[3]), Message: m[4]}, true
}

// ReadFile parses a whole log file, applying the query filters.
func ReadFile(path string, q Query) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		e, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		if q.UserID != "" && e.UserID != q.UserID {
			continue
		}
		if q.Level != "" && e.Level != q.Level {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}
	return entries, nil
}

// DirReader serves admin reads across every log file under a directory,
// so history from earlier runs stays visible after a restart. The file
// sink itself only ever writes (and reads) its own file.
type DirReader struct {
	dir string
}

var _ Reader = DirReader{}

func NewDirReader(dir string) DirReader {
	return DirReader{dir: dir}
}

func (r DirReader) Entries(q Query) ([]Entry, error) {
	return ReadDir(r.dir, q)
}

// ReadDir parses every *.log file under dir, oldest file first.
func ReadDir(dir string, q Query) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, path := range matches {
		fileEntries, err := ReadFile(path, Query{UserID: q.UserID, Level: q.Level})
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}
	return entries, nil
}
