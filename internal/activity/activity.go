package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Actions recorded by the CLI.
const (
	ActionImport         = "import_statement"
	ActionAddTransaction = "add_transaction"
	ActionDeleteTx       = "delete_transaction"
	ActionSettings       = "update_settings"
	ActionApplyRate      = "apply_rate"
	ActionRestore        = "restore_dataset"
	ActionDebt           = "debt"
	ActionGoal           = "savings_goal"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Action    string
	Details   string
	RecordID  string
}

// Header is the CSV header for the activity log.
const Header = "timestamp,action,details,record_id"

const (
	numFields    = 4
	colTimestamp = 0
	colAction    = 1
	colDetails   = 2
	colRecordID  = 3
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = e.Action
	row[colDetails] = e.Details
	row[colRecordID] = e.RecordID
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		Details:   record[colDetails],
		RecordID:  record[colRecordID],
	}, nil
}

// Append writes entries to the log at path, creating the file and header if
// needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Log appends timestamped entries to one file. A Log with an empty path
// records nothing.
type Log struct {
	path string
	now  func() time.Time
}

// New creates a Log writing to path.
func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Record appends one entry per record id, or a single entry when none are
// given.
func (l *Log) Record(action, details string, recordIDs ...string) error {
	if l == nil || l.path == "" {
		return nil
	}
	ts := l.now()
	if len(recordIDs) == 0 {
		return Append(l.path, []Entry{{Timestamp: ts, Action: action, Details: details}})
	}
	entries := make([]Entry, len(recordIDs))
	for i, rid := range recordIDs {
		entries[i] = Entry{Timestamp: ts, Action: action, Details: details, RecordID: rid}
	}
	return Append(l.path, entries)
}

// Entries reads back everything recorded so far.
func (l *Log) Entries() ([]Entry, error) {
	if l == nil || l.path == "" {
		return nil, nil
	}
	return Read(l.path)
}

// Enabled reports whether the log writes anywhere.
func (l *Log) Enabled() bool { return l != nil && l.path != "" }

// Change is one recorded action with the number of records it touched.
type Change struct {
	Timestamp time.Time
	Action    string
	Details   string
	Records   int
}

// Changes folds consecutive entries written by one Record call into a
// single Change, newest first.
func Changes(entries []Entry) []Change {
	var changes []Change
	for _, e := range entries {
		if n := len(changes); n > 0 {
			last := &changes[n-1]
			if last.Timestamp.Equal(e.Timestamp) && last.Action == e.Action && last.Details == e.Details {
				if e.RecordID != "" {
					last.Records++
				}
				continue
			}
		}
		c := Change{Timestamp: e.Timestamp, Action: e.Action, Details: e.Details}
		if e.RecordID != "" {
			c.Records = 1
		}
		changes = append(changes, c)
	}
	for i, j := 0, len(changes)-1; i < j; i, j = i+1, j-1 {
		changes[i], changes[j] = changes[j], changes[i]
	}
	return changes
}
