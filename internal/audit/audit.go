package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/frontcrypt/internal/configs"
	"github.com/PolarWolf314/frontcrypt/internal/utils"
)

// Operation names.
const (
	OpBuild   = "build"
	OpInspect = "inspect"
	OpServe   = "serve"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local username.
	Operation string `json:"op"`

	BundleID    string `json:"bundle_id,omitempty"`
	Source      string `json:"source,omitempty"` // For build.
	Output      string `json:"output,omitempty"`
	FilesCount  int    `json:"files_count,omitempty"`
	DirsCount   int    `json:"dirs_count,omitempty"`
	PayloadSize int64  `json:"payload_size,omitempty"`
	Addr        string `json:"addr,omitempty"` // For serve.
}

// NewBundleID returns a fresh random bundle identifier.
func NewBundleID() string {
	return uuid.NewString()
}

// NewEntry returns an entry for op with the user field populated.
func NewEntry(op string) Entry {
	entry := Entry{Operation: op}
	if name, err := utils.GetUsername(); err == nil {
		entry.User = name
	}
	return entry
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return configs.AuditLogPath()
}

// Log appends an entry to the audit log at LogPath.
// Failures are ignored.
func Log(entry Entry) {
	_ = LogTo(LogPath(), entry)
}

// LogTo appends an entry to the log at path, creating it if needed.
func LogTo(path string, entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadEntries reads all entries from the audit log at LogPath.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	return ReadEntriesFrom(LogPath())
}

// ReadEntriesFrom reads all entries from the log at path.
func ReadEntriesFrom(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
