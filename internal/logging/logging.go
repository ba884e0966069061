package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const sessionStamp = "20060102_150405"

// LogFilePath builds the session log path, named after the binary and the
// time the session started.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", name, sessionStart.Format(sessionStamp)))
}

// BackupFilePath is where the stats sink keeps its gzipped line protocol
// for the same session.
func BackupFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.lp.gz", name, sessionStart.Format(sessionStamp)))
}

// OpenSessionLog creates the log file at path. A file already there, left by
// a session started in the same second, is moved aside to path+".old".
func OpenSessionLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".old")
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}
