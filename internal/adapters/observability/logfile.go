package observability

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile describes a size-rotated log file.
type LogFile struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileLogger writes to stderr and to the rotated file at lf.Path. The
// returned closer releases the file.
func NewFileLogger(lf LogFile) (*log.Logger, io.Closer) {
	rot := &lumberjack.Logger{
		Filename:   lf.Path,
		MaxSize:    lf.MaxSizeMB,
		MaxBackups: lf.MaxBackups,
		MaxAge:     lf.MaxAgeDays,
		Compress:   lf.Compress,
	}
	return log.New(io.MultiWriter(os.Stderr, rot), "", log.LstdFlags), rot
}
