package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	fileLogger *log.Logger

	// DebugEnabled gates Debugf output; Info/Warn/Error always log once a
	// log file is configured.
	DebugEnabled = false

	logFile *os.File
)

// Init opens the log file and configures the package logger. An empty path
// disables file logging entirely.
func Init(debugMode bool, logPath string) error {
	DebugEnabled = debugMode

	if logPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	fileLogger = log.New(f, "drivefeed ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// Close closes the log file if open.
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

func logf(level, format string, v ...interface{}) {
	if fileLogger != nil {
		fileLogger.Printf("["+level+"] "+format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	logf("INFO", format, v...)
}

func Warnf(format string, v ...interface{}) {
	logf("WARNING", format, v...)
}

func Errorf(format string, v ...interface{}) {
	logf("ERROR", format, v...)
}

// Debugf logs only when debug mode was requested at Init.
func Debugf(format string, v ...interface{}) {
	if DebugEnabled {
		logf("DEBUG", format, v...)
	}
}
