package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// SetupLogging points the standard logger at Logging.OutputPath and picks its
// flags. The returned func closes the log file, if one was opened.
func (cfg *Config) SetupLogging() (func(), error) {
	out, closer, err := openLogOutput(cfg.Logging.OutputPath)
	if err != nil {
		return nil, err
	}
	log.SetOutput(out)
	log.SetFlags(logFlags(cfg.Logging))
	return closer, nil
}

func openLogOutput(path string) (io.Writer, func(), error) {
	switch strings.ToLower(path) {
	case "", "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// logFlags adds file:line at debug level and UTC timestamps for the utc format.
func logFlags(l LoggingConfig) int {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.EqualFold(l.Level, "debug") {
		flags |= log.Lshortfile
	}
	if strings.EqualFold(l.Format, "utc") {
		flags |= log.LUTC
	}
	return flags
}
