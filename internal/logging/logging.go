package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func get() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "gaitsim",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLevel accepts debug, info, warn, error or fatal.
func SetLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	get().SetLevel(lvl)
	return nil
}

// SetOutput redirects the process logger, e.g. to io.Discard in tests.
func SetOutput(w io.Writer) { get().SetOutput(w) }

func Debug(msg string, keyvals ...interface{}) { get().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { get().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { get().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { get().Error(msg, keyvals...) }

// With returns a child logger carrying the given fields, e.g. a strap name.
func With(keyvals ...interface{}) *log.Logger { return get().With(keyvals...) }
