package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// writerLogger formats like the wails default logger but writes to any
// writer, so command output on stdout stays clean.
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func newWriterLogger(w io.Writer) *writerLogger {
	return &writerLogger{w: w}
}

func (l *writerLogger) line(prefix, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s | %s\n", prefix, message)
}

func (l *writerLogger) Print(message string)   { l.line("PRI", message) }
func (l *writerLogger) Trace(message string)   { l.line("TRA", message) }
func (l *writerLogger) Debug(message string)   { l.line("DEB", message) }
func (l *writerLogger) Info(message string)    { l.line("INF", message) }
func (l *writerLogger) Warning(message string) { l.line("WAR", message) }
func (l *writerLogger) Error(message string)   { l.line("ERR", message) }
func (l *writerLogger) Fatal(message string) {
	l.line("FAT", message)
	os.Exit(1)
}

// levelLogger drops messages below level.
type levelLogger struct {
	out   logger.Logger
	level logger.LogLevel
}

func (l *levelLogger) Print(message string) { l.out.Print(message) }

func (l *levelLogger) Trace(message string) {
	if l.level <= logger.TRACE {
		l.out.Trace(message)
	}
}

func (l *levelLogger) Debug(message string) {
	if l.level <= logger.DEBUG {
		l.out.Debug(message)
	}
}

func (l *levelLogger) Info(message string) {
	if l.level <= logger.INFO {
		l.out.Info(message)
	}
}

func (l *levelLogger) Warning(message string) {
	if l.level <= logger.WARNING {
		l.out.Warning(message)
	}
}

func (l *levelLogger) Error(message string) { l.out.Error(message) }
func (l *levelLogger) Fatal(message string) { l.out.Fatal(message) }
