package organize

import (
	"fmt"
	"io"
)

// Reporter receives progress as the pipeline runs. It is injected
// explicitly; stages never reach for a global.
type Reporter interface {
	Stage(name, status string)
	Info(msg string)
	Warn(msg string)
}

type consoleReporter struct {
	w io.Writer
}

// NewConsoleReporter writes progress lines to w.
func NewConsoleReporter(w io.Writer) Reporter {
	return &consoleReporter{w: w}
}

func (r *consoleReporter) Stage(name, status string) {
	fmt.Fprintf(r.w, "[%s] %s\n", status, name)
}

func (r *consoleReporter) Info(msg string) {
	fmt.Fprintln(r.w, msg)
}

func (r *consoleReporter) Warn(msg string) {
	fmt.Fprintln(r.w, "warning: "+msg)
}

type nopReporter struct{}

// NewQuietReporter discards all progress output.
func NewQuietReporter() Reporter { return nopReporter{} }

func (nopReporter) Stage(string, string) {}
func (nopReporter) Info(string)          {}
func (nopReporter) Warn(string)          {}
