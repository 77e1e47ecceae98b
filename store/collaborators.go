package store

import (
	"fmt"
	"io"
	"log/slog"
)

// Notifier shows a short confirmation to the user.
type Notifier interface {
	Notify(title, body string)
}

// Alerter shows a blocking notice to the user.
type Alerter interface {
	Alert(message string)
}

// Downloader hands a generated file to the user.
type Downloader interface {
	Download(filename, mimeType string, data []byte) error
}

// LogNotifier writes notifications to a slog.Logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that logs at info level.
// A nil logger means slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(title, body string) {
	n.logger.Info(title, "body", body)
}

// WriterNotifier prints notifications as "title: body" lines.
type WriterNotifier struct {
	w io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(title, body string) {
	fmt.Fprintf(n.w, "%s: %s\n", title, body)
}

// WriterAlerter prints alerts as lines.
type WriterAlerter struct {
	w io.Writer
}

func NewWriterAlerter(w io.Writer) *WriterAlerter {
	return &WriterAlerter{w: w}
}

func (a *WriterAlerter) Alert(message string) {
	fmt.Fprintln(a.w, message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}

type nopAlerter struct{}

func (nopAlerter) Alert(string) {}
