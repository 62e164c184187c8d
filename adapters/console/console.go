// Package console backs the handler ports with a terminal: paths given on the
// command line stand in for the file input, stdout shows element text and
// stderr shows notices.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"callcast/domain/forecast"
	"callcast/ports"
)

// Element ids of the page the handlers were written against.
const (
	FileInputID        = "fileInput"
	WeeksInfoID        = "weeksInfo"
	WeekInputID        = "weekInput"
	PredictionResultID = "predictionResult"
)

// pathFile is a file on disk, opened when the upload body is built.
type pathFile struct {
	path string
}

func (f pathFile) Name() string { return filepath.Base(f.path) }

func (f pathFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// Files is the file input, filled from command arguments
type Files struct {
	mu    sync.Mutex
	paths []string
}

// NewFiles creates a file input holding paths
func NewFiles(paths ...string) *Files {
	return &Files{paths: paths}
}

// Select replaces the current selection
func (f *Files) Select(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = paths
}

func (f *Files) Selected() []ports.SelectedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.SelectedFile, 0, len(f.paths))
	for _, p := range f.paths {
		out = append(out, pathFile{path: p})
	}
	return out
}

// Field is a text input
type Field struct {
	mu    sync.Mutex
	id    string
	value string
}

// NewField creates a text input with an initial value
func NewField(id, value string) *Field {
	return &Field{id: id, value: value}
}

func (f *Field) Set(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
}

func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Element prints each new text content on its own line
type Element struct {
	mu   sync.Mutex
	id   string
	out  io.Writer
	text string
}

// NewElement creates an output element writing to out
func NewElement(id string, out io.Writer) *Element {
	return &Element{id: id, out: out}
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
	fmt.Fprintln(e.out, text)
}

// Text returns the current content
func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// ID returns the element id
func (e *Element) ID() string { return e.id }

// Notices prints notices and counts them so the command can set its exit status
type Notices struct {
	mu    sync.Mutex
	out   io.Writer
	count int
}

// NewNotices creates a notifier writing to out
func NewNotices(out io.Writer) *Notices {
	return &Notices{out: out}
}

func (n *Notices) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	fmt.Fprintf(n.out, "! %s\n", message)
}

// Count returns how many notices were shown
func (n *Notices) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// SummaryPrinter prints summary statistics of each prediction set
type SummaryPrinter struct {
	out io.Writer
}

// NewSummaryPrinter creates a sink writing to out
func NewSummaryPrinter(out io.Writer) *SummaryPrinter {
	return &SummaryPrinter{out: out}
}

func (p *SummaryPrinter) RecordPredictions(ctx context.Context, week string, set *forecast.PredictionSet) error {
	summary, err := forecast.Summarize(set.Values)
	if err != nil {
		return fmt.Errorf("summarize week %s: %w", week, err)
	}
	_, err = fmt.Fprintf(p.out, "Summary (week %s): %s\n", week, summary)
	return err
}
