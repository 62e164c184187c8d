package testkit

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"callcast/ports"
)

// MemFile is an in-memory SelectedFile
type MemFile struct {
	FileName string
	Content  []byte
	OpenErr  error
}

func (f MemFile) Name() string { return f.FileName }

func (f MemFile) Open() (io.ReadCloser, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}

// FileList is a FileSelector whose selection can change between invocations
type FileList struct {
	mu    sync.Mutex
	files []ports.SelectedFile
}

func (l *FileList) Select(files ...ports.SelectedFile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files = files
}

func (l *FileList) Selected() []ports.SelectedFile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ports.SelectedFile(nil), l.files...)
}

// Field is a settable TextInput
type Field struct {
	mu    sync.Mutex
	value string
}

func (f *Field) Set(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Element is a TextOutput keeping every write
type Element struct {
	mu     sync.Mutex
	writes []string
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.writes = append(e.writes, text)
}

// Text returns the current content
func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.writes) == 0 {
		return ""
	}
	return e.writes[len(e.writes)-1]
}

// Writes returns how many times the content was replaced
func (e *Element) Writes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.writes)
}

// Notices records every notice shown
type Notices struct {
	mu       sync.Mutex
	messages []string
}

func (n *Notices) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *Notices) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// Diagnostics records log entries by level
type Diagnostics struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (d *Diagnostics) Error(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) Warn(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warns = append(d.warns, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) Debug(format string, args ...interface{}) {}

func (d *Diagnostics) Errors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.errors...)
}

func (d *Diagnostics) Warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.warns...)
}
