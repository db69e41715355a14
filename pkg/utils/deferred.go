// Package utils holds small helpers shared by the binary.
package utils

import (
	"io"
	"sync"
)

// DeferredWriter buffers log events while a full screen program owns the
// terminal. Each Write is kept as one event so Flush can replay them through
// a writer that expects whole events, such as zerolog.ConsoleWriter.
type DeferredWriter struct {
	mu     sync.Mutex
	events [][]byte
}

// Write implements io.Writer.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, append([]byte(nil), p...))
	return len(p), nil
}

// Len returns the number of buffered events.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

// Flush writes the buffered events to w in order and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	events := d.events
	d.events = nil
	d.mu.Unlock()

	for _, e := range events {
		if _, err := w.Write(e); err != nil {
			return err
		}
	}
	return nil
}
