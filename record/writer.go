// Package record persists session steps as zstd-compressed JSON lines
// The first line is a Header; every following line is one engine.Step
package record

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/samuelbigos/tower-of-babylon/engine"
	"github.com/samuelbigos/tower-of-babylon/parameter"
)

// Version is bumped whenever the line layout changes
const Version = 1

// Header identifies what produced a recording so it can be re-simulated
type Header struct {
	Version   int              `json:"version"`
	Scene     string           `json:"scene"`                // Builtin scene name
	SceneFile string           `json:"scene_file,omitempty"` // Set instead of Scene for file scenes
	Tuning    parameter.Tuning `json:"tuning"`
	Created   time.Time        `json:"created"`
}

// Writer appends steps to a recording
// It implements engine.Observer; the first write error is kept and returned by Close
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
	n   uint64
}

// Create opens path for writing and writes the header
func Create(path string, h Header) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create recording directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create recording")
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "zstd encoder")
	}
	w := &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}

	h.Version = Version
	if h.Created.IsZero() {
		h.Created = time.Now().UTC()
	}
	if err := w.writeLine(h); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// Observe records one step
func (w *Writer) Observe(s engine.Step) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil || w.w == nil {
		return
	}
	if err := w.writeLineLocked(s); err != nil {
		w.err = err
		return
	}
	w.n++
}

// Steps is the number of steps written
func (w *Writer) Steps() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Err returns the first write error
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) writeLine(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLineLocked(v)
}

func (w *Writer) writeLineLocked(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode line")
	}
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "write line")
	}
	return errors.Wrap(w.w.WriteByte('\n'), "write line")
}

// Close flushes the stream and returns the first error seen
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return w.err
	}

	errs := []error{w.err}
	errs = append(errs, errors.Wrap(w.w.Flush(), "flush"))
	errs = append(errs, errors.Wrap(w.enc.Close(), "close encoder"))
	errs = append(errs, errors.Wrap(w.f.Close(), "close file"))
	w.f, w.enc, w.w = nil, nil, nil

	for _, err := range errs {
		if err != nil {
			w.err = err
			return err
		}
	}
	return nil
}
