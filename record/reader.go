package record

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/samuelbigos/tower-of-babylon/engine"
)

const maxLine = 8 * 1024 * 1024

// Reader iterates the steps of a recording
type Reader struct {
	f      *os.File
	dec    *zstd.Decoder
	sc     *bufio.Scanner
	header Header
	line   int
}

// Open reads the header of the recording at path
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open recording")
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "zstd decoder")
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	r := &Reader{f: f, dec: dec, sc: sc}

	if !r.scan() {
		err := r.sc.Err()
		_ = r.Close()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrap(err, "read header")
	}
	if err := json.Unmarshal(r.sc.Bytes(), &r.header); err != nil {
		_ = r.Close()
		return nil, errors.Wrap(err, "decode header")
	}
	if r.header.Version != Version {
		_ = r.Close()
		return nil, errors.Errorf("recording version %d, want %d", r.header.Version, Version)
	}
	return r, nil
}

func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next step, or io.EOF after the last one
func (r *Reader) Next() (engine.Step, error) {
	var s engine.Step
	if !r.scan() {
		if err := r.sc.Err(); err != nil {
			return s, errors.Wrapf(err, "line %d", r.line+1)
		}
		return s, io.EOF
	}
	if err := json.Unmarshal(r.sc.Bytes(), &s); err != nil {
		return s, errors.Wrapf(err, "line %d", r.line)
	}
	return s, nil
}

func (r *Reader) scan() bool {
	ok := r.sc.Scan()
	if ok {
		r.line++
	}
	return ok
}

func (r *Reader) Close() error {
	if r.dec != nil {
		r.dec.Close()
		r.dec = nil
	}
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return errors.Wrap(err, "close recording")
}
