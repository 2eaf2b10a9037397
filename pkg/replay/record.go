package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyOpen is returned by Save when no recording is in progress.
var ErrAlreadyOpen = errors.New("replay: save without start")

// Initializer writes application-defined preamble bytes once the version
// header has been written, before the recording actor transitions to
// recording state.
type Initializer func(w *os.File) error

// Uploader is invoked with the final saved path once Save has renamed the
// temporary file; it is the caller's hook for e.g. shipping the file
// elsewhere. May be nil.
type Uploader func(path string) error

// Recorder is the record actor: idle or recording, owning exactly one
// temp file handle at a time. Safe for concurrent use: Start, Record and
// Save all hold mu, since Record is called from every connection actor's
// goroutine.
type Recorder struct {
	dir string
	log *zap.SugaredLogger

	mu      sync.Mutex
	file    *os.File
	tmpPath string
	t0      time.Time
}

// NewRecorder returns an idle recorder rooted at dir. Start creates dir if
// it is missing.
func NewRecorder(dir string, log *zap.SugaredLogger) *Recorder {
	return &Recorder{dir: dir, log: log}
}

// recoverPartial renames any leftover `.tmp` file from a prior crashed
// process to a timestamped "partial" name so a fresh recording can start
// cleanly without losing the old data.
func (r *Recorder) recoverPartial() {
	tmp := filepath.Join(r.dir, Version+".tmp")
	if _, err := os.Stat(tmp); err != nil {
		return
	}
	partial := filepath.Join(r.dir, fmt.Sprintf("%s_partial_%d.rcrp", Version, time.Now().UnixNano()))
	if err := os.Rename(tmp, partial); err != nil {
		r.log.Warnw("failed to recover partial replay file", "err", err)
		return
	}
	r.log.Infow("recovered partial replay file", "path", partial)
}

// Start creates a fresh temp file, writes the version header, invokes init
// to deposit the preamble, and transitions to recording anchored at t0.
func (r *Recorder) Start(t0 time.Time, init Initializer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("replay: create dir: %w", err)
	}
	r.recoverPartial()

	tmpPath := filepath.Join(r.dir, Version+".tmp")
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("replay: create temp file: %w", err)
	}

	if err := writeU64(f, uint64(len(Version))); err != nil {
		f.Close()
		return err
	}
	if _, err := f.WriteString(Version); err != nil {
		f.Close()
		return err
	}
	if init != nil {
		if err := init(f); err != nil {
			f.Close()
			return fmt.Errorf("replay: preamble: %w", err)
		}
	}

	r.file = f
	r.tmpPath = tmpPath
	r.t0 = t0
	return nil
}

// Record appends one record while recording; dropped silently while idle.
func (r *Recorder) Record(received time.Time, profile [16]byte, packetBytes []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return
	}

	delta := received.Sub(r.t0)
	rec := Record{Delta: delta, Profile: profile, Packet: packetBytes}

	if err := writeU32(r.file, rec.bodyLen()); err != nil {
		r.log.Warnw("replay record write failed", "err", err)
		return
	}
	_ = writeU64(r.file, uint64(delta/time.Second))
	_ = writeU32(r.file, uint32(delta%time.Second))
	_, _ = r.file.Write(profile[:])
	_ = writeU32(r.file, uint32(len(packetBytes)))
	_, _ = r.file.Write(packetBytes)
}

// Save flushes and renames the temp file to its final "replay" name,
// invoking upload with the final path, and returns to idle.
func (r *Recorder) Save(upload Uploader) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return "", ErrAlreadyOpen
	}

	if err := r.file.Sync(); err != nil {
		r.file.Close()
		r.file, r.tmpPath = nil, ""
		return "", fmt.Errorf("replay: sync: %w", err)
	}
	if err := r.file.Close(); err != nil {
		r.tmpPath = ""
		r.file = nil
		return "", fmt.Errorf("replay: close: %w", err)
	}

	finalPath := filepath.Join(r.dir, fmt.Sprintf("%s_replay_%d.rcrp", Version, time.Now().UnixNano()))
	if err := os.Rename(r.tmpPath, finalPath); err != nil {
		r.file, r.tmpPath = nil, ""
		return "", fmt.Errorf("replay: rename: %w", err)
	}

	r.file, r.tmpPath = nil, ""

	if upload != nil {
		if err := upload(finalPath); err != nil {
			r.log.Warnw("replay upload failed", "path", finalPath, "err", err)
		}
	}
	return finalPath, nil
}

func writeU64(f *os.File, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := f.Write(b[:])
	return err
}

func writeU32(f *os.File, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := f.Write(b[:])
	return err
}
