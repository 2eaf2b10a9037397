package replay

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gammazero/deque"
	"go.uber.org/zap"
)

// ErrEndOfFile is the distinct end-of-file error the playback actor
// interprets as auto-stop.
var ErrEndOfFile = errors.New("replay: end of file")

// errPending is never surfaced to outer callers: GetPacket returns it only
// when fillPending leaves the queue empty without reaching end of file,
// which fillPending's loop does not allow.
var errPending = errors.New("replay: pending")

// Parser consumes the application-defined preamble bytes written by the
// record actor's Initializer and returns whatever value the caller wants
// handed back from Load.
type Parser func(r io.Reader) (interface{}, error)

// pendingQueueSize bounds the playback actor's lookahead.
const pendingQueueSize = 30

// Player is the replay actor: idle, loaded, or playing. Owns the file
// handle for its entire lifetime from Load to End.
type Player struct {
	log *zap.SugaredLogger

	file    *os.File
	reader  *bufio.Reader
	pending deque.Deque[Record]
	t0      time.Time
	started bool
	eof     bool
}

// NewPlayer returns an idle playback actor.
func NewPlayer(log *zap.SugaredLogger) *Player {
	return &Player{log: log}
}

// Load opens path, reads and logs the version header (it is not compared
// against Version), hands the preamble bytes to parse, and transitions to
// loaded.
func (p *Player) Load(path string, parse Parser) (interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open: %w", err)
	}
	r := bufio.NewReader(f)

	verLen, err := readU64(r)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("replay: read version length: %w", err)
	}
	verBuf := make([]byte, verLen)
	if _, err := io.ReadFull(r, verBuf); err != nil {
		f.Close()
		return nil, fmt.Errorf("replay: read version: %w", err)
	}
	p.log.Infow("loaded replay", "path", path, "version", string(verBuf))

	var preambleResult interface{}
	if parse != nil {
		preambleResult, err = parse(r)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("replay: parse preamble: %w", err)
		}
	}

	p.file = f
	p.reader = r
	p.pending.Clear()
	p.eof = false
	p.started = false
	return preambleResult, nil
}

// Start anchors the playback clock so record.Delta is interpreted relative
// to t0, and transitions to playing.
func (p *Player) Start(t0 time.Time) {
	p.t0 = t0
	p.started = true
}

// End drops the buffer and file handle, returning to idle.
func (p *Player) End() error {
	p.pending.Clear()
	p.started = false
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file, p.reader = nil, nil
	return err
}

// fillPending reads records from the file until the queue holds
// pendingQueueSize entries or the file is exhausted. Cancel-safe: a
// cancelled context returns having consumed at most the in-flight parse of
// one record, never losing a record already appended to the queue.
func (p *Player) fillPending(ctx context.Context) error {
	for p.pending.Len() < pendingQueueSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := p.readRecord()
		if errors.Is(err, io.EOF) {
			p.eof = true
			return nil
		}
		if err != nil {
			return err
		}
		p.pending.PushBack(rec)
	}
	return nil
}

func (p *Player) readRecord() (Record, error) {
	if _, err := readU32(p.reader); err != nil { // body_len, unused on read
		return Record{}, err
	}
	secs, err := readU64(p.reader)
	if err != nil {
		return Record{}, err
	}
	nanos, err := readU32(p.reader)
	if err != nil {
		return Record{}, err
	}
	var profile [16]byte
	if _, err := io.ReadFull(p.reader, profile[:]); err != nil {
		return Record{}, err
	}
	pktLen, err := readU32(p.reader)
	if err != nil {
		return Record{}, err
	}
	pkt := make([]byte, pktLen)
	if _, err := io.ReadFull(p.reader, pkt); err != nil {
		return Record{}, err
	}
	return Record{
		Delta:   time.Duration(secs)*time.Second + time.Duration(nanos),
		Profile: profile,
		Packet:  pkt,
	}, nil
}

// GetPacket waits until the front pending record's scheduled wall-clock
// time (t0 + record.Delta) arrives, then pops and returns it. Cancel-safe:
// cancellation before the wait completes leaves the record at the front of
// the queue for the next call.
func (p *Player) GetPacket(ctx context.Context) (Record, error) {
	if err := p.fillPending(ctx); err != nil {
		return Record{}, err
	}
	if p.pending.Len() == 0 {
		if p.eof {
			return Record{}, ErrEndOfFile
		}
		return Record{}, errPending
	}

	front := p.pending.Front()
	due := p.t0.Add(front.Delta)
	if d := time.Until(due); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Record{}, ctx.Err()
		case <-timer.C:
		}
	}

	return p.pending.PopFront(), nil
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}
