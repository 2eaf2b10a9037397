package network

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nfnt/resize"

	"github.com/underkeep/underkeep/pkg/replay"
	"github.com/underkeep/underkeep/pkg/world"
)

// Config configures the network supervisor. Zero-valued fields fall back
// to the defaults applied by NewSupervisor.
type Config struct {
	Address          string
	MaxPlayers       int
	MOTD             string
	FaviconPath      string
	AcceptRatePerSec float64
	AcceptBurst      int
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = ":25565"
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = 20
	}
	if c.MOTD == "" {
		c.MOTD = "An underkeep server"
	}
	if c.AcceptRatePerSec == 0 {
		c.AcceptRatePerSec = 20
	}
	if c.AcceptBurst == 0 {
		c.AcceptBurst = 10
	}
}

// Supervisor accepts connections, owns the client registry, and implements
// world.Sender so the tick runtime can address clients without importing
// net. Exactly one Supervisor exists per server process.
type Supervisor struct {
	cfg      Config
	listener net.Listener
	log      *zap.SugaredLogger
	world    *world.World
	limiter  *rate.Limiter

	mu      sync.RWMutex
	clients map[int32]*Client

	online atomic.Int32

	faviconOnce sync.Once
	favicon     string // data:image/png;base64,... or "" if unavailable

	statusMu        sync.RWMutex
	motd            string
	maxPlayers      int
	faviconOverride *string // set by UpdateStatus; nil means "use the configured file favicon"

	recorder *replay.Recorder // nil disables packet recording
}

// AttachRecorder wires rec into every connection actor's Play-state packet
// path: from the next packet on, every serverbound packet is appended to
// rec's currently-open recording. Must be called before Serve; the caller
// owns rec's Start/Save lifecycle.
func (s *Supervisor) AttachRecorder(rec *replay.Recorder) {
	s.recorder = rec
}

// NewSupervisor constructs a supervisor with no bound world yet — the
// network side and the tick runtime each need a reference to the other
// (Sender and world.Inbound() respectively), so construction is two-phase:
// build both, then call BindWorld before Serve. The caller runs w.Run in
// its own goroutine, typically via an errgroup alongside Supervisor.Serve.
func NewSupervisor(cfg Config, log *zap.SugaredLogger) *Supervisor {
	cfg.applyDefaults()
	return &Supervisor{
		cfg:        cfg,
		log:        log,
		limiter:    rate.NewLimiter(rate.Limit(cfg.AcceptRatePerSec), cfg.AcceptBurst),
		clients:    make(map[int32]*Client),
		motd:       cfg.MOTD,
		maxPlayers: cfg.MaxPlayers,
	}
}

// BindWorld completes construction by giving the supervisor the world it
// forwards messages to. Must be called before Serve.
func (s *Supervisor) BindWorld(w *world.World) {
	s.world = w
}

// Serve listens on cfg.Address and accepts connections until ctx is
// cancelled or the listener errors. Each connection is handled by its own
// goroutine (the connection actor).
func (s *Supervisor) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.Infow("listening", "addr", s.cfg.Address)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			_ = conn.Close()
			continue
		}
		client := newClient(AllocateClientID(), conn)
		s.register(client)
		go s.handleConnection(client)
	}
}

func (s *Supervisor) register(c *Client) {
	s.mu.Lock()
	s.clients[c.ID] = c
	s.mu.Unlock()
}

func (s *Supervisor) unregister(c *Client) {
	s.mu.Lock()
	delete(s.clients, c.ID)
	s.mu.Unlock()
	// A client with no profile never completed login, so it never had a
	// Player and there is nothing to report.
	if c.UUID() == ([16]byte{}) {
		return
	}
	// A disconnect discovered by the connection actor (read error, peer
	// hangup) must still reach the tick runtime so it can drop the player
	// and batch a DestroyEntities for its entity id.
	select {
	case s.world.Inbound() <- world.ClientDisconnected{ClientID: c.ID}:
	default:
		s.log.Warnw("inbound channel full dropping disconnect", "client", c.ID)
	}
}

// --- world.Sender ---

// SendPackets implements world.Sender: the tick runtime hands the
// supervisor one flushed byte blob per player per tick.
func (s *Supervisor) SendPackets(clientID int32, data []byte) {
	if len(data) == 0 {
		return
	}
	s.mu.RLock()
	c, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	c.Enqueue(data)
}

// DisconnectClient implements world.Sender: the tick runtime asks the
// supervisor to forcibly drop a client (e.g. kicked, protocol violation).
func (s *Supervisor) DisconnectClient(clientID int32) {
	s.mu.RLock()
	c, ok := s.clients[clientID]
	s.mu.RUnlock()
	if ok {
		c.Close()
	}
}

// UpdatePlayerCount implements world.Sender: the tick runtime reports the
// current online count after every join/leave so the status cache stays
// accurate without polling.
func (s *Supervisor) UpdatePlayerCount(online int) {
	s.online.Store(int32(online))
}

// UpdateStatus implements world.Sender: it mutates whichever cached status
// fields update sets and invalidates their serialized form — a non-nil
// IconBase64 bypasses the file-based favicon cache entirely, and every
// field read by statusJSON is re-read fresh on the very next status ping,
// so there is nothing further to recompute here.
func (s *Supervisor) UpdateStatus(update world.StatusUpdate) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if update.MaxPlayers != nil {
		s.maxPlayers = *update.MaxPlayers
	}
	if update.Description != nil {
		s.motd = *update.Description
	}
	if update.IconBase64 != nil {
		s.faviconOverride = update.IconBase64
	}
}

// --- status JSON ---

func (s *Supervisor) statusJSON() []byte {
	s.statusMu.RLock()
	motd, maxPlayers := s.motd, s.maxPlayers
	s.statusMu.RUnlock()

	var resp statusResponse
	resp.Version.Name = "1.8.9"
	resp.Version.Protocol = 47
	resp.Players.Max = maxPlayers
	resp.Players.Online = int(s.online.Load())
	resp.Players.Sample = []interface{}{}
	desc, _ := json.Marshal(map[string]string{"text": motd})
	resp.Description = desc
	resp.Favicon = s.resolveFavicon()

	body, err := json.Marshal(resp)
	if err != nil {
		s.log.Errorw("marshal status response", "err", err)
		return []byte(`{}`)
	}
	return body
}

// resolveFavicon prefers a favicon installed by UpdateStatus over the
// file configured at startup.
func (s *Supervisor) resolveFavicon() string {
	s.statusMu.RLock()
	override := s.faviconOverride
	s.statusMu.RUnlock()
	if override != nil {
		return *override
	}
	return s.loadFavicon()
}

// loadFavicon decodes, resizes (via nfnt/resize) to the 64x64 vanilla
// favicon size, and base64-encodes
// the configured favicon image exactly once; failures are cached as "" so a
// missing/corrupt file is not retried on every status ping.
func (s *Supervisor) loadFavicon() string {
	s.faviconOnce.Do(func() {
		if s.cfg.FaviconPath == "" {
			return
		}
		f, err := os.Open(s.cfg.FaviconPath)
		if err != nil {
			s.log.Warnw("favicon unavailable", "path", s.cfg.FaviconPath, "err", err)
			return
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			s.log.Warnw("favicon decode failed", "path", s.cfg.FaviconPath, "err", err)
			return
		}
		scaled := resize.Resize(64, 64, img, resize.Lanczos3)

		var buf bytes.Buffer
		if err := png.Encode(&buf, scaled); err != nil {
			s.log.Warnw("favicon encode failed", "err", err)
			return
		}
		s.favicon = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	})
	return s.favicon
}
