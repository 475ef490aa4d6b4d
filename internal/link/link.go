// internal/link/link.go
package link

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/scoreboard-hub/internal/datagram"
)

// Privilege is the bus role of a link.
type Privilege int

const (
	// Slave only answers requests.
	Slave Privilege = iota
	// Master initiates requests on reload ticks.
	Master
)

func (p Privilege) String() string {
	if p == Master {
		return "master"
	}
	return "slave"
}

// Transport is where encoded frames go.
type Transport interface {
	Write(frame []byte) error
}

// Sink produces outgoing requests while the link is master.
type Sink interface {
	// OnReload fills dt with the next request. Returning false sends nothing.
	OnReload(dt *datagram.Datagram) bool
	// OnSilence reports that the last targeted request got no answer.
	OnSilence()
}

// HandlerFunc processes one inbound datagram in place.
// On a slave link the rewritten datagram is sent back as the reply.
type HandlerFunc func(dt *datagram.Datagram)

// Config is the per-link timing and addressing.
type Config struct {
	Name             string
	LocalAddress     uint8
	BroadcastAddress uint8
	Reload           time.Duration
	Timeout          time.Duration
	Privilege        Privilege
}

// Stats are monotonically increasing link counters.
type Stats struct {
	Sent     uint64
	Received uint64
	Silences uint64
	Dropped  uint64
}

// Link is a minimal request/response data-link.
// It owns no goroutine: Tick and ProcessPacket are called from the
// dispatch loop.
type Link struct {
	cfg       Config
	tr        Transport
	sink      Sink
	handlers  map[uint8]HandlerFunc
	privilege Privilege
	open      bool
	log       *slog.Logger

	out        *datagram.Datagram
	pending    bool
	pendingDst uint8
	deadline   time.Time
	nextReload time.Time

	stats Stats
}

// New creates a closed link. sink may be nil for slave-only links.
func New(cfg Config, tr Transport, sink Sink, log *slog.Logger) (*Link, error) {
	if tr == nil {
		return nil, errors.New("link: transport required")
	}
	if cfg.Privilege == Master || sink != nil {
		if cfg.Reload <= 0 {
			return nil, errors.New("link: reload interval must be > 0")
		}
		if cfg.Timeout <= 0 || cfg.Timeout >= cfg.Reload {
			return nil, errors.New("link: timeout must be > 0 and shorter than reload")
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Link{
		cfg:       cfg,
		tr:        tr,
		sink:      sink,
		handlers:  make(map[uint8]HandlerFunc),
		privilege: cfg.Privilege,
		log:       log.With("link", cfg.Name),
		out:       datagram.New(cfg.LocalAddress, cfg.BroadcastAddress, 0),
	}, nil
}

// Handle binds a command identifier to a handler.
func (l *Link) Handle(cmd uint8, h HandlerFunc) {
	l.handlers[cmd] = h
}

// Open starts processing. The first reload fires on the next Tick.
func (l *Link) Open() { l.open = true }

// Close stops processing and drops any outstanding request.
func (l *Link) Close() {
	l.open = false
	l.pending = false
}

// Privilege returns the current bus role.
func (l *Link) Privilege() Privilege { return l.privilege }

// SetPrivilege switches the bus role.
// Leaving master drops any outstanding request without raising silence.
func (l *Link) SetPrivilege(p Privilege) {
	if p == l.privilege {
		return
	}
	l.log.Info("privilege changed", "from", l.privilege, "to", p)
	l.privilege = p
	if p != Master {
		l.pending = false
	}
	l.nextReload = time.Time{}
}

// LocalAddress is the address this link answers to.
func (l *Link) LocalAddress() uint8 { return l.cfg.LocalAddress }

// BroadcastAddress is the address every node listens to.
func (l *Link) BroadcastAddress() uint8 { return l.cfg.BroadcastAddress }

// Pending reports whether a targeted request awaits its answer.
func (l *Link) Pending() bool { return l.pending }

// Stats returns a copy of the link counters.
func (l *Link) Stats() Stats { return l.stats }

// Tick advances the link clock: silence detection first, then reload.
func (l *Link) Tick(now time.Time) {
	if !l.open || l.privilege != Master || l.sink == nil {
		return
	}

	if l.pending {
		if now.Before(l.deadline) {
			return
		}
		l.pending = false
		l.stats.Silences++
		l.sink.OnSilence()
		if l.privilege != Master {
			return
		}
	}

	if now.Before(l.nextReload) {
		return
	}
	l.nextReload = now.Add(l.cfg.Reload)

	l.out.Source = l.cfg.LocalAddress
	l.out.Flush()
	if !l.sink.OnReload(l.out) {
		return
	}

	if !l.send(l.out) {
		return
	}
	if l.out.Destination != l.cfg.BroadcastAddress {
		l.pending = true
		l.pendingDst = l.out.Destination
		l.deadline = now.Add(l.cfg.Timeout)
	}
}

// ProcessPacket handles one complete inbound frame.
func (l *Link) ProcessPacket(frame []byte) {
	if !l.open {
		return
	}

	dt, err := datagram.Decode(frame)
	if err != nil {
		l.stats.Dropped++
		l.log.Debug("frame dropped", "error", err, "len", len(frame))
		return
	}
	if dt.Destination != l.cfg.LocalAddress && dt.Destination != l.cfg.BroadcastAddress {
		return
	}
	l.stats.Received++

	broadcast := dt.Destination == l.cfg.BroadcastAddress

	if l.privilege == Master {
		if l.pending && dt.Source == l.pendingDst {
			l.pending = false
		}
		if h := l.handlers[dt.Command]; h != nil {
			h(dt)
		}
		return
	}

	h := l.handlers[dt.Command]
	if h == nil {
		l.log.Debug("no handler", "cmd", dt.Command, "src", dt.Source)
		return
	}
	h(dt)

	// A handler answers by readdressing the datagram; one that leaves it
	// addressed to us has nothing to say.
	if !broadcast && dt.Destination != l.cfg.LocalAddress {
		l.send(dt)
	}
}

func (l *Link) send(dt *datagram.Datagram) bool {
	frame, err := dt.MarshalBinary()
	if err != nil {
		l.log.Warn("encode failed", "error", err, "cmd", dt.Command)
		return false
	}
	if err := l.tr.Write(frame); err != nil {
		l.log.Warn("write failed", "error", err)
		return false
	}
	l.stats.Sent++
	return true
}
