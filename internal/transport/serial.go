// internal/transport/serial.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goburrow/serial"

	"github.com/tamzrod/scoreboard-hub/internal/datagram"
)

// ErrNotOpen is returned by Write while the port is down.
var ErrNotOpen = errors.New("transport: port not open")

// Config is the serial line setup of one link.
type Config struct {
	Name     string
	Address  string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string

	// ReadTimeout bounds a single read so cancellation is noticed.
	ReadTimeout time.Duration

	// RS485 lets the driver toggle the transceiver direction (DE/RE)
	// around every write.
	RS485 bool

	// MaxRetryInterval caps the reopen backoff.
	MaxRetryInterval time.Duration
}

type openFunc func(*serial.Config) (serial.Port, error)

// Serial is a framed serial transport.
// Run owns the port; Write may be called from any goroutine.
type Serial struct {
	cfg  Config
	open openFunc
	log  *slog.Logger

	mu   sync.Mutex
	port serial.Port
}

// NewSerial validates cfg and applies line defaults (8N1, 100 ms reads).
func NewSerial(cfg Config, log *slog.Logger) (*Serial, error) {
	if cfg.Address == "" {
		return nil, errors.New("transport: serial address required")
	}
	if cfg.BaudRate <= 0 {
		return nil, fmt.Errorf("transport: invalid baud rate %d", cfg.BaudRate)
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = 1
	}
	if cfg.Parity == "" {
		cfg.Parity = "N"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 100 * time.Millisecond
	}
	if cfg.MaxRetryInterval <= 0 {
		cfg.MaxRetryInterval = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Serial{
		cfg:  cfg,
		open: serial.Open,
		log:  log.With("port", cfg.Name, "address", cfg.Address),
	}, nil
}

func (s *Serial) serialConfig() *serial.Config {
	return &serial.Config{
		Address:  s.cfg.Address,
		BaudRate: s.cfg.BaudRate,
		DataBits: s.cfg.DataBits,
		StopBits: s.cfg.StopBits,
		Parity:   s.cfg.Parity,
		Timeout:  s.cfg.ReadTimeout,
		RS485: serial.RS485Config{
			Enabled:           s.cfg.RS485,
			RtsHighDuringSend: true,
		},
	}
}

// Write sends one encoded frame.
func (s *Serial) Write(frame []byte) error {
	s.mu.Lock()
	p := s.port
	s.mu.Unlock()

	if p == nil {
		return ErrNotOpen
	}
	for len(frame) > 0 {
		n, err := p.Write(frame)
		if err != nil {
			return fmt.Errorf("transport: write %s: %w", s.cfg.Name, err)
		}
		frame = frame[n:]
	}
	return nil
}

// Run opens the port, delivers complete frames to onFrame and reopens
// with exponential backoff on failure. It returns when ctx is done.
func (s *Serial) Run(ctx context.Context, onFrame func(frame []byte)) error {
	for {
		port, err := s.openWithBackoff(ctx)
		if err != nil {
			return nil
		}

		s.setPort(port)
		s.log.Info("serial port open")

		err = s.readLoop(ctx, port, onFrame)
		s.setPort(nil)
		_ = port.Close()

		if ctx.Err() != nil {
			return nil
		}
		s.log.Warn("serial read failed, reopening", "error", err)
	}
}

func (s *Serial) setPort(p serial.Port) {
	s.mu.Lock()
	s.port = p
	s.mu.Unlock()
}

func (s *Serial) openWithBackoff(ctx context.Context) (serial.Port, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = s.cfg.MaxRetryInterval
	b.MaxElapsedTime = 0

	var port serial.Port
	op := func() error {
		p, err := s.open(s.serialConfig())
		if err != nil {
			return err
		}
		port = p
		return nil
	}
	notify := func(err error, next time.Duration) {
		s.log.Warn("serial open failed", "error", err, "retry_in", next)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return port, nil
}

func (s *Serial) readLoop(ctx context.Context, port serial.Port, onFrame func([]byte)) error {
	stop := context.AfterFunc(ctx, func() { _ = port.Close() })
	defer stop()

	var df datagram.Deframer
	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			df.Feed(buf[:n], onFrame)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, serial.ErrTimeout) {
			continue
		}
		return err
	}
}
