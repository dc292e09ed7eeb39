package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/catatsuy/listdict/internal/queue"
)

// DefaultMaxItemBytes is the largest accepted data chunk when
// Config.MaxItemBytes is unset.
const DefaultMaxItemBytes = 1 << 20

var ErrObjectTooLarge = errors.New("object too large")

type Config struct {
	ListenAddr   string
	KeepFragment bool
	MaxItemBytes int
	Version      string
	Logger       *slog.Logger
}

type Server struct {
	cfg   Config
	queue *queue.Queue

	mu        sync.RWMutex
	listener  net.Listener
	readyCh   chan struct{}
	readyOnce sync.Once
	closed    bool

	logger *slog.Logger
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxItemBytes <= 0 {
		cfg.MaxItemBytes = DefaultMaxItemBytes
	}
	if cfg.Version == "" {
		cfg.Version = "(devel)"
	}

	return &Server{
		cfg: cfg,
		queue: queue.New(
			queue.WithKeepFragment(cfg.KeepFragment),
			queue.WithLogger(logger),
		),
		readyCh: make(chan struct{}),
		logger:  logger,
	}
}

// Queue returns the queue served by s.
func (s *Server) Queue() *queue.Queue {
	return s.queue
}

func (s *Server) Ready() <-chan struct{} {
	return s.readyCh
}

func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.readyCh) })

	s.logger.Info("listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.Warn("temporary accept error", "err", err)
				continue
			}
			s.logger.Error("accept error", "err", err)
			return err
		}

		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
