package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/config"
)

// SessionHandler processes a connected Telnet session.
// Implementations handle the command loop for a single client.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for Telnet connections on a TCP port and dispatches
// each connection to a SessionHandler.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	ready    chan struct{}
}

// NewAcceptor creates a Telnet acceptor with the given configuration.
//
// Precondition: cfg must have a supported charset; handler and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Start listens and accepts connections until ctx is cancelled or Stop is
// called, then waits for every session to return.
//
// Postcondition: The listener is closed when this method returns.
func (a *Acceptor) Start(ctx context.Context) error {
	charset, err := Charset(a.cfg.Charset)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.listener = listener
	a.cancel = cancel
	a.mu.Unlock()
	close(a.ready)

	a.logger.Info("telnet acceptor listening", zap.String("addr", listener.Addr().String()))

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		raw, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		a.wg.Add(1)
		go a.handleConn(ctx, NewConn(raw, charset, a.cfg.ReadTimeout, a.cfg.WriteTimeout))
	}

	cancel()
	a.wg.Wait()
	a.logger.Info("telnet acceptor stopped")
	return nil
}

func (a *Acceptor) handleConn(ctx context.Context, conn *Conn) {
	defer a.wg.Done()
	defer conn.Close()
	start := time.Now()
	log := a.logger.With(
		zap.String("session", conn.ID().String()),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	log.Info("client connected")

	if err := conn.Negotiate(); err != nil {
		log.Error("telnet negotiation failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	if err := a.handler.HandleSession(ctx, conn); err != nil {
		log.Debug("session ended", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	log.Info("session ended cleanly", zap.Duration("duration", time.Since(start)))
}

// Stop closes the listener and every open session.
func (a *Acceptor) Stop(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	return nil
}

// Addr blocks until the acceptor listens and returns its address.
func (a *Acceptor) Addr(ctx context.Context) (string, error) {
	select {
	case <-a.ready:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listener.Addr().String(), nil
}
