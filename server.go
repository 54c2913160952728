package main

import (
	"context"
	"errors"
	"net"
)

// Server accepts connections and hands each one to a fresh Worker.
type Server struct {
	Options WorkerOptions
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	worker := NewWorker(s.Options)
	worker.Start(ctx, conn) // worker takes the ownership of |conn|
}

// Serve runs the accept loop until ctx is canceled or the listener fails.
// It returns nil after a cancellation.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()
	defer ln.Close()

	logger.Info("serving %s on %s", s.Options.Root, ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logger.Warn("accept error: %v", err)
				continue
			}
			return err
		}
		go s.handle(ctx, conn)
	}
}
