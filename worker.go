package main

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"
)

// Used to stamp the Date header. Can be mocked.
var now = time.Now

type WorkerOptions struct {
	Root         string
	ReadTimeout  time.Duration // 0 waits for the client forever
	WriteTimeout time.Duration
	Content      ContentOptions
	Metrics      *Metrics
}

// Worker serves a single file request on one connection and closes it.
// A Worker is never reused.
type Worker struct {
	opts    WorkerOptions
	ctx     context.Context
	conn    net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer
	req     *Request
	target  *Target
	res     *Response
	started time.Time
	closed  bool
}

type stateFunc func(*Worker) stateFunc

func NewWorker(opts WorkerOptions) *Worker {
	return &Worker{opts: opts}
}

// Start runs the worker until the response is written or something fails.
// The worker takes ownership of conn and closes it exactly once.
func (w *Worker) Start(ctx context.Context, conn net.Conn) {
	w.ctx = ctx
	w.conn = conn
	w.reader = bufio.NewReader(conn)
	w.writer = bufio.NewWriter(conn)
	w.started = time.Now()
	w.opts.Metrics.workerStarted()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker panic on %s: %v", w.remoteAddr(), r)
			w.opts.Metrics.failed("panic")
		}
		w.closeConn()
	}()

	if w.opts.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(w.opts.ReadTimeout))
	}
	for state := waitForRequest; state != nil; {
		state = state(w)
	}
}

func (w *Worker) remoteAddr() string {
	if w.conn == nil || w.conn.RemoteAddr() == nil {
		return "(unknown)"
	}
	return w.conn.RemoteAddr().String()
}

func (w *Worker) closeConn() {
	if w.closed {
		return
	}
	w.closed = true
	if err := w.conn.Close(); err != nil {
		logger.Debug("close %s: %v", w.remoteAddr(), err)
	}
	w.opts.Metrics.workerFinished(time.Since(w.started).Seconds())
	logger.Debug("worker finished")
}

// state funcs

func waitForRequest(w *Worker) stateFunc {
	logger.Debug("waiting request from %s", w.remoteAddr())
	r := NewRequestReader(w.reader)
	r.Start()
	select {
	case req := <-r.RequestReceived():
		w.req = req
	case err := <-r.ErrorOccurred():
		// still answer, with whatever was parsed before the failure
		logger.Warn("%s: %v", w.remoteAddr(), err)
		w.opts.Metrics.failed("read")
		w.req = r.Request()
	case <-w.ctx.Done():
		logger.Debug("waitForRequest canceled")
		return finishWorker
	}
	return resolveType
}

func resolveType(w *Worker) stateFunc {
	w.target = ResolveTarget(w.opts.Root, w.req)
	switch {
	case w.target == nil:
		logger.Info("%s: no resource requested", w.remoteAddr())
	case w.target.Escaped:
		logger.Warn("%s: %s escapes the served root", w.remoteAddr(), w.target.Resource)
	default:
		logger.Info("%s: GET %s", w.remoteAddr(), w.target.Resource)
	}
	return writeHeader
}

func writeHeader(w *Worker) stateFunc {
	if w.opts.WriteTimeout > 0 {
		w.conn.SetWriteDeadline(time.Now().Add(w.opts.WriteTimeout))
	}
	w.res = NewResponseHeader(statusFor(w.target), w.target.ContentType(), now())
	if err := WriteResponse(w.writer, w.res); err != nil {
		logger.Error("%s: header: %v", w.remoteAddr(), err)
		w.opts.Metrics.failed("write")
		return finishWorker
	}
	// the status is committed once the header reaches the client
	if err := w.writer.Flush(); err != nil {
		logger.Error("%s: header: %v", w.remoteAddr(), err)
		w.opts.Metrics.failed("write")
		return finishWorker
	}
	return writeBody
}

func writeBody(w *Worker) stateFunc {
	n, err := WriteContent(w.writer, w.target, w.opts.Content)
	w.opts.Metrics.bodyWritten(n)
	if err != nil {
		if errors.Is(err, ErrWrite) {
			logger.Error("%s: body: %v", w.remoteAddr(), err)
			w.opts.Metrics.failed("write")
			return finishWorker
		}
		if !errors.Is(err, ErrImageDecode) {
			// the file went bad after the header was sent
			logger.Error("%s: body: %v", w.remoteAddr(), err)
			w.opts.Metrics.failed("body")
			w.writer.Flush()
			return finishWorker
		}
		// header is already committed, the body stays empty
		logger.Warn("%s: %v", w.remoteAddr(), err)
		w.opts.Metrics.imageDecodeFailed()
	}
	if err := w.writer.Flush(); err != nil {
		logger.Error("%s: flush: %v", w.remoteAddr(), err)
		w.opts.Metrics.failed("write")
		return finishWorker
	}
	w.opts.Metrics.responseWritten(w.res.Status, w.res.Headers.Get("Content-Type"))
	return finishWorker
}

func finishWorker(w *Worker) stateFunc {
	w.closeConn()
	return nil
}
