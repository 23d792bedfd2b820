/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package scheduler multiplexes many concurrent sessions over a bounded
// worker pool: a listener goroutine accepts connections, an idle-poll
// goroutine waits for readiness across the whole idle set in one epoll
// call, and worker goroutines advance whichever sessions are ready, sharing
// a one-second budget per pass so no single connection can hog a worker.
package scheduler

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	liberr "github.com/nabbar/staticd/errors"
	"github.com/nabbar/staticd/logger"
	"github.com/nabbar/staticd/session"
	"github.com/nabbar/staticd/socket"
)

// SessionTimeout is how long a session may sit in the idle set before the
// idle-poll goroutine drops it.
const SessionTimeout = 5 * time.Second

// AcceptPollInterval bounds how often the listener goroutine re-checks for
// shutdown while waiting for a new connection.
const AcceptPollInterval = 500 * time.Millisecond

// maxTimeSlice caps how long a single worker turn may run a ready session,
// regardless of how few sessions are currently active.
const maxTimeSlice = 20 * time.Millisecond

// fairShareBudget is divided across all active sessions to compute each
// worker's per-turn time slice.
const fairShareBudget = 1000 * time.Millisecond

// Metrics receives lifecycle counts from the scheduler. Implementations
// must be safe for concurrent use. A nil Metrics is valid; every call site
// guards against it.
type Metrics interface {
	SessionAccepted()
	SessionTimedOut()
	SessionErrored()
	IdleGaugeSet(n int)
	ActiveGaugeSet(n int)
	ResponseBytesObserve(n float64)
}

type idleEntry struct {
	sess *session.Session
	mode socket.Mode
}

// Config controls a Scheduler's listener address, concurrency, and
// collaborators.
type Config struct {
	BindAddr       string
	BindPort       int
	DocRoot        string
	Workers        int
	MaxConnections int
	SessionTimeout time.Duration
	Metrics        Metrics
	Log            *logger.Logger
}

// Scheduler owns the listen socket and coordinates the listener, idle-poll,
// and worker goroutines described by the readiness model: sessions move
// between an idle set (blocked on I/O) and an active queue (runnable),
// under a single mutex, with a wake-pipe nudging the idle-poll goroutine
// whenever the idle set changes.
type Scheduler struct {
	cfg Config
	log *logger.Logger

	listener *socket.Socket
	poller   *socket.Poller
	wake     *socket.WakePipe
	sem      *semaphore.Weighted

	mu     sync.Mutex
	cond   *sync.Cond
	run    bool
	idle   map[int]idleEntry
	active []*session.Session
}

// New binds the listen socket and prepares the scheduler. It does not start
// accepting connections until Run is called.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = SessionTimeout
	}

	ln, err := socket.Bind(cfg.BindAddr, cfg.BindPort, true)
	if err != nil {
		return nil, err
	}
	if err = ln.Listen(128); err != nil {
		_ = ln.Close()
		return nil, err
	}
	if err = ln.SetNonBlocking(true); err != nil {
		_ = ln.Close()
		return nil, err
	}

	poller, err := socket.NewPoller()
	if err != nil {
		_ = ln.Close()
		return nil, err
	}

	wake, err := socket.NewWakePipe()
	if err != nil {
		_ = ln.Close()
		_ = poller.Close()
		return nil, err
	}
	if err = poller.Add(wake.Reader(), socket.ModeRead); err != nil {
		_ = ln.Close()
		_ = poller.Close()
		_ = wake.Close()
		return nil, err
	}

	s := &Scheduler{
		cfg:      cfg,
		log:      cfg.Log,
		listener: ln,
		poller:   poller,
		wake:     wake,
		idle:     make(map[int]idleEntry),
	}
	s.cond = sync.NewCond(&s.mu)

	if cfg.MaxConnections > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}

	return s, nil
}

// Addr returns the address the listen socket is bound to, useful when the
// configured port was 0 and the kernel picked one.
func (s *Scheduler) Addr() net.Addr {
	addr, err := s.listener.LocalAddr()
	if err != nil {
		return nil
	}
	return addr
}

func (s *Scheduler) entry(lvl logger.Level, msg string) *logger.Entry {
	if s.log == nil {
		return nil
	}
	switch lvl {
	case logger.ErrorLevel:
		return s.log.Error(msg)
	case logger.WarnLevel:
		return s.log.Warn(msg)
	default:
		return s.log.Info(msg)
	}
}

func (s *Scheduler) metric() Metrics {
	return s.cfg.Metrics
}

// dropSession closes sess and releases its slot in the connection cap, if
// one is configured. Call it instead of sess.Close directly for any session
// the scheduler is done with, so MaxConnections stays accurate.
func (s *Scheduler) dropSession(sess *session.Session) {
	_ = sess.Close()
	if s.sem != nil {
		s.sem.Release(1)
	}
}

// Run starts the listener, idle-poll, and worker goroutines and blocks
// until ctx is canceled or Shutdown is called, at which point it unwinds
// every goroutine and returns the first error, if any.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.run = true
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.listenerLoop(gctx)
		return nil
	})
	g.Go(func() error {
		s.idleLoop(gctx)
		return nil
	})
	for i := 0; i < s.cfg.Workers; i++ {
		g.Go(func() error {
			s.workerLoop(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown()
		return nil
	})

	return g.Wait()
}

// Shutdown stops accepting new work and unblocks every goroutine started by
// Run: it clears run, closes the listener, wakes the idle-poll loop, and
// broadcasts to every worker waiting on an empty active queue.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if !s.run {
		s.mu.Unlock()
		return
	}
	s.run = false

	for _, e := range s.idle {
		s.dropSession(e.sess)
	}
	s.idle = make(map[int]idleEntry)
	for _, sess := range s.active {
		s.dropSession(sess)
	}
	s.active = nil
	s.mu.Unlock()

	_ = s.listener.Close()
	_ = s.wake.Wake()
	s.cond.Broadcast()
}

func (s *Scheduler) listenerLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		ready, err := socket.Poll(s.listener.FD(), socket.ModeAccept, AcceptPollInterval)
		if err != nil {
			s.entry(logger.ErrorLevel, "listener poll failed").ErrorAdd(true, err).Log()
			return
		}

		s.mu.Lock()
		running := s.run
		s.mu.Unlock()
		if !running {
			return
		}
		if !ready {
			continue
		}

		for {
			conn, _, wouldBlock, err := s.listener.Accept()
			if err != nil {
				s.entry(logger.ErrorLevel, "accept failed").ErrorAdd(true, err).Log()
				break
			}
			if wouldBlock {
				break
			}

			if s.sem != nil && !s.sem.TryAcquire(1) {
				s.entry(logger.WarnLevel, "connection rejected: at capacity").Log()
				_ = conn.Close()
				continue
			}

			_ = conn.SetNonBlocking(true)
			sess := session.New(conn, s.cfg.DocRoot, s.cfg.SessionTimeout, s.log)

			s.mu.Lock()
			s.idle[conn.FD()] = idleEntry{sess: sess, mode: socket.ModeRead}
			s.mu.Unlock()

			if err = s.poller.Add(conn.FD(), socket.ModeRead); err != nil {
				s.entry(logger.ErrorLevel, "poller add failed").ErrorAdd(true, err).Log()
			}
			if m := s.metric(); m != nil {
				m.SessionAccepted()
			}
			_ = s.wake.Wake()
		}
	}
}

func (s *Scheduler) idleLoop(ctx context.Context) {
	for {
		s.mu.Lock()
		running := s.run
		s.mu.Unlock()
		if !running || ctx.Err() != nil {
			return
		}

		events, err := s.poller.Wait(256, s.cfg.SessionTimeout+100*time.Millisecond)
		if err != nil {
			s.entry(logger.ErrorLevel, "idle poll failed").ErrorAdd(true, err).Log()
			return
		}

		now := time.Now()
		becameActive := false

		s.mu.Lock()
		for _, ev := range events {
			if ev.FD == s.wake.Reader() {
				_ = s.wake.Drain()
				continue
			}

			entry, ok := s.idle[ev.FD]
			if !ok {
				continue
			}

			switch {
			case ev.ErrHup:
				delete(s.idle, ev.FD)
				_ = s.poller.Remove(ev.FD)
				s.dropSession(entry.sess)
			case (entry.mode == socket.ModeRead && ev.Readable) || (entry.mode == socket.ModeWrite && ev.Writable):
				delete(s.idle, ev.FD)
				_ = s.poller.Remove(ev.FD)
				s.active = append(s.active, entry.sess)
				becameActive = true
			}
		}

		for fd, entry := range s.idle {
			if now.Before(entry.sess.TimeoutDeadline) {
				continue
			}
			delete(s.idle, fd)
			_ = s.poller.Remove(fd)
			s.dropSession(entry.sess)
			if m := s.metric(); m != nil {
				m.SessionTimedOut()
			}
			s.entry(logger.WarnLevel, "session idle timeout").FieldAdd("fd", fd).Log()
		}

		if m := s.metric(); m != nil {
			m.IdleGaugeSet(len(s.idle))
			m.ActiveGaugeSet(len(s.active))
		}

		s.mu.Unlock()

		if becameActive {
			s.cond.Broadcast()
		}
	}
}

func (s *Scheduler) workerLoop(ctx context.Context) {
	for {
		s.mu.Lock()
		for len(s.active) == 0 && s.run && ctx.Err() == nil {
			s.cond.Wait()
		}
		if (!s.run || ctx.Err() != nil) && len(s.active) == 0 {
			s.mu.Unlock()
			return
		}

		sess := s.active[0]
		s.active = s.active[1:]
		sliceCount := len(s.active) + 1
		s.mu.Unlock()

		deadline := time.Now().Add(timeSlice(sliceCount))
		stillActive := s.advance(sess, deadline)

		s.mu.Lock()
		switch {
		case sess.State == session.StateDone:
			s.mu.Unlock()
			s.dropSession(sess)
			continue
		case stillActive:
			s.active = append(s.active, sess)
			s.mu.Unlock()
			s.cond.Signal()
		default:
			sess.TimeoutDeadline = time.Now().Add(s.cfg.SessionTimeout)
			mode := socket.ModeRead
			if sess.State == session.StateResponse {
				mode = socket.ModeWrite
			}
			s.idle[sess.Conn.FD()] = idleEntry{sess: sess, mode: mode}
			s.mu.Unlock()
			if err := s.poller.Add(sess.Conn.FD(), mode); err != nil {
				s.entry(logger.ErrorLevel, "poller re-add failed").ErrorAdd(true, err).Log()
			}
			_ = s.wake.Wake()
		}
	}
}

// advance calls into the session state machine for at most one time slice,
// converting a socket error observed by the session into a Done transition
// (the scheduler never lets a per-connection error escape a worker).
func (s *Scheduler) advance(sess *session.Session, deadline time.Time) (stillActive bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered := liberr.NewErrorRecovered("session panic recovered", fmt.Sprintf("%v", r))
			s.entry(logger.ErrorLevel, "session panic recovered").ErrorAdd(true, recovered).Log()
			sess.State = session.StateDone
			stillActive = true
			if m := s.metric(); m != nil {
				m.SessionErrored()
			}
		}
	}()

	switch sess.State {
	case session.StateRequest:
		return sess.ReceiveRequest()
	case session.StateResponse:
		return sess.SendResponse(deadline)
	default:
		return true
	}
}

// timeSlice gives each of n concurrently-active sessions a roughly equal
// share of fairShareBudget, capped at maxTimeSlice.
func timeSlice(n int) time.Duration {
	if n <= 0 {
		n = 1
	}
	d := fairShareBudget / time.Duration(n)
	if d > maxTimeSlice {
		d = maxTimeSlice
	}
	return d
}
