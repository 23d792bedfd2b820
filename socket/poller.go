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

package socket

import (
	"time"

	"golang.org/x/sys/unix"
)

// Mode selects which readiness condition a poll call waits for. Accept and
// Read both wait on POLLIN; Write waits on POLLOUT — the same distinction
// Socket.cpp's poll() wrapper makes between its Accept/Read/Write modes.
type Mode uint8

const (
	ModeAccept Mode = iota
	ModeRead
	ModeWrite
)

func (m Mode) events() uint32 {
	if m == ModeWrite {
		return unix.EPOLLOUT
	}
	return unix.EPOLLIN
}

// Poll waits until fd is ready for mode, an error/hangup occurs, or timeout
// elapses. It returns true if ready, false on timeout. EINTR is retried
// transparently rather than surfaced to the caller.
func Poll(fd int, mode Mode, timeout time.Duration) (ready bool, err error) {
	ep, err := unix.EpollCreate1(0)
	if err != nil {
		return false, newErr("epoll_create1", err)
	}
	defer unix.Close(ep)

	ev := unix.EpollEvent{Events: mode.events(), Fd: int32(fd)}
	if err = unix.EpollCtl(ep, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return false, newErr("epoll_ctl", err)
	}

	events := make([]unix.EpollEvent, 1)
	ms := int(timeout / time.Millisecond)

	for {
		n, werr := unix.EpollWait(ep, events, ms)
		if werr != nil {
			if werr == unix.EINTR {
				continue
			}
			return false, newErr("epoll_wait", werr)
		}
		return n > 0, nil
	}
}

// Event reports the outcome of a single polled descriptor in a Poller.Wait batch.
type Event struct {
	FD       int
	Readable bool
	Writable bool
	ErrHup   bool
}

// Poller multiplexes readiness across many descriptors in one epoll instance,
// the primitive the readiness scheduler's idle-poll thread uses to wait on
// the whole idle set plus its wake-pipe read end in a single syscall.
type Poller struct {
	epfd int
}

// NewPoller creates an empty epoll instance.
func NewPoller() (*Poller, error) {
	fd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, newErr("epoll_create1", err)
	}
	return &Poller{epfd: fd}, nil
}

// Add registers fd for the given mode. Calling Add twice for the same fd
// without an intervening Remove returns the underlying EEXIST error.
func (p *Poller) Add(fd int, mode Mode) error {
	ev := unix.EpollEvent{Events: mode.events(), Fd: int32(fd)}
	return newErr("epoll_ctl(add)", unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev))
}

// Remove deregisters fd. It is not an error to remove an fd that was never added.
func (p *Poller) Remove(fd int) error {
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT {
		return nil
	}
	return newErr("epoll_ctl(del)", err)
}

// Wait blocks until at least one registered descriptor is ready or timeout
// elapses, returning the subset that are. maxEvents bounds how many are
// reported in a single call.
func (p *Poller) Wait(maxEvents int, timeout time.Duration) ([]Event, error) {
	raw := make([]unix.EpollEvent, maxEvents)
	ms := int(timeout / time.Millisecond)

	n, err := unix.EpollWait(p.epfd, raw, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, newErr("epoll_wait", err)
	}

	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		e := raw[i]
		out = append(out, Event{
			FD:       int(e.Fd),
			Readable: e.Events&unix.EPOLLIN != 0,
			Writable: e.Events&unix.EPOLLOUT != 0,
			ErrHup:   e.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
		})
	}
	return out, nil
}

// Close releases the epoll instance.
func (p *Poller) Close() error {
	return newErr("close", unix.Close(p.epfd))
}
