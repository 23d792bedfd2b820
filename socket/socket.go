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

// Package socket wraps raw, non-blocking TCP sockets on top of
// golang.org/x/sys/unix, giving callers the exact would-block/orderly-close
// contract the scheduler and session state machine are written against:
// recv/send return -1 on EAGAIN rather than blocking the calling goroutine.
package socket

import (
	"fmt"
	"net"
	"sync"

	"golang.org/x/sys/unix"
)

// Error wraps a failed syscall with its errno, so callers can log the OS
// error code without string-parsing it back out of error.Error().
type Error struct {
	Op   string
	Errno unix.Errno
}

func (e *Error) Error() string {
	return fmt.Sprintf("socket: %s: %s", e.Op, e.Errno.Error())
}

func (e *Error) Unwrap() error { return e.Errno }

func newErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errno, ok := err.(unix.Errno); ok {
		return &Error{Op: op, Errno: errno}
	}
	return fmt.Errorf("socket: %s: %w", op, err)
}

// Socket owns a single kernel socket descriptor. The zero value is not
// usable; obtain one via Bind, Accept, or Connect. Socket is not safe for
// concurrent use by multiple goroutines on the same instance, mirroring the
// single-holder ownership the scheduler enforces at a higher level.
type Socket struct {
	mu sync.Mutex
	fd int
}

func newSocket(fd int) *Socket {
	return &Socket{fd: fd}
}

// FD returns the underlying file descriptor, for registration with a Poller.
func (s *Socket) FD() int {
	return s.fd
}

// LocalAddr returns the address the socket is bound to, which is the only
// way to learn the port the kernel picked when Bind was called with port 0.
func (s *Socket) LocalAddr() (net.Addr, error) {
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return nil, newErr("getsockname", err)
	}
	return sockaddrToAddr(sa), nil
}

// SetNonBlocking toggles O_NONBLOCK on the descriptor.
func (s *Socket) SetNonBlocking(v bool) error {
	return newErr("set_non_blocking", unix.SetNonblock(s.fd, v))
}

// SetTCPNoDelay toggles Nagle's algorithm on the connection.
func (s *Socket) SetTCPNoDelay(v bool) error {
	n := 0
	if v {
		n = 1
	}
	return newErr("set_tcp_nodelay", unix.SetsockoptInt(s.fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, n))
}

// Bind creates an IPv4 TCP socket bound to addr:port; call Listen on it
// before accepting connections. If addr is empty,
// it binds INADDR_ANY. reuse sets SO_REUSEADDR before binding, letting a
// restarted server reclaim a port still in TIME_WAIT.
func Bind(addr string, port int, reuse bool) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, newErr("socket", err)
	}

	if reuse {
		if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			_ = unix.Close(fd)
			return nil, newErr("setsockopt(SO_REUSEADDR)", err)
		}
	}

	ip, err := resolveIPv4(addr)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip)

	if err = unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, newErr("bind", err)
	}

	return newSocket(fd), nil
}

// Listen marks a bound socket as passive, with backlog pending connections.
func (s *Socket) Listen(backlog int) error {
	return newErr("listen", unix.Listen(s.fd, backlog))
}

// Accept returns a newly connected Socket. On a non-blocking listener with
// no pending connection (or when accept is interrupted by EINTR), it returns
// (nil, nil, true, nil) rather than an error — the "would block" case the
// scheduler's listener loop polls around.
func (s *Socket) Accept() (conn *Socket, peer net.Addr, wouldBlock bool, err error) {
	nfd, sa, aerr := unix.Accept4(s.fd, unix.SOCK_NONBLOCK)
	if aerr != nil {
		if aerr == unix.EAGAIN || aerr == unix.EWOULDBLOCK {
			return nil, nil, true, nil
		}
		if aerr == unix.EINTR {
			return nil, nil, true, nil
		}
		return nil, nil, false, newErr("accept", aerr)
	}

	return newSocket(nfd), sockaddrToAddr(sa), false, nil
}

// Connect opens an outbound TCP connection to addr:port.
func Connect(addr string, port int) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, newErr("socket", err)
	}

	ip, err := resolveIPv4(addr)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip)

	if err = unix.Connect(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, newErr("connect", err)
	}

	return newSocket(fd), nil
}

// Recv reads into buf. It returns the byte count, 0 on orderly peer close,
// and -1 if the socket is non-blocking and no data is currently available.
// Any other failure is returned as an *Error carrying the OS errno.
func (s *Socket) Recv(buf []byte) (int, error) {
	n, err := unix.Read(s.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return -1, nil
		}
		if err == unix.EINTR {
			return -1, nil
		}
		return 0, newErr("recv", err)
	}
	return n, nil
}

// Send writes buf. It returns the byte count transferred, or -1 if the
// socket is non-blocking and the call would block.
func (s *Socket) Send(buf []byte) (int, error) {
	n, err := unix.Write(s.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return -1, nil
		}
		if err == unix.EINTR {
			return -1, nil
		}
		return 0, newErr("send", err)
	}
	return n, nil
}

// Close releases the underlying descriptor. Safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fd < 0 {
		return nil
	}
	err := unix.Close(s.fd)
	s.fd = -1
	return newErr("close", err)
}

// GetHostIP resolves host to an IPv4 dotted-quad string.
func GetHostIP(host string) (string, error) {
	ip, err := resolveIPv4(host)
	if err != nil {
		return "", err
	}
	return net.IP(ip[:]).String(), nil
}

func resolveIPv4(host string) ([4]byte, error) {
	var out [4]byte

	if host == "" {
		return out, nil
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, err := net.LookupIP(host)
		if err != nil {
			return out, newErr("resolve", err)
		}
		for _, candidate := range ips {
			if v4 := candidate.To4(); v4 != nil {
				ip = v4
				break
			}
		}
		if ip == nil {
			return out, fmt.Errorf("socket: resolve: no IPv4 address for %q", host)
		}
	}

	v4 := ip.To4()
	if v4 == nil {
		return out, fmt.Errorf("socket: resolve: %q is not an IPv4 address", host)
	}

	copy(out[:], v4)
	return out, nil
}

func sockaddrToAddr(sa unix.Sockaddr) net.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}
	default:
		return nil
	}
}
