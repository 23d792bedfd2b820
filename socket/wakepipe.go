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

import "golang.org/x/sys/unix"

// WakePipe is a connected descriptor pair used to interrupt a blocked
// Poller.Wait when the set of watched descriptors changes. It plays the
// role spec.md's wake_pipe plays for the idle-poll thread: the scheduler
// registers Reader() with its Poller, and any goroutine that mutates the
// idle set writes a byte via Wake() to force the next Wait to return
// promptly instead of sitting out the full poll timeout.
type WakePipe struct {
	r, w int
}

// NewWakePipe creates a connected, non-blocking socket pair.
func NewWakePipe() (*WakePipe, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, newErr("socketpair", err)
	}

	for _, fd := range fds {
		if serr := unix.SetNonblock(fd, true); serr != nil {
			_ = unix.Close(fds[0])
			_ = unix.Close(fds[1])
			return nil, newErr("set_non_blocking", serr)
		}
	}

	return &WakePipe{r: fds[0], w: fds[1]}, nil
}

// Reader returns the descriptor the Poller should watch for readability.
func (w *WakePipe) Reader() int {
	return w.r
}

// Wake writes a single byte, waking anything polling Reader(). EAGAIN
// (pipe already has a pending wake byte) is not an error.
func (w *WakePipe) Wake() error {
	_, err := unix.Write(w.w, []byte{0})
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return nil
	}
	return newErr("wake", err)
}

// Drain empties any pending wake bytes, so the next Wait blocks normally
// until a fresh Wake.
func (w *WakePipe) Drain() error {
	buf := make([]byte, 64)
	for {
		_, err := unix.Read(w.r, buf)
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil
		}
		if err != nil {
			return newErr("drain", err)
		}
	}
}

// Close releases both ends of the pipe.
func (w *WakePipe) Close() error {
	e1 := unix.Close(w.r)
	e2 := unix.Close(w.w)
	if e1 != nil {
		return newErr("close", e1)
	}
	return newErr("close", e2)
}
