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

package socket_test

import (
	"testing"
	"time"

	"github.com/nabbar/staticd/socket"
)

func TestBindListenAcceptConnectRoundTrip(t *testing.T) {
	ln, err := socket.Bind("127.0.0.1", 0, true)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer ln.Close()

	if err = ln.Listen(8); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if err = ln.SetNonBlocking(true); err != nil {
		t.Fatalf("SetNonBlocking: %v", err)
	}

	// No pending connection yet: Accept must report would-block, not error.
	conn, _, wouldBlock, err := ln.Accept()
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if conn != nil || !wouldBlock {
		t.Fatalf("expected would-block accept on empty backlog")
	}
}

func TestWakePipe_WakeAndDrain(t *testing.T) {
	wp, err := socket.NewWakePipe()
	if err != nil {
		t.Fatalf("NewWakePipe: %v", err)
	}
	defer wp.Close()

	if err = wp.Wake(); err != nil {
		t.Fatalf("Wake: %v", err)
	}

	ready, err := socket.Poll(wp.Reader(), socket.ModeRead, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !ready {
		t.Fatal("expected wake pipe to be readable after Wake")
	}

	if err = wp.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	ready, err = socket.Poll(wp.Reader(), socket.ModeRead, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if ready {
		t.Fatal("expected wake pipe to be drained")
	}
}

func TestGetHostIP(t *testing.T) {
	ip, err := socket.GetHostIP("127.0.0.1")
	if err != nil {
		t.Fatalf("GetHostIP: %v", err)
	}
	if ip != "127.0.0.1" {
		t.Fatalf("GetHostIP = %q", ip)
	}
}
