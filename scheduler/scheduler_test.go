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

package scheduler_test

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nabbar/staticd/scheduler"
)

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello from staticd"), 0o644); err != nil {
		t.Fatal(err)
	}

	sched, err := scheduler.New(scheduler.Config{
		BindAddr: "127.0.0.1",
		BindPort: 0,
		DocRoot:  dir,
		Workers:  2,
	})
	if err != nil {
		t.Fatalf("scheduler.New: %v", err)
	}

	port, err := schedulerPort(sched)
	if err != nil {
		t.Fatalf("reading bound port: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sched.Run(ctx)
		close(done)
	}()

	return "127.0.0.1:" + port, func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not shut down")
		}
	}
}

func schedulerPort(sched *scheduler.Scheduler) (string, error) {
	_, port, err := net.SplitHostPort(sched.Addr().String())
	return port, err
}

func TestScheduler_ServesIndexOverRealSocket(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	var conn net.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, err = net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, err = conn.Write([]byte("GET /index.html HTTP/1.1\r\nConnection: close\r\n\r\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	out, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !strings.HasPrefix(string(out), "HTTP/1.1 200 OK") {
		t.Fatalf("response = %q", out)
	}
	if !strings.HasSuffix(string(out), "hello from staticd") {
		t.Fatalf("body missing: %q", out)
	}
}
