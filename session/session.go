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

// Package session implements the per-connection state machine: parsing one
// HTTP/1.1 request off the wire, resolving it against a document root, and
// streaming the response back, one non-blocking recv/send at a time.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	uuid "github.com/hashicorp/go-uuid"

	liberr "github.com/nabbar/staticd/errors"
	"github.com/nabbar/staticd/httpcodec"
	"github.com/nabbar/staticd/logger"
	"github.com/nabbar/staticd/mimetype"
	"github.com/nabbar/staticd/socket"
)

// Error codes attached to the low-level failures a Session can hit, drawn
// from this package's reserved range so a caller inspecting a logged error
// can classify it with liberr.IsCode instead of matching on message text.
const (
	codeRecvFailed     uint16 = liberr.MinPkgSession + 1
	codeSendFailed     uint16 = liberr.MinPkgSession + 2
	codeFileReadFailed uint16 = liberr.MinPkgSession + 3
)

// State is where a Session sits in the Request -> Response -> (Request|Done)
// cycle.
type State uint8

const (
	StateRequest State = iota
	StateResponse
	StateDone
)

// BufferSize bounds a single recv/send chunk and the read buffer used to
// stream file content.
const BufferSize = 8192

// Conn is the subset of *socket.Socket the state machine depends on,
// narrowed so tests can substitute a fake.
type Conn interface {
	Recv(buf []byte) (int, error)
	Send(buf []byte) (int, error)
	FD() int
	Close() error
}

// Session is one in-flight connection. Exactly one worker ever holds a
// Session at a time; the scheduler enforces that invariant, not this type.
type Session struct {
	ID      string
	Conn    Conn
	DocRoot string
	Log     *logger.Logger

	State           State
	KeepAlive       bool
	TimeoutDeadline time.Time

	buffer       []byte
	bufferOffset int

	file             *os.File
	contentRemaining int64
}

// New wraps conn in a Session ready to receive its first request. docRoot is
// the filesystem root requests are resolved against; timeout sets the
// initial idle deadline.
func New(conn Conn, docRoot string, timeout time.Duration, log *logger.Logger) *Session {
	id, err := uuid.GenerateUUID()
	if err != nil {
		id = "unidentified"
	}

	return &Session{
		ID:              id,
		Conn:            conn,
		DocRoot:         docRoot,
		Log:             log,
		State:           StateRequest,
		KeepAlive:       true,
		TimeoutDeadline: time.Now().Add(timeout),
	}
}

// Close releases the session's open file handle, if any, and the socket.
func (s *Session) Close() error {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	if s.Conn != nil {
		return s.Conn.Close()
	}
	return nil
}

func (s *Session) entry(lvl logger.Level, msg string) *logger.Entry {
	if s.Log == nil {
		return nil
	}
	var e *logger.Entry
	switch lvl {
	case logger.ErrorLevel:
		e = s.Log.Error(msg)
	case logger.WarnLevel:
		e = s.Log.Warn(msg)
	case logger.DebugLevel:
		e = s.Log.Debug(msg)
	default:
		e = s.Log.Info(msg)
	}
	return e.FieldAdd("session", s.ID)
}

// ReceiveRequest advances a Session in StateRequest. It returns true if the
// session has more work to do on this worker turn (still-active), false if
// the caller should return the session to the idle set (waiting on
// readability) or drop it (Done).
func (s *Session) ReceiveRequest() bool {
	buf := make([]byte, BufferSize)

	n, err := s.Conn.Recv(buf)
	if err != nil {
		s.entry(logger.ErrorLevel, "recv failed").ErrorAdd(true, liberr.New(codeRecvFailed, "recv failed", err)).Log()
		s.State = StateDone
		return false
	}
	if n == -1 {
		return false
	}
	if n == 0 {
		s.State = StateDone
		return false
	}

	req, ok := httpcodec.ParseRequest(buf[:n], n)
	if !ok {
		s.setErrorResponse(httpcodec.StatusBadRequest)
		return true
	}

	s.KeepAlive = true
	if v, present := req.Fields.Get("Connection"); present && strings.EqualFold(v, "close") {
		s.KeepAlive = false
	}

	if req.Method != httpcodec.MethodGet {
		s.setErrorResponse(httpcodec.StatusMethodNotAllowed)
		return true
	}

	localPath := s.resolvePath(req.URI)

	f, err := os.Open(localPath)
	if err != nil {
		s.setErrorResponse(httpcodec.StatusNotFound)
		return true
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		s.setErrorResponse(httpcodec.StatusNotFound)
		return true
	}
	fileSize := info.Size()

	fields := httpcodec.Fields{
		"Content-Type":     mimetype.ForPath(req.URI),
		"Content-Encoding": "identity",
		"Connection":       connectionValue(s.KeepAlive),
		"Accept-Ranges":    "bytes",
	}

	status := httpcodec.StatusOK
	start := int64(0)
	end := fileSize - 1

	if rangeHeader, present := req.Fields.Get("Range"); present {
		ranges := httpcodec.ParseRange(rangeHeader)
		if len(ranges) > 0 {
			rs, re, rok := ranges[0].Resolve(fileSize)
			if !rok {
				_ = f.Close()
				s.setErrorResponse(httpcodec.StatusRangeNotSatisfiable)
				return true
			}
			start, end = rs, re
			status = httpcodec.StatusPartialContent
			fields["Content-Range"] = fmt.Sprintf("bytes %d-%d/%d", start, end, fileSize)
		}
	}

	length := end - start + 1
	fields["Content-Length"] = fmt.Sprintf("%d", length)

	if _, err = f.Seek(start, 0); err != nil {
		_ = f.Close()
		s.setErrorResponse(httpcodec.StatusInternalServerError)
		return true
	}

	resp := httpcodec.Response{
		Version: "1.1",
		Status:  status,
		Reason:  status.Reason(),
		Fields:  fields,
	}

	s.file = f
	s.contentRemaining = length
	s.buffer = httpcodec.SerializeResponse(resp)
	s.bufferOffset = 0
	s.State = StateResponse

	return true
}

// resolvePath maps a request URI onto the filesystem: percent-decodes it,
// appends index.html for a directory-style trailing slash, and joins it
// under DocRoot using the host platform's path separator.
func (s *Session) resolvePath(uri string) string {
	decoded := httpcodec.URLDecode(uri)
	if strings.HasSuffix(decoded, "/") {
		decoded += "index.html"
	}
	return filepath.Join(s.DocRoot, filepath.FromSlash(decoded))
}

// setErrorResponse builds one of the small fixed HTML error bodies and
// leaves the session ready to send it, honoring KeepAlive for the next
// Connection header.
func (s *Session) setErrorResponse(status httpcodec.Status) {
	body := fmt.Sprintf(`<html><h1 style="text-align: center">%d: %s</h1></html>`, status, status.Reason())

	resp := httpcodec.Response{
		Version: "1.1",
		Status:  status,
		Reason:  status.Reason(),
		Fields: httpcodec.Fields{
			"Content-Type":   "text/html; charset=utf-8",
			"Content-Length": fmt.Sprintf("%d", len(body)),
			"Connection":     connectionValue(s.KeepAlive),
		},
		Content: []byte(body),
	}

	s.file = nil
	s.contentRemaining = 0
	s.buffer = httpcodec.SerializeResponse(resp)
	s.bufferOffset = 0
	s.State = StateResponse
}

// SendResponse advances a Session in StateResponse, writing as much as it
// can before deadline. It returns true (still-active) once the full
// response has been flushed and the session has transitioned to its next
// state, when deadline passes with part of the response still unsent, or
// after a send error has moved the session to StateDone; false if a send
// would block and the caller should wait for writability.
func (s *Session) SendResponse(deadline time.Time) bool {
	for {
		if s.bufferOffset == len(s.buffer) && s.contentRemaining > 0 {
			chunk := int64(BufferSize)
			if s.contentRemaining < chunk {
				chunk = s.contentRemaining
			}

			read := make([]byte, chunk)
			n, err := s.file.Read(read)
			if err != nil && n == 0 {
				s.entry(logger.ErrorLevel, "file read failed").ErrorAdd(true, liberr.New(codeFileReadFailed, "file read failed", err)).Log()
				s.finishResponse()
				return true
			}

			s.buffer = read[:n]
			s.bufferOffset = 0
			s.contentRemaining -= int64(n)
		}

		n, err := s.Conn.Send(s.buffer[s.bufferOffset:])
		if err != nil {
			s.entry(logger.ErrorLevel, "send failed").ErrorAdd(true, liberr.New(codeSendFailed, "send failed", err)).Log()
			s.State = StateDone
			return true
		}
		if n == -1 {
			return false
		}
		s.bufferOffset += n

		if s.bufferOffset == len(s.buffer) && s.contentRemaining == 0 {
			s.finishResponse()
			return true
		}

		if !time.Now().Before(deadline) {
			return true
		}
	}
}

func (s *Session) finishResponse() {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	if s.KeepAlive {
		s.State = StateRequest
	} else {
		s.State = StateDone
	}
}

func connectionValue(keepAlive bool) string {
	if keepAlive {
		return "keep-alive"
	}
	return "close"
}
