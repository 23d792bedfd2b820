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

package httpcodec

import (
	"bytes"
	"strings"
)

// Method is one of the HTTP/1.1 methods this codec can parse in a request line.
// Only GET is ever served by staticd; the others parse so the state machine
// can answer them with 405 instead of 400.
type Method string

const (
	MethodConnect Method = "CONNECT"
	MethodDelete  Method = "DELETE"
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodTrace   Method = "TRACE"
)

var knownMethods = map[string]Method{
	string(MethodConnect): MethodConnect,
	string(MethodDelete):  MethodDelete,
	string(MethodGet):     MethodGet,
	string(MethodHead):    MethodHead,
	string(MethodOptions): MethodOptions,
	string(MethodPost):    MethodPost,
	string(MethodPut):     MethodPut,
	string(MethodTrace):   MethodTrace,
}

// Fields is a case-sensitive header mapping. Duplicate names are first-wins:
// the value parsed first is retained and later occurrences on the wire are
// ignored (spec.md §4.1). Field order is not preserved (a documented,
// intentional deviation from strict RFC 7230 compliance, spec.md §9).
type Fields map[string]string

// Get returns the value for name, and whether it was present.
func (f Fields) Get(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// Set stores value for name unless name is already present (first-wins).
func (f Fields) Set(name, value string) {
	if _, exists := f[name]; exists {
		return
	}
	f[name] = value
}

// Request is a parsed HTTP/1.1 request line plus headers and body.
type Request struct {
	Method  Method
	URI     string
	Version string
	Fields  Fields
	Content []byte
}

// Response is a status line plus headers and body, ready to serialize or as
// parsed from the wire.
type Response struct {
	Version string
	Status  Status
	Reason  string
	Fields  Fields
	Content []byte
}

const crlf = "\r\n"

// ParseRequest parses buf as a single HTTP/1.1 request. It succeeds only if
// buf contains the CRLFCRLF end-of-headers marker; bytes after it (up to
// bodyLen) become Content. A malformed request line, an unrecognized
// method, or a malformed header line fails the parse (ok == false) without
// panicking — spec.md §4.1's "total, non-throwing" error mode.
func ParseRequest(buf []byte, bodyLen int) (req Request, ok bool) {
	idx := bytes.Index(buf, []byte(crlf+crlf))
	if idx < 0 {
		return Request{}, false
	}

	head := string(buf[:idx])
	lines := strings.Split(head, crlf)
	if len(lines) < 1 {
		return Request{}, false
	}

	method, uri, version, lok := parseRequestLine(lines[0])
	if !lok {
		return Request{}, false
	}

	fields, fok := parseHeaderLines(lines[1:])
	if !fok {
		return Request{}, false
	}

	body := buf[idx+len(crlf+crlf):]
	if bodyLen >= 0 && bodyLen < len(body) {
		body = body[:bodyLen]
	}

	return Request{
		Method:  method,
		URI:     uri,
		Version: version,
		Fields:  fields,
		Content: body,
	}, true
}

func parseRequestLine(line string) (method Method, uri string, version string, ok bool) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return "", "", "", false
	}

	m, known := knownMethods[parts[0]]
	if !known {
		return "", "", "", false
	}

	const prefix = "HTTP/"
	if !strings.HasPrefix(parts[2], prefix) {
		return "", "", "", false
	}

	return m, parts[1], strings.TrimPrefix(parts[2], prefix), true
}

// ParseResponse parses buf as a single HTTP/1.1 response, symmetric with
// ParseRequest: the status line is "HTTP/" VERSION SP STATUS SP REASON, and
// STATUS must be one of the codes Status recognizes.
func ParseResponse(buf []byte, bodyLen int) (resp Response, ok bool) {
	idx := bytes.Index(buf, []byte(crlf+crlf))
	if idx < 0 {
		return Response{}, false
	}

	head := string(buf[:idx])
	lines := strings.Split(head, crlf)
	if len(lines) < 1 {
		return Response{}, false
	}

	version, status, reason, lok := parseStatusLine(lines[0])
	if !lok {
		return Response{}, false
	}

	fields, fok := parseHeaderLines(lines[1:])
	if !fok {
		return Response{}, false
	}

	body := buf[idx+len(crlf+crlf):]
	if bodyLen >= 0 && bodyLen < len(body) {
		body = body[:bodyLen]
	}

	return Response{
		Version: version,
		Status:  status,
		Reason:  reason,
		Fields:  fields,
		Content: body,
	}, true
}

func parseStatusLine(line string) (version string, status Status, reason string, ok bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return "", 0, "", false
	}

	const prefix = "HTTP/"
	if !strings.HasPrefix(parts[0], prefix) {
		return "", 0, "", false
	}

	code, cok := parseStatusCode(parts[1])
	if !cok || !code.Recognized() {
		return "", 0, "", false
	}

	return strings.TrimPrefix(parts[0], prefix), code, parts[2], true
}

func parseStatusCode(s string) (Status, bool) {
	if len(s) != 3 {
		return 0, false
	}
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return Status(n), true
}

// parseHeaderLines parses "NAME: VALUE" lines, trimming surrounding
// whitespace. An empty name or empty value fails the whole parse
// (spec.md §4.1). First occurrence of a name wins on duplicates.
func parseHeaderLines(lines []string) (Fields, bool) {
	fields := make(Fields, len(lines))

	for _, line := range lines {
		if line == "" {
			continue
		}

		i := strings.IndexByte(line, ':')
		if i < 0 {
			return nil, false
		}

		name := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])
		if name == "" || value == "" {
			return nil, false
		}

		fields.Set(name, value)
	}

	return fields, true
}

// SerializeRequest renders req back onto the wire.
func SerializeRequest(req Request) []byte {
	var b bytes.Buffer

	b.WriteString(string(req.Method))
	b.WriteByte(' ')
	b.WriteString(req.URI)
	b.WriteString(" HTTP/")
	b.WriteString(req.Version)
	b.WriteString(crlf)

	for name, value := range req.Fields {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(crlf)
	}

	b.WriteString(crlf)
	b.Write(req.Content)

	return b.Bytes()
}

// SerializeResponse renders resp back onto the wire.
func SerializeResponse(resp Response) []byte {
	var b bytes.Buffer

	b.WriteString("HTTP/")
	b.WriteString(resp.Version)
	b.WriteByte(' ')
	b.WriteString(statusCodeString(resp.Status))
	b.WriteByte(' ')
	b.WriteString(resp.Reason)
	b.WriteString(crlf)

	for name, value := range resp.Fields {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(crlf)
	}

	b.WriteString(crlf)
	b.Write(resp.Content)

	return b.Bytes()
}

func statusCodeString(s Status) string {
	n := uint16(s)
	buf := [3]byte{}
	buf[0] = byte('0' + n/100%10)
	buf[1] = byte('0' + n/10%10)
	buf[2] = byte('0' + n%10)
	return string(buf[:])
}
