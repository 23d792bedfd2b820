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

// Package httpcodec implements the HTTP/1.1 request/response wire format
// used by the rest of staticd: parsing and serializing request/status
// lines and header fields, decoding percent-encoded URIs, and parsing
// Range headers. Parse failures are total: callers get a boolean or an
// empty slice back, never a panic or thrown error.
package httpcodec

// Status is a recognized HTTP/1.1 status code with its standard reason phrase.
type Status uint16

// NotSet is the zero value for an uninitialized HttpResponse.
const NotSet Status = 0

const (
	StatusContinue           Status = 100
	StatusSwitchingProtocols Status = 101
	StatusOK                 Status = 200
	StatusCreated            Status = 201
	StatusAccepted           Status = 202
	StatusNonAuthoritative   Status = 203
	StatusNoContent          Status = 204
	StatusResetContent       Status = 205
	StatusPartialContent     Status = 206
	StatusMultipleChoices    Status = 300
	StatusMovedPermanently   Status = 301
	StatusFound              Status = 302
	StatusSeeOther           Status = 303
	StatusNotModified        Status = 304
	StatusUseProxy           Status = 305
	StatusTemporaryRedirect  Status = 307
	StatusBadRequest         Status = 400
	StatusUnauthorized       Status = 401
	StatusPaymentRequired    Status = 402
	StatusForbidden          Status = 403
	StatusNotFound           Status = 404
	StatusMethodNotAllowed   Status = 405
	StatusNotAcceptable      Status = 406
	StatusProxyAuthRequired  Status = 407
	StatusRequestTimeout     Status = 408
	StatusConflict           Status = 409
	StatusGone               Status = 410
	StatusLengthRequired     Status = 411
	StatusPreconditionFailed Status = 412
	StatusPayloadTooLarge    Status = 413
	StatusURITooLong         Status = 414
	StatusUnsupportedMedia   Status = 415
	StatusRangeNotSatisfiable Status = 416
	StatusExpectationFailed  Status = 417
	StatusInternalServerError Status = 500
	StatusNotImplemented     Status = 501
	StatusBadGateway         Status = 502
	StatusServiceUnavailable Status = 503
	StatusGatewayTimeout     Status = 504
	StatusHTTPVersionUnsup   Status = 505
)

var reasonPhrase = map[Status]string{
	StatusContinue:            "Continue",
	StatusSwitchingProtocols:  "Switching Protocols",
	StatusOK:                  "OK",
	StatusCreated:             "Created",
	StatusAccepted:            "Accepted",
	StatusNonAuthoritative:    "Non-Authoritative Information",
	StatusNoContent:           "No Content",
	StatusResetContent:        "Reset Content",
	StatusPartialContent:      "Partial Content",
	StatusMultipleChoices:     "Multiple Choices",
	StatusMovedPermanently:    "Moved Permanently",
	StatusFound:                "Found",
	StatusSeeOther:            "See Other",
	StatusNotModified:         "Not Modified",
	StatusUseProxy:            "Use Proxy",
	StatusTemporaryRedirect:   "Temporary Redirect",
	StatusBadRequest:          "Bad Request",
	StatusUnauthorized:        "Unauthorized",
	StatusPaymentRequired:     "Payment Required",
	StatusForbidden:           "Forbidden",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusNotAcceptable:       "Not Acceptable",
	StatusProxyAuthRequired:   "Proxy Authentication Required",
	StatusRequestTimeout:      "Request Timeout",
	StatusConflict:            "Conflict",
	StatusGone:                "Gone",
	StatusLengthRequired:      "Length Required",
	StatusPreconditionFailed:  "Precondition Failed",
	StatusPayloadTooLarge:     "Payload Too Large",
	StatusURITooLong:          "URI Too Long",
	StatusUnsupportedMedia:    "Unsupported Media Type",
	StatusRangeNotSatisfiable: "Range Not Satisfiable",
	StatusExpectationFailed:   "Expectation Failed",
	StatusInternalServerError: "Internal Server Error",
	StatusNotImplemented:      "Not Implemented",
	StatusBadGateway:          "Bad Gateway",
	StatusServiceUnavailable:  "Service Unavailable",
	StatusGatewayTimeout:      "Gateway Timeout",
	StatusHTTPVersionUnsup:    "HTTP Version Not Supported",
}

// Reason returns the standard reason phrase for s, or "" if s is not recognized.
func (s Status) Reason() string {
	return reasonPhrase[s]
}

// Recognized reports whether s is one of the status codes this codec knows.
func (s Status) Recognized() bool {
	if s == NotSet {
		return false
	}
	_, ok := reasonPhrase[s]
	return ok
}
