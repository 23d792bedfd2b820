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

// Package errors gives every component a coded error it can log and that
// callers further up the stack can classify without string-matching the
// message: session, scheduler and friends each own a range of codes (see
// modules.go) and attach one to every error they report.
package errors

import (
	stderrors "errors"
	"fmt"
)

// UnknownError is the code attached to failures that didn't come from an
// explicit New call with one of the reserved per-package codes — currently
// only NewErrorRecovered, for a panic with nothing more specific to report.
const UnknownError uint16 = 0

// Error is a regular error plus the coded classification and call-site
// trace staticd's logger records alongside the message.
type Error interface {
	error

	// Code is the uint16 the failing component reserved for this failure,
	// or UnknownError if none applies.
	Code() uint16

	// Unwrap exposes the chain of causes passed to New/NewErrorRecovered,
	// so errors.Is and errors.As both see through a coded error to what's
	// underneath it.
	Unwrap() []error
}

type codedError struct {
	code    uint16
	message string
	parents []error
	frame   frame
}

// New records a coded error, capturing the file:line of its caller so the
// logged entry points back at the failing call site rather than at New
// itself. Nil entries in parent are dropped.
func New(code uint16, message string, parent ...error) Error {
	return &codedError{
		code:    code,
		message: message,
		parents: dropNil(parent),
		frame:   captureFrame(),
	}
}

// NewErrorRecovered builds a coded error out of a recover()'d panic value,
// tagged UnknownError since a panic carries no per-package code of its
// own. recovered is normally fmt.Sprintf("%v", recover()).
func NewErrorRecovered(message string, recovered string, parent ...error) Error {
	return &codedError{
		code:    UnknownError,
		message: message + ": " + recovered,
		parents: dropNil(parent),
		frame:   captureFrame(),
	}
}

// IsCode reports whether err is, or wraps, a coded Error carrying code.
func IsCode(err error, code uint16) bool {
	var e Error
	if stderrors.As(err, &e) {
		return e.Code() == code
	}
	return false
}

func (e *codedError) Code() uint16 {
	return e.code
}

func (e *codedError) Unwrap() []error {
	return e.parents
}

func (e *codedError) Error() string {
	s := fmt.Sprintf("[#%d] %s", e.code, e.message)
	if e.frame.valid() {
		s += " (" + e.frame.String() + ")"
	}
	for _, p := range e.parents {
		s += ": " + p.Error()
	}
	return s
}

func dropNil(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
