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

// Package logger provides the structured, chainable logging entry used
// throughout staticd, backed by logrus. Call sites build an Entry, add
// fields/errors/data to it, then Log().
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Fields is a flat map of structured log fields.
type Fields map[string]interface{}

// Entry is a single log record under construction. Every Logger method that
// returns *Entry allows chaining: FieldAdd/FieldMerge/DataSet/ErrorAdd all
// return the receiver.
type Entry struct {
	log *logrus.Logger

	Time    time.Time
	Level   Level
	Message string
	Error   []error
	Data    interface{}
	Fields  Fields
}

func newEntry(log *logrus.Logger, lvl Level, msg string) *Entry {
	return &Entry{
		log:     log,
		Time:    time.Now(),
		Level:   lvl,
		Message: msg,
		Fields:  make(Fields),
	}
}

// FieldAdd sets a single field and returns the Entry for chaining.
func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	if e == nil {
		return nil
	}
	if e.Fields == nil {
		e.Fields = make(Fields)
	}
	e.Fields[key] = val
	return e
}

// FieldMerge copies every key in f into the Entry's fields, overwriting
// any existing key of the same name.
func (e *Entry) FieldMerge(f Fields) *Entry {
	if e == nil {
		return nil
	}
	if e.Fields == nil {
		e.Fields = make(Fields)
	}
	for k, v := range f {
		e.Fields[k] = v
	}
	return e
}

// FieldClean discards all fields accumulated so far.
func (e *Entry) FieldClean() *Entry {
	if e == nil {
		return nil
	}
	e.Fields = make(Fields)
	return e
}

// DataSet attaches an arbitrary payload to the entry, logged under the
// "data" field.
func (e *Entry) DataSet(data interface{}) *Entry {
	if e == nil {
		return nil
	}
	e.Data = data
	return e
}

// ErrorAdd appends one or more errors to the entry. When cleanNil is true,
// nil errors in err are skipped instead of being recorded as "<nil>".
func (e *Entry) ErrorAdd(cleanNil bool, err ...error) *Entry {
	if e == nil {
		return nil
	}
	for _, er := range err {
		if er == nil && cleanNil {
			continue
		}
		e.Error = append(e.Error, er)
	}
	return e
}

// ErrorClean discards every error accumulated so far.
func (e *Entry) ErrorClean() *Entry {
	if e == nil {
		return nil
	}
	e.Error = nil
	return e
}

// Check reports whether the entry would actually emit a record: NilLevel
// never logs, and any level above the logger's configured threshold is
// also suppressed, except that lvlNoErr also passes when the entry carries
// at least one error, letting callers force-log an otherwise-filtered level
// when an error is attached.
func (e *Entry) Check(lvlNoErr Level) bool {
	if e == nil || e.log == nil {
		return false
	}
	if e.Level == NilLevel {
		return false
	}
	if len(e.Error) > 0 && e.Level == lvlNoErr {
		return true
	}
	return e.log.IsLevelEnabled(e.Level.logrus())
}

// Log emits the entry through the underlying logrus.Logger. Safe to call on
// a nil Entry (no-op), so chains built from an inactive Logger degrade
// gracefully.
func (e *Entry) Log() {
	if e == nil || e.log == nil || e.Level == NilLevel {
		return
	}

	fields := logrus.Fields{}
	for k, v := range e.Fields {
		fields[k] = v
	}
	if e.Data != nil {
		fields["data"] = e.Data
	}
	if len(e.Error) > 0 {
		fields["error"] = e.Error
	}

	e.log.WithTime(e.Time).WithFields(fields).Log(e.Level.logrus(), e.Message)
}
