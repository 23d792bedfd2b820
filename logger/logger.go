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

package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger builds log Entry values at each severity. The zero value is not
// usable; construct with New.
type Logger struct {
	log *logrus.Logger
}

// New creates a Logger writing JSON-formatted records to out at the given
// level. A nil out defaults to os.Stderr, matching the teacher's default
// destination for unconfigured loggers.
func New(lvl Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(lvl.logrus())

	return &Logger{log: l}
}

// SetLevel adjusts the minimum severity the Logger will emit.
func (l *Logger) SetLevel(lvl Level) {
	if l == nil || l.log == nil {
		return
	}
	l.log.SetLevel(lvl.logrus())
}

// SetOutput redirects where subsequent entries are written.
func (l *Logger) SetOutput(out io.Writer) {
	if l == nil || l.log == nil || out == nil {
		return
	}
	l.log.SetOutput(out)
}

func (l *Logger) entry(lvl Level, msg string) *Entry {
	if l == nil {
		return nil
	}
	return newEntry(l.log, lvl, msg)
}

func (l *Logger) Panic(msg string) *Entry { return l.entry(PanicLevel, msg) }
func (l *Logger) Fatal(msg string) *Entry { return l.entry(FatalLevel, msg) }
func (l *Logger) Error(msg string) *Entry { return l.entry(ErrorLevel, msg) }
func (l *Logger) Warn(msg string) *Entry  { return l.entry(WarnLevel, msg) }
func (l *Logger) Info(msg string) *Entry  { return l.entry(InfoLevel, msg) }
func (l *Logger) Debug(msg string) *Entry { return l.entry(DebugLevel, msg) }
