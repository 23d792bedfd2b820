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

import "github.com/sirupsen/logrus"

// Level mirrors logrus.Level ordering so conversion is a straight cast.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	NilLevel
)

var levelString = map[Level]string{
	PanicLevel: "panic",
	FatalLevel: "fatal",
	ErrorLevel: "error",
	WarnLevel:  "warning",
	InfoLevel:  "info",
	DebugLevel: "debug",
	NilLevel:   "nil",
}

func (l Level) String() string {
	if s, ok := levelString[l]; ok {
		return s
	}
	return "unknown"
}

// logrus converts l to its logrus.Level equivalent. NilLevel has no logrus
// equivalent and is only ever used as a "do not log" sentinel in Check.
func (l Level) logrus() logrus.Level {
	return logrus.Level(l)
}

// GetLevelListString returns the name of every level this package defines,
// most severe first, for CLI flag help text.
func GetLevelListString() []string {
	return []string{
		PanicLevel.String(),
		FatalLevel.String(),
		ErrorLevel.String(),
		WarnLevel.String(),
		InfoLevel.String(),
		DebugLevel.String(),
	}
}

// ParseLevel turns a level name (case-insensitive handled by caller) into a
// Level, defaulting to InfoLevel when s isn't recognized.
func ParseLevel(s string) Level {
	for lvl, name := range levelString {
		if name == s {
			return lvl
		}
	}
	return InfoLevel
}
