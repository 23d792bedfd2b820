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

// Package duration parses the human-readable duration strings staticd
// accepts in config (session_timeout, and any future *_timeout field) into
// a time.Duration, trimming the quoting a YAML/TOML/JSON source may have
// left in place.
package duration

import (
	"strings"
	"time"
)

// Duration is a time.Duration that knows how to parse itself out of the
// quoted strings a config file loader hands back.
type Duration time.Duration

// Parse accepts anything time.ParseDuration does ("5s", "1h30m", ...),
// first stripping a pair of surrounding single or double quotes left over
// from a config value that was read as a raw string.
func Parse(s string) (Duration, error) {
	s = strings.Trim(s, `"'`)

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return Duration(d), nil
}

// Time converts back to the standard library's time.Duration, the type
// every blocking call in scheduler/session actually wants.
func (d Duration) Time() time.Duration {
	return time.Duration(d)
}

// String renders d using time.Duration's own formatting.
func (d Duration) String() string {
	return time.Duration(d).String()
}
