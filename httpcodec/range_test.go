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

package httpcodec_test

import (
	"testing"

	"github.com/nabbar/staticd/httpcodec"
)

func TestParseRange_Grammar(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing unit prefix", "0-3", 0},
		{"empty spec", "bytes=", 0},
		{"neither bound", "bytes=-", 0},
		{"single range", "bytes=0-3", 1},
		{"multiple ranges", "bytes=0-3,5-7", 2},
		{"suffix length only", "bytes=-500", 1},
		{"start only", "bytes=9500-", 1},
		{"one bad piece invalidates all", "bytes=0-3,bogus", 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := httpcodec.ParseRange(c.header)
			if len(got) != c.want {
				t.Fatalf("len = %d, want %d", len(got), c.want)
			}
		})
	}
}

func TestContentRange_Resolve(t *testing.T) {
	const fileSize = int64(10)

	ptr := func(v int64) *int64 { return &v }

	cases := []struct {
		name      string
		r         httpcodec.ContentRange
		wantStart int64
		wantEnd   int64
		wantOK    bool
	}{
		{
			name:      "both bounds within file",
			r:         httpcodec.ContentRange{Start: ptr(0), End: ptr(3)},
			wantStart: 0,
			wantEnd:   3,
			wantOK:    true,
		},
		{
			name:   "start equals end at last byte is satisfiable",
			r:      httpcodec.ContentRange{Start: ptr(9), End: ptr(9)},
			wantStart: 9,
			wantEnd:   9,
			wantOK:    true,
		},
		{
			name:   "start beyond file size fails",
			r:      httpcodec.ContentRange{Start: ptr(10), End: ptr(10)},
			wantOK: false,
		},
		{
			name:   "end beyond file size fails",
			r:      httpcodec.ContentRange{Start: ptr(0), End: ptr(10)},
			wantOK: false,
		},
		{
			name:   "start after end fails",
			r:      httpcodec.ContentRange{Start: ptr(5), End: ptr(2)},
			wantOK: false,
		},
		{
			name:      "start only extends to last byte",
			r:         httpcodec.ContentRange{Start: ptr(7)},
			wantStart: 7,
			wantEnd:   9,
			wantOK:    true,
		},
		{
			name:      "suffix length of 3 returns last 3 bytes",
			r:         httpcodec.ContentRange{End: ptr(3)},
			wantStart: 7,
			wantEnd:   9,
			wantOK:    true,
		},
		{
			name:   "suffix length of zero is not satisfiable",
			r:      httpcodec.ContentRange{End: ptr(0)},
			wantOK: false,
		},
		{
			name:   "suffix length exceeding file size clamps to negative start and fails",
			r:      httpcodec.ContentRange{End: ptr(20)},
			wantOK: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start, end, ok := c.r.Resolve(fileSize)
			if ok != c.wantOK {
				t.Fatalf("ok = %v, want %v", ok, c.wantOK)
			}
			if !c.wantOK {
				return
			}
			if start != c.wantStart || end != c.wantEnd {
				t.Fatalf("got [%d,%d], want [%d,%d]", start, end, c.wantStart, c.wantEnd)
			}
		})
	}
}
