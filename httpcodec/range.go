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
	"strconv"
	"strings"
)

// ContentRange is a pair of optional absolute byte offsets, interpreted per
// RFC 7233 semantics at serve time (spec.md §3, §4.3).
type ContentRange struct {
	Start    *int64
	End      *int64
}

const rangeUnit = "bytes="

// ParseRange parses the value of a Range header into an ordered sequence of
// ContentRange pairs. A value that doesn't match the "bytes=" grammar
// produces an empty, non-nil slice rather than an error (spec.md §4.1).
// Only the first range is ever acted upon by the session state machine; the
// rest are retained for completeness only.
func ParseRange(header string) []ContentRange {
	if !strings.HasPrefix(header, rangeUnit) {
		return []ContentRange{}
	}

	spec := strings.TrimPrefix(header, rangeUnit)
	parts := strings.Split(spec, ",")
	ranges := make([]ContentRange, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		r, ok := parseOneRange(p)
		if !ok {
			return []ContentRange{}
		}
		ranges = append(ranges, r)
	}

	return ranges
}

func parseOneRange(p string) (ContentRange, bool) {
	i := strings.IndexByte(p, '-')
	if i < 0 {
		return ContentRange{}, false
	}

	startStr, endStr := p[:i], p[i+1:]

	var start, end *int64

	if startStr != "" {
		v, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil || v < 0 {
			return ContentRange{}, false
		}
		start = &v
	}

	if endStr != "" {
		v, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || v < 0 {
			return ContentRange{}, false
		}
		end = &v
	}

	if start == nil && end == nil {
		return ContentRange{}, false
	}

	return ContentRange{Start: start, End: end}, true
}

// Resolve turns r into absolute [start, end] byte offsets against a file of
// size fileSize, per spec.md §4.3 step 7:
//   - both bounds present: start=s, end=e
//   - only start: start=s, end=fileSize-1
//   - only end (suffix length): start=fileSize-e, end=fileSize-1
//   - neither (never reached by ParseRange, listed for completeness): whole file
// ok is false when the resolved range is not satisfiable against fileSize
// (start > end, start >= fileSize, end >= fileSize, or start < 0, which a
// suffix length longer than the file produces).
func (r ContentRange) Resolve(fileSize int64) (start, end int64, ok bool) {
	switch {
	case r.Start != nil && r.End != nil:
		start, end = *r.Start, *r.End
	case r.Start != nil:
		start, end = *r.Start, fileSize-1
	case r.End != nil:
		start, end = fileSize-*r.End, fileSize-1
	default:
		start, end = 0, fileSize-1
	}

	if start > end || start >= fileSize || end >= fileSize || start < 0 {
		return 0, 0, false
	}

	return start, end, true
}
