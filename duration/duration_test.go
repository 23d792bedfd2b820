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

package duration_test

import (
	"testing"
	"time"

	"github.com/nabbar/staticd/duration"
)

func TestParse_PlainDuration(t *testing.T) {
	d, err := duration.Parse("5s")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Time() != 5*time.Second {
		t.Fatalf("Time() = %v, want 5s", d.Time())
	}
}

func TestParse_StripsQuotes(t *testing.T) {
	for _, s := range []string{`"1h30m"`, `'1h30m'`} {
		d, err := duration.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if d.Time() != 90*time.Minute {
			t.Fatalf("Parse(%q).Time() = %v, want 1h30m", s, d.Time())
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := duration.Parse("not-a-duration"); err == nil {
		t.Fatal("Parse(invalid) succeeded, want error")
	}
}

func TestDuration_String(t *testing.T) {
	d, err := duration.Parse("2m")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := d.String(), "2m0s"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
