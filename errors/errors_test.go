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

package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"

	liberr "github.com/nabbar/staticd/errors"
)

func TestNew_CarriesCodeAndMessage(t *testing.T) {
	err := liberr.New(liberr.MinPkgSession+1, "recv failed")

	if err.Code() != liberr.MinPkgSession+1 {
		t.Fatalf("Code() = %d, want %d", err.Code(), liberr.MinPkgSession+1)
	}
	if !strings.Contains(err.Error(), "recv failed") {
		t.Fatalf("Error() = %q, want it to contain the message", err.Error())
	}
}

func TestNew_RecordsCallerFrame(t *testing.T) {
	err := liberr.New(0, "boom")

	if !strings.Contains(err.Error(), "errors_test.go:") {
		t.Fatalf("Error() = %q, want it to reference this test file", err.Error())
	}
}

func TestNew_WrapsParent(t *testing.T) {
	cause := stderrors.New("underlying failure")
	err := liberr.New(1, "recv failed", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("errors.Is(err, cause) = false, want true")
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Fatalf("Error() = %q, want it to include the parent's message", err.Error())
	}
}

func TestNew_DropsNilParents(t *testing.T) {
	err := liberr.New(1, "recv failed", nil)
	if got := err.Unwrap(); len(got) != 0 {
		t.Fatalf("Unwrap() = %v, want no parents", got)
	}
}

func TestNewErrorRecovered_CarriesUnknownErrorCode(t *testing.T) {
	err := liberr.NewErrorRecovered("session panic recovered", "index out of range")

	if err.Code() != liberr.UnknownError {
		t.Fatalf("Code() = %d, want UnknownError", err.Code())
	}
	if !strings.Contains(err.Error(), "index out of range") {
		t.Fatalf("Error() = %q, want it to contain the recovered value", err.Error())
	}
}

func TestIsCode(t *testing.T) {
	err := liberr.New(liberr.MinPkgSession+2, "send failed")

	if !liberr.IsCode(err, liberr.MinPkgSession+2) {
		t.Fatal("IsCode matched against its own code = false, want true")
	}
	if liberr.IsCode(err, liberr.MinPkgSession+3) {
		t.Fatal("IsCode matched against a different code = true, want false")
	}
	if liberr.IsCode(stderrors.New("plain error"), 0) {
		t.Fatal("IsCode matched a plain error, want false")
	}
}
