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

package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// selfPkg is this package's own import path prefix, used to skip past
// New/NewErrorRecovered's own frame when walking the call stack.
var selfPkg = funcPkg()

func funcPkg() string {
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "."); i != -1 {
		return name[:i]
	}
	return name
}

// frame is the single call-site location recorded alongside a coded error:
// just enough to point a reader at the line that raised it.
type frame struct {
	file string
	line int
}

func (f frame) valid() bool {
	return f.file != ""
}

func (f frame) String() string {
	return fmt.Sprintf("%s:%d", filepath.Base(f.file), f.line)
}

// captureFrame walks up the stack past every frame still inside this
// package (New, NewErrorRecovered, and this function itself) and
// returns the first one that isn't, i.e. the caller that actually raised
// the error.
func captureFrame() frame {
	pc := make([]uintptr, 16)
	n := runtime.Callers(2, pc)
	if n == 0 {
		return frame{}
	}

	frames := runtime.CallersFrames(pc[:n])
	for {
		fr, more := frames.Next()
		if !strings.HasPrefix(fr.Function, selfPkg+".") {
			return frame{file: fr.File, line: fr.Line}
		}
		if !more {
			return frame{}
		}
	}
}
