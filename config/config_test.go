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

package config_test

import (
	"testing"

	"github.com/nabbar/staticd/config"
)

func TestDefault_IsValid(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidate_RejectsBadPort(t *testing.T) {
	c := config.Default()
	c.BindPort = 70000
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for an out-of-range port")
	}
}

func TestValidate_AllowsEphemeralPort(t *testing.T) {
	c := config.Default()
	c.BindPort = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("port 0 (OS-chosen) should validate, got: %v", err)
	}
}

func TestValidate_RejectsMissingDocRoot(t *testing.T) {
	c := config.Default()
	c.DocRoot = ""
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for empty doc root")
	}
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	c := config.Default()
	c.LogLevel = "verbose"
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for unrecognized log level")
	}
}
