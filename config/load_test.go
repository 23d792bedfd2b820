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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nabbar/staticd/config"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "staticd.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}
	return path
}

func TestLoader_LoadAppliesFileOverDefaults(t *testing.T) {
	path := writeConfigFile(t, "doc_root: /srv/www\nbind_port: 8080\n")

	loader, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	c, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.DocRoot != "/srv/www" {
		t.Fatalf("doc_root: got %q, want /srv/www", c.DocRoot)
	}
	if c.BindPort != 8080 {
		t.Fatalf("bind_port: got %d, want 8080", c.BindPort)
	}
	if c.LogLevel != "info" {
		t.Fatalf("log_level: got %q, want default of info", c.LogLevel)
	}
}

func TestLoader_CurrentReflectsLastGoodLoad(t *testing.T) {
	path := writeConfigFile(t, "doc_root: /srv/www\n")

	loader, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	if got := loader.Current().DocRoot; got != "/srv/www" {
		t.Fatalf("Current().DocRoot: got %q, want /srv/www", got)
	}
}

func TestLoader_RejectsInvalidFile(t *testing.T) {
	path := writeConfigFile(t, "doc_root: \"\"\n")

	loader, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	if _, err = loader.Load(); err == nil {
		t.Fatal("expected validation error for an empty doc_root")
	}
}

func TestLoader_WatchInvokesOnChangeAndUpdatesCurrent(t *testing.T) {
	path := writeConfigFile(t, "doc_root: /srv/www\nbind_port: 8080\n")

	loader, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	changed := make(chan config.Config, 1)
	loader.Watch(func(c config.Config) {
		changed <- c
	}, func(err error) {
		t.Errorf("unexpected reload error: %v", err)
	})

	if err = os.WriteFile(path, []byte("doc_root: /srv/www\nbind_port: 9090\n"), 0o644); err != nil {
		t.Fatalf("rewriting fixture config: %v", err)
	}

	select {
	case c := <-changed:
		if c.BindPort != 9090 {
			t.Fatalf("reloaded bind_port: got %d, want 9090", c.BindPort)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}

	if got := loader.Current().BindPort; got != 9090 {
		t.Fatalf("Current().BindPort after reload: got %d, want 9090", got)
	}
}
