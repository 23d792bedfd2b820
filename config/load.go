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

package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/nabbar/staticd/atomic"
)

// Loader reads a Config from a file and can watch it for changes.
type Loader struct {
	v   *viper.Viper
	cur *atomic.Value[Config]
}

// NewLoader creates a Loader that reads path (any format viper supports:
// yaml, json, toml). Every field defaults per Default before the file is
// read, so a partial file only overrides what it sets.
func NewLoader(path string) (*Loader, error) {
	v := viper.New()
	v.SetConfigFile(path)

	d := Default()
	v.SetDefault("bind_addr", d.BindAddr)
	v.SetDefault("bind_port", d.BindPort)
	v.SetDefault("doc_root", d.DocRoot)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("session_timeout", d.SessionTimeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_listen", d.MetricsListen)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	l := &Loader{v: v, cur: atomic.NewValue[Config]()}

	if c, err := l.Load(); err == nil {
		l.cur.Store(c)
	}

	return l, nil
}

// Load unmarshals and validates the current configuration.
func (l *Loader) Load() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Current returns the most recently loaded, valid Config. It is safe to
// call from any goroutine, including while Watch's reload handler runs on
// fsnotify's own goroutine.
func (l *Loader) Current() Config {
	return l.cur.Load()
}

// Watch invokes onChange with the newly loaded Config every time the
// backing file changes. A reload that fails to parse or validate is passed
// to onError (when non-nil) instead of calling onChange; the watcher keeps
// running, and Current keeps returning the last good Config.
func (l *Loader) Watch(onChange func(Config), onError func(error)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		c, err := l.Load()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		l.cur.Store(c)
		onChange(c)
	})
	l.v.WatchConfig()
}
