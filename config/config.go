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

// Package config declares staticd's runtime configuration, its validation
// rules, and an optional file-backed loader with hot-reload.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is every knob the server constructor accepts. Defaults match
// spec.md's external interface: port 80, document root "./httpdocs",
// worker count equal to hardware concurrency, 5s session timeout.
type Config struct {
	BindAddr       string `mapstructure:"bind_addr" validate:"omitempty,ip|hostname"`
	BindPort       int    `mapstructure:"bind_port" validate:"gte=0,lte=65535"`
	DocRoot        string `mapstructure:"doc_root" validate:"required"`
	Workers        int    `mapstructure:"workers" validate:"gte=0"`
	SessionTimeout string `mapstructure:"session_timeout" validate:"required"`
	LogLevel       string `mapstructure:"log_level" validate:"omitempty,oneof=panic fatal error warning info debug"`
	MetricsListen  string `mapstructure:"metrics_listen" validate:"omitempty,hostname_port"`
}

// Default returns the configuration spec.md's external interface describes
// for an unconfigured process.
func Default() Config {
	return Config{
		BindAddr:       "",
		BindPort:       80,
		DocRoot:        "httpdocs",
		Workers:        0,
		SessionTimeout: "5s",
		LogLevel:       "info",
	}
}

var validate = validator.New()

// Validate checks every struct tag and returns a single aggregated error
// describing every violation, or nil if c is well-formed.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		msg := "invalid configuration:"
		for _, fe := range verrs {
			msg += fmt.Sprintf(" %s failed on %q;", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
