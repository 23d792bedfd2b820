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

// Command staticd serves a document root over HTTP/1.1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nabbar/staticd/config"
	"github.com/nabbar/staticd/logger"
	"github.com/nabbar/staticd/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var configFile string

	cmd := &cobra.Command{
		Use:   "staticd",
		Short: "staticd serves a directory over HTTP/1.1",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, configFile)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to a config file (yaml/json/toml)")
	flags.StringVar(&cfg.BindAddr, "bind-addr", cfg.BindAddr, "address to listen on (empty = all interfaces)")
	flags.IntVar(&cfg.BindPort, "port", cfg.BindPort, "port to listen on")
	flags.StringVar(&cfg.DocRoot, "doc-root", cfg.DocRoot, "directory served as document root")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker goroutine count (0 = hardware concurrency)")
	flags.StringVar(&cfg.SessionTimeout, "session-timeout", cfg.SessionTimeout, "idle session timeout (e.g. 5s)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, fmt.Sprintf("log level (%v)", logger.GetLevelListString()))
	flags.StringVar(&cfg.MetricsListen, "metrics-listen", cfg.MetricsListen, "address:port to expose /metrics and /healthz on (empty = disabled)")

	return cmd
}

func run(ctx context.Context, cfg config.Config, configFile string) error {
	if configFile != "" {
		loader, err := config.NewLoader(configFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg, err = loader.Load(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr)

	srv, err := server.New(cfg, log)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("staticd starting").
		FieldAdd("bind_addr", cfg.BindAddr).
		FieldAdd("port", cfg.BindPort).
		FieldAdd("doc_root", cfg.DocRoot).
		Log()

	return srv.Run(ctx)
}
