/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Command collage-node starts a single peer in the runtime. It takes no
// flags beyond -config: process startup flag parsing beyond locating the
// config file is intentionally out of scope, so there is no flag or
// subcommand framework here.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eilecollage/collage/internal/config"
	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/metrics"
	"github.com/eilecollage/collage/internal/node"
	"github.com/eilecollage/collage/internal/transport"
	"github.com/eilecollage/collage/internal/wire"
)

const (
	exitOK          = 0
	exitInitFailure = 1
	exitConnectFail = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a RuntimeConfig file (yaml/json/toml)")
	flag.Parse()

	log := logging.New("collage-node")

	var cfg config.RuntimeConfig
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg = config.Default()
		err = cfg.Validate()
	}
	if err != nil {
		log.Error("startup: invalid configuration", logging.Fields{"error": err.Error()})
		return exitInitFailure
	}

	n := node.New(node.Config{ID: wire.GenerateID(), InstanceCacheSize: cfg.Cache.Size}, log)

	listenDesc := cfg.Listen[0]
	conn := transport.NewUnconnectedTCP()
	if !conn.Listen(transport.Description{
		Scheme: transport.Scheme(listenDesc.Scheme),
		Host:   listenDesc.Host,
		Port:   listenDesc.Port,
	}) {
		log.Error("startup: listen failed", logging.Fields{
			"host": listenDesc.Host, "port": listenDesc.Port,
		})
		return exitConnectFail
	}
	n.Listen(conn)
	log.Info("node started", logging.Fields{"id": n.ID().String()})

	if cfg.MetricsAddr != "" {
		reg := metrics.New()
		go func() {
			if err := reg.Serve(cfg.MetricsAddr); err != nil {
				log.Warn("metrics server stopped", logging.Fields{"error": err.Error()})
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("node shutting down", logging.Fields{})
	done := make(chan struct{})
	go func() {
		n.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Warn("shutdown timed out, exiting anyway", logging.Fields{})
	}
	return exitOK
}
