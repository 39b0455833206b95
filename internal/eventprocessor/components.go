// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/reelsync/internal/loader"
	"github.com/tomtom215/reelsync/internal/logging"
)

// Components owns the event publishing stack: the optional embedded
// server, the stream and the publisher.
type Components struct {
	cfg ComponentsConfig

	mu        sync.RWMutex
	server    *EmbeddedServer
	publisher *Publisher
}

// NewComponents creates Components. Nothing connects until Start.
func NewComponents(cfg ComponentsConfig) *Components {
	return &Components{cfg: cfg}
}

// Start launches the embedded server when configured, provisions the
// stream and connects the publisher.
func (c *Components) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publisher != nil {
		return nil
	}

	pubCfg := c.cfg.Publisher
	if c.cfg.Embedded {
		srv, err := NewEmbeddedServer(&c.cfg.Server, c.cfg.StartupTimeout)
		if err != nil {
			return err
		}
		c.server = srv
		pubCfg.URL = srv.ClientURL()
		pubCfg.JetStream = srv.JetStreamEnabled()
		logging.Info().Str("url", pubCfg.URL).Bool("jetstream", pubCfg.JetStream).Msg("[EVENTS] Embedded NATS server started")
	}

	if pubCfg.JetStream {
		if err := EnsureStream(ctx, pubCfg.URL, c.cfg.Stream); err != nil {
			c.stopServer(ctx)
			return err
		}
	}

	pub, err := NewPublisher(pubCfg, nil)
	if err != nil {
		c.stopServer(ctx)
		return err
	}
	c.publisher = pub
	return nil
}

// Shutdown closes the publisher, then the embedded server.
func (c *Components) Shutdown(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("[EVENTS] Publisher close failed")
		}
		c.publisher = nil
	}
	c.stopServer(ctx)
}

func (c *Components) stopServer(ctx context.Context) {
	if c.server == nil {
		return
	}
	if err := c.server.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("[EVENTS] Embedded NATS server shutdown incomplete")
	}
	c.server = nil
}

// IsRunning reports whether the publisher is connected.
func (c *Components) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.publisher != nil
}

// PublishRunCompleted publishes summary. It fails with ErrNotStarted
// outside Start and Shutdown.
func (c *Components) PublishRunCompleted(ctx context.Context, summary *loader.RunSummary) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.publisher == nil {
		return fmt.Errorf("publish run %s: %w", summary.ID, ErrNotStarted)
	}
	return c.publisher.PublishRunCompleted(ctx, summary)
}
