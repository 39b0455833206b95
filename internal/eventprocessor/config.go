// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package eventprocessor

import (
	"time"

	"github.com/tomtom215/reelsync/internal/config"
)

// DefaultTopic is the subject run events are published on.
const DefaultTopic = "sync.run.completed"

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL   string
	Topic string

	// JetStream publishes through the JetStream API and waits for the
	// stream ack. The stream must exist; see EnsureStream.
	JetStream bool

	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		Topic:            DefaultTopic,
		JetStream:        true,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int // -1 picks a random free port
	JetStream         bool
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		JetStream:         true,
		StoreDir:          "/data/nats",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 1 << 30,   // 1GB
	}
}

// StreamConfig defines the run event stream.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	DuplicateWindow time.Duration
}

// DefaultStreamConfig returns the stream capturing topic.
func DefaultStreamConfig(topic string) StreamConfig {
	return StreamConfig{
		Name:            "SYNC_RUNS",
		Subjects:        []string{topic},
		MaxAge:          30 * 24 * time.Hour,
		DuplicateWindow: 2 * time.Minute,
	}
}

// ComponentsConfig is everything Components needs.
type ComponentsConfig struct {
	Embedded       bool
	Server         ServerConfig
	Publisher      PublisherConfig
	Stream         StreamConfig
	StartupTimeout time.Duration
}

// ComponentsConfigFromConfig maps the nats section onto ComponentsConfig.
func ComponentsConfigFromConfig(cfg *config.NATSConfig) ComponentsConfig {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	pub := DefaultPublisherConfig(cfg.URL)
	pub.Topic = topic

	srv := DefaultServerConfig()
	if cfg.StoreDir != "" {
		srv.StoreDir = cfg.StoreDir
	}
	return ComponentsConfig{
		Embedded:       cfg.EmbeddedServer,
		Server:         srv,
		Publisher:      pub,
		Stream:         DefaultStreamConfig(topic),
		StartupTimeout: 30 * time.Second,
	}
}
