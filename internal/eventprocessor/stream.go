// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/reelsync/internal/logging"
)

// EnsureStream creates the JetStream stream described by cfg, or updates
// its subjects and limits when it already exists.
func EnsureStream(ctx context.Context, url string, cfg StreamConfig) error {
	nc, err := natsgo.Connect(url, natsgo.Name("reelsync-stream-init"))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		return fmt.Errorf("jetstream context: %w", err)
	}

	streamCfg := &natsgo.StreamConfig{
		Name:       cfg.Name,
		Subjects:   cfg.Subjects,
		Retention:  natsgo.LimitsPolicy,
		Storage:    natsgo.FileStorage,
		MaxAge:     cfg.MaxAge,
		Duplicates: cfg.DuplicateWindow,
	}

	_, err = js.StreamInfo(cfg.Name, natsgo.Context(ctx))
	switch {
	case errors.Is(err, natsgo.ErrStreamNotFound):
		if _, err := js.AddStream(streamCfg, natsgo.Context(ctx)); err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
		logging.Info().Str("stream", cfg.Name).Strs("subjects", cfg.Subjects).Msg("[EVENTS] Stream created")
	case err != nil:
		return fmt.Errorf("stream info %s: %w", cfg.Name, err)
	default:
		if _, err := js.UpdateStream(streamCfg, natsgo.Context(ctx)); err != nil {
			return fmt.Errorf("update stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}
