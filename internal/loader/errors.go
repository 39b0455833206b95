// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import "errors"

var (
	// ErrRunInProgress is returned by RunSync while another run executes.
	ErrRunInProgress = errors.New("loader: sync run already in progress")

	// ErrUnknownMode is returned by RunSync for a mode other than full or incremental.
	ErrUnknownMode = errors.New("loader: unknown sync mode")
)
