// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package parser

import (
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// DefaultMinVoteCount is the vote floor of the movie and show gates.
const DefaultMinVoteCount = 64

// topCast is how many cast names are joined into the display string.
const topCast = 3

// Options parameterizes the gates and relationship derivation.
type Options struct {
	MinVoteCount      int
	Region            string
	ExcludedProviders []int
}

// DefaultOptions returns the gate defaults.
func DefaultOptions() Options {
	return Options{
		MinVoteCount:      DefaultMinVoteCount,
		Region:            "US",
		ExcludedProviders: []int{78},
	}
}

// OptionsFromConfig builds Options from the tmdb and sync sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinVoteCount:      cfg.Sync.MinVoteCount,
		Region:            cfg.TMDB.Region,
		ExcludedProviders: cfg.TMDB.ExcludedProviders,
	}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(tmdb.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func optionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := parseDate(*s)
	if !ok {
		return nil
	}
	return &t
}

func optionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func makeSlug(name string, date *time.Time) string {
	if date != nil {
		return slug.Make(name + " " + date.Format("2006"))
	}
	return slug.Make(name)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
