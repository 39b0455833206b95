// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package parser

import (
	"slices"

	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// Media is the relationship view of a parsed movie or show: its identity
// plus the credits and provider links derived from the same payload.
type Media struct {
	Ref     models.MediaRef
	Credits []models.Credit
	Links   []models.ProviderLink
}

// PersonIDs returns the distinct person ids referenced by the credits.
func (m Media) PersonIDs() []int64 {
	seen := make(map[int64]struct{}, len(m.Credits))
	ids := make([]int64, 0, len(m.Credits))
	for _, c := range m.Credits {
		if _, ok := seen[c.PersonID]; ok {
			continue
		}
		seen[c.PersonID] = struct{}{}
		ids = append(ids, c.PersonID)
	}
	return ids
}

// MovieMedia derives the relationship view of a movie payload.
func MovieMedia(raw *tmdb.Movie, opts Options) Media {
	ref := models.MediaRef{Kind: models.MediaMovie, ID: raw.ID}
	return Media{
		Ref:     ref,
		Credits: Credits(ref, raw.Credits),
		Links:   ProviderLinks(ref, raw.WatchProviders, opts.Region, opts.ExcludedProviders),
	}
}

// ShowMedia derives the relationship view of a show payload. seasonCredits
// are folded into the show's own credits, de-duplicated by credit id.
func ShowMedia(raw *tmdb.Show, seasonCredits []*tmdb.Credits, opts Options) Media {
	ref := models.MediaRef{Kind: models.MediaShow, ID: raw.ID}
	blocks := make([]*tmdb.Credits, 0, 1+len(seasonCredits))
	blocks = append(blocks, raw.Credits)
	blocks = append(blocks, seasonCredits...)
	return Media{
		Ref:     ref,
		Credits: Credits(ref, blocks...),
		Links:   ProviderLinks(ref, raw.WatchProviders, opts.Region, opts.ExcludedProviders),
	}
}

// Credits flattens cast and crew of every block into credit rows owned by
// ref. The first occurrence of a credit id wins; entries without a credit
// id are dropped.
func Credits(ref models.MediaRef, blocks ...*tmdb.Credits) []models.Credit {
	seen := make(map[string]struct{})
	var credits []models.Credit
	add := func(c models.Credit) {
		if c.ID == "" {
			return
		}
		if _, dup := seen[c.ID]; dup {
			return
		}
		seen[c.ID] = struct{}{}
		credits = append(credits, c)
	}

	for _, block := range blocks {
		if block == nil {
			continue
		}
		for _, c := range block.Cast {
			add(models.NewCastCredit(ref, c.CreditID, c.ID, c.Character, c.Order))
		}
		for _, c := range block.Crew {
			add(models.NewCrewCredit(ref, c.CreditID, c.ID, c.Department, c.Job))
		}
	}
	return credits
}

// ProviderLinks returns the flatrate providers of region minus excluded.
func ProviderLinks(ref models.MediaRef, wp *tmdb.WatchProviders, region string, excluded []int) []models.ProviderLink {
	if wp == nil {
		return nil
	}
	available, ok := wp.Results[region]
	if !ok {
		return nil
	}

	seen := make(map[int]struct{}, len(available.Flatrate))
	links := make([]models.ProviderLink, 0, len(available.Flatrate))
	for _, p := range available.Flatrate {
		if slices.Contains(excluded, p.ProviderID) {
			continue
		}
		if _, dup := seen[p.ProviderID]; dup {
			continue
		}
		seen[p.ProviderID] = struct{}{}
		links = append(links, models.ProviderLink{
			MediaKind:  ref.Kind,
			MediaID:    ref.ID,
			ProviderID: p.ProviderID,
		})
	}
	return links
}
