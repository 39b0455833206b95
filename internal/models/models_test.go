// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package models

import "testing"

func TestNewCastCredit_SetsOnlyMovieSide(t *testing.T) {
	c := NewCastCredit(MediaRef{Kind: MediaMovie, ID: 550}, "52fe4250c3a36847f80149f3", 819, "Narrator", 0)

	if c.MovieID == nil || *c.MovieID != 550 {
		t.Fatalf("MovieID = %v, want 550", c.MovieID)
	}
	if c.ShowID != nil {
		t.Errorf("ShowID = %v, want nil", *c.ShowID)
	}
	if c.Department != nil || c.Job != nil {
		t.Error("cast credit must not carry a crew payload")
	}
	if !c.IsCast() {
		t.Error("IsCast() = false, want true")
	}
	if got := c.Media(); got != (MediaRef{Kind: MediaMovie, ID: 550}) {
		t.Errorf("Media() = %v", got)
	}
}

func TestNewCrewCredit_SetsOnlyShowSide(t *testing.T) {
	c := NewCrewCredit(MediaRef{Kind: MediaShow, ID: 1399}, "5256c8c219c2956ff604858a", 9813, "Writing", "Novel")

	if c.ShowID == nil || *c.ShowID != 1399 {
		t.Fatalf("ShowID = %v, want 1399", c.ShowID)
	}
	if c.MovieID != nil {
		t.Error("MovieID must be nil for a show credit")
	}
	if c.Character != nil || c.Order != nil {
		t.Error("crew credit must not carry a cast payload")
	}
	if c.IsCast() {
		t.Error("IsCast() = true, want false")
	}
}

func TestProviderLinkKey_DistinguishesKinds(t *testing.T) {
	movie := ProviderLink{MediaKind: MediaMovie, MediaID: 10, ProviderID: 8}
	show := ProviderLink{MediaKind: MediaShow, MediaID: 10, ProviderID: 8}

	if movie.Key() == show.Key() {
		t.Errorf("movie and show links share key %q", movie.Key())
	}
	if movie.Key() != "movie:10:8" {
		t.Errorf("Key() = %q, want movie:10:8", movie.Key())
	}
}
