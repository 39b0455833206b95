// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/reelsync/internal/cache"
	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/parser"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

const testEpochYear = "2025"

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

// testDBSemaphore serializes DuckDB usage across tests.
var testDBSemaphore = make(chan struct{}, 1)

var testDBMutex sync.Mutex

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	testDBMutex.Lock()
	db, err := database.New(&config.DatabaseConfig{
		Driver:    database.DriverDuckDB,
		Path:      ":memory:",
		MaxMemory: "1GB",
		MaxConns:  1,
	})
	testDBMutex.Unlock()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testOptions() Options {
	return Options{
		ChunkSize:         500,
		FetchConcurrency:  4,
		UpdateConcurrency: 4,
		Lookback:          72 * time.Hour,
		EpochYear:         2025,
		Parser:            parser.DefaultOptions(),
		Now:               func() time.Time { return testNow },
	}
}

func newTestLoader(t *testing.T, api tmdb.API, stores database.Stores, opts Options) *Loader {
	t.Helper()
	c := cache.New(time.Hour)
	t.Cleanup(c.Close)
	return New(api, stores, c, opts)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func seasonKey(showID int64, season int) string {
	return fmt.Sprintf("%d/%d", showID, season)
}

// fightClub is a valid movie with four cast and two crew credits, on
// providers 8, 78 and 337 in the US.
func fightClub() *tmdb.Movie {
	return &tmdb.Movie{
		ID:               550,
		Title:            "Fight Club",
		OriginalLanguage: "en",
		Overview:         "An insomniac office worker...",
		PosterPath:       strPtr("/fc.jpg"),
		ReleaseDate:      "1999-10-15",
		Runtime:          intPtr(139),
		Genres:           []tmdb.Genre{{ID: 18, Name: "Drama"}},
		Popularity:       61.4,
		VoteAverage:      8.4,
		VoteCount:        30000,
		Credits: &tmdb.Credits{
			Cast: []tmdb.CastMember{
				{ID: 819, CreditID: "c-en", Name: "Edward Norton", Character: "Narrator", Order: 0},
				{ID: 287, CreditID: "c-bp", Name: "Brad Pitt", Character: "Tyler Durden", Order: 1},
				{ID: 1283, CreditID: "c-hbc", Name: "Helena Bonham Carter", Character: "Marla", Order: 2},
				{ID: 7499, CreditID: "c-jl", Name: "Jared Leto", Character: "Angel Face", Order: 3},
			},
			Crew: []tmdb.CrewMember{
				{ID: 7467, CreditID: "c-df", Name: "David Fincher", Department: "Directing", Job: "Director"},
				{ID: 7469, CreditID: "c-ju", Name: "Jim Uhls", Department: "Writing", Job: "Screenplay"},
			},
		},
		ExternalIDs: &tmdb.ExternalIDs{ImdbID: strPtr("tt0137523")},
		ReleaseDates: &tmdb.ReleaseDates{Results: []tmdb.CountryReleaseDates{
			{Country: "US", ReleaseDates: []tmdb.ReleaseDate{{Certification: "R"}}},
		}},
		WatchProviders: &tmdb.WatchProviders{Results: map[string]tmdb.RegionProviders{
			"US": {Flatrate: []tmdb.WatchProvider{{ProviderID: 8}, {ProviderID: 78}, {ProviderID: 337}}},
		}},
	}
}

// thrones is a valid show with a specials season and two regular seasons.
func thrones() *tmdb.Show {
	return &tmdb.Show{
		ID:               1399,
		Name:             "Game of Thrones",
		OriginalLanguage: "en",
		Overview:         "Seven noble families fight for control...",
		PosterPath:       strPtr("/got.jpg"),
		FirstAirDate:     strPtr("2011-04-17"),
		LastAirDate:      strPtr("2019-05-19"),
		Status:           "Ended",
		Genres:           []tmdb.Genre{{ID: 10765, Name: "Sci-Fi & Fantasy"}},
		CreatedBy:        []tmdb.Creator{{ID: 9813, Name: "David Benioff"}},
		Seasons: []tmdb.SeasonSummary{
			{ID: 3627, SeasonNumber: 0, Name: "Specials"},
			{ID: 3624, SeasonNumber: 1, Name: "Season 1", EpisodeCount: 10, AirDate: strPtr("2011-04-17")},
			{ID: 3625, SeasonNumber: 2, Name: "Season 2", EpisodeCount: 10},
		},
		VoteAverage: 8.4,
		VoteCount:   22000,
		Credits: &tmdb.Credits{
			Cast: []tmdb.CastMember{{ID: 22970, CreditID: "s-pd", Name: "Peter Dinklage", Character: "Tyrion", Order: 0}},
		},
		ContentRatings: &tmdb.ContentRatings{Results: []tmdb.ContentRating{{Country: "US", Rating: "TV-MA"}}},
		WatchProviders: &tmdb.WatchProviders{Results: map[string]tmdb.RegionProviders{
			"US": {Flatrate: []tmdb.WatchProvider{{ProviderID: 8}}},
		}},
	}
}

func person(id int64, name string) *tmdb.Person {
	return &tmdb.Person{ID: id, Name: name, ProfilePath: strPtr(fmt.Sprintf("/p%d.jpg", id)), Birthday: strPtr("1969-08-18")}
}

// seededCatalog serves fightClub and thrones. Jared Leto has no profile
// picture, so his person row and credit are never stored.
func seededCatalog() *catalog {
	c := newCatalog()
	c.movies[550] = fightClub()
	c.shows[1399] = thrones()
	for id, name := range map[int64]string{
		819: "Edward Norton", 287: "Brad Pitt", 1283: "Helena Bonham Carter",
		7467: "David Fincher", 7469: "Jim Uhls", 22970: "Peter Dinklage", 1223: "Sean Bean",
	} {
		c.persons[id] = person(id, name)
	}
	c.persons[7499] = &tmdb.Person{ID: 7499, Name: "Jared Leto"}
	c.seasonCredits[seasonKey(1399, 1)] = &tmdb.Credits{
		Cast: []tmdb.CastMember{
			{ID: 1223, CreditID: "s1-sb", Name: "Sean Bean", Character: "Ned Stark", Order: 0},
			{ID: 22970, CreditID: "s-pd", Name: "Peter Dinklage", Character: "Tyrion", Order: 0},
		},
	}
	c.discoverable[tmdb.ResourceMovie] = []int64{550}
	c.discoverable[tmdb.ResourceTV] = []int64{1399}
	return c
}
