// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/models"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO
// calls from many in-memory databases can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

var testDBMutex sync.Mutex

// setupTestDB creates an in-memory DuckDB database. The semaphore is held
// until the test completes.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Driver:    DriverDuckDB,
		Path:      ":memory:",
		MaxMemory: "1GB",
		// One connection so every query sees the same in-memory database.
		MaxConns: 1,
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Logf("close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testMovie(id int64, title string) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       title,
		Slug:        "slug-" + title,
		Director:    "David Fincher",
		Cast:        "Edward Norton, Brad Pitt, Helena Bonham Carter",
		GenreID:     18,
		LanguageID:  "en",
		ReleaseDate: date(1999, time.October, 15),
		Runtime:     139,
		PosterPath:  "/poster.jpg",
		Overview:    "An insomniac office worker.",
		ImdbID:      "tt0137523",
		Popularity:  61.4,
		VoteAverage: 8.4,
		VoteCount:   27000,
	}
}

func sortedIDs(ids []int64) []int64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestTable_CreateFindUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	movies := db.Movies()

	n, err := movies.CreateMany(ctx, []models.Movie{testMovie(550, "fight-club"), testMovie(551, "other")})
	checkNoError(t, err)
	checkIntEqual(t, "created", n, 2)

	found, err := movies.FindMany(ctx, In("id", []int64{550}))
	checkNoError(t, err)
	checkLen(t, "FindMany(550)", len(found), 1)
	checkStringEqual(t, "title", found[0].Title, "fight-club")
	if !found[0].ReleaseDate.Equal(date(1999, time.October, 15)) {
		t.Errorf("release_date: got %v", found[0].ReleaseDate)
	}

	updated := found[0]
	updated.Title = "Fight Club"
	updated.VoteCount = 30000
	checkNoError(t, movies.UpdateOne(ctx, updated))

	found, err = movies.FindMany(ctx, In("id", []int64{550}))
	checkNoError(t, err)
	checkStringEqual(t, "updated title", found[0].Title, "Fight Club")
	checkIntEqual(t, "updated vote_count", found[0].VoteCount, 30000)

	deleted, err := movies.DeleteMany(ctx, In("id", []int64{550, 999}))
	checkNoError(t, err)
	if deleted != 1 {
		t.Errorf("deleted: expected 1, got %d", deleted)
	}

	ids, err := movies.IDs(ctx)
	checkNoError(t, err)
	if len(ids) != 1 || ids[0] != 551 {
		t.Errorf("IDs() = %v, want [551]", ids)
	}
}

func TestTable_FindManyWithoutConditionsReturnsAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Movies().CreateMany(ctx, []models.Movie{testMovie(1, "a"), testMovie(2, "b"), testMovie(3, "c")})
	checkNoError(t, err)

	all, err := db.Movies().FindMany(ctx)
	checkNoError(t, err)
	checkLen(t, "FindMany()", len(all), 3)

	none, err := db.Movies().FindMany(ctx, In("id", []int64{}))
	checkNoError(t, err)
	checkLen(t, "FindMany(empty IN)", len(none), 0)
}

func TestTable_CreateManyIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Movies().CreateMany(ctx, []models.Movie{testMovie(1, "a")})
	checkNoError(t, err)

	// The second row collides with the stored primary key.
	_, err = db.Movies().CreateMany(ctx, []models.Movie{testMovie(2, "b"), testMovie(1, "dup")})
	if err == nil {
		t.Fatal("expected primary key violation")
	}

	ids, err := db.Movies().IDs(ctx)
	checkNoError(t, err)
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("IDs() after failed batch = %v, want [1]", ids)
	}
}

func TestTable_UpdateOneMissingRow(t *testing.T) {
	db := setupTestDB(t)

	err := db.Movies().UpdateOne(context.Background(), testMovie(42, "ghost"))
	checkErrorIs(t, err, ErrNotFound)
}

func TestTable_DeleteManyRequiresConditions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Movies().CreateMany(ctx, []models.Movie{testMovie(1, "a")})
	checkNoError(t, err)

	_, err = db.Movies().DeleteMany(ctx)
	checkErrorIs(t, err, ErrUnconditionalDelete)

	n, err := db.Movies().DeleteMany(ctx, In("id", []int64{}))
	checkNoError(t, err)
	if n != 0 {
		t.Errorf("delete with empty IN removed %d rows", n)
	}
}

func TestTable_NullablePointersRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	birthday := date(1969, time.August, 18)
	place := "Boston, Massachusetts, USA"
	persons := []models.Person{
		{ID: 819, Name: "Edward Norton", Birthday: &birthday, PlaceOfBirth: &place, ProfilePath: "/norton.jpg"},
		{ID: 287, Name: "Brad Pitt", ProfilePath: "/pitt.jpg"},
	}
	_, err := db.Persons().CreateMany(ctx, persons)
	checkNoError(t, err)

	found, err := db.Persons().FindMany(ctx, In("id", []int64{819, 287}))
	checkNoError(t, err)
	checkLen(t, "persons", len(found), 2)

	byID := map[int64]models.Person{}
	for _, p := range found {
		byID[p.ID] = p
	}
	norton := byID[819]
	if norton.Birthday == nil || !norton.Birthday.Equal(birthday) {
		t.Errorf("birthday: got %v", norton.Birthday)
	}
	if norton.PlaceOfBirth == nil || *norton.PlaceOfBirth != place {
		t.Errorf("place_of_birth: got %v", norton.PlaceOfBirth)
	}
	pitt := byID[287]
	if pitt.Birthday != nil || pitt.Deathday != nil || pitt.PlaceOfBirth != nil {
		t.Error("unset optional fields must read back as nil")
	}
}

func TestTable_CreditsScopedByMedia(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	movie := models.MediaRef{Kind: models.MediaMovie, ID: 550}
	show := models.MediaRef{Kind: models.MediaShow, ID: 550}
	credits := []models.Credit{
		models.NewCastCredit(movie, "c1", 819, "Narrator", 0),
		models.NewCrewCredit(movie, "c2", 7467, "Directing", "Director"),
		models.NewCastCredit(show, "c3", 819, "Himself", 2),
	}
	_, err := db.Credits().CreateMany(ctx, credits)
	checkNoError(t, err)

	movieCredits, err := db.Credits().FindMany(ctx, In("movie_id", []int64{550}))
	checkNoError(t, err)
	checkLen(t, "movie credits", len(movieCredits), 2)
	for _, c := range movieCredits {
		if c.ShowID != nil {
			t.Errorf("credit %s: show_id must be NULL", c.ID)
		}
		if c.ID == "c1" && (c.Order == nil || *c.Order != 0 || c.Job != nil) {
			t.Errorf("cast credit payload lost: %+v", c)
		}
	}

	personCredits, err := db.Credits().FindMany(ctx, In("person_id", []int64{819}), In("show_id", []int64{550}))
	checkNoError(t, err)
	checkLen(t, "show credits of 819", len(personCredits), 1)
}

func TestTable_ProviderLinksCompositeKey(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	links := db.ProviderLinks()

	_, err := links.CreateMany(ctx, []models.ProviderLink{
		{MediaKind: models.MediaMovie, MediaID: 10, ProviderID: 8},
		{MediaKind: models.MediaShow, MediaID: 10, ProviderID: 8},
		{MediaKind: models.MediaMovie, MediaID: 10, ProviderID: 337},
	})
	checkNoError(t, err)

	movieLinks, err := links.FindMany(ctx, In("media_kind", []models.MediaKind{models.MediaMovie}), In("media_id", []int64{10}))
	checkNoError(t, err)
	checkLen(t, "movie links", len(movieLinks), 2)
	if movieLinks[0].MediaKind != models.MediaMovie {
		t.Errorf("media_kind: got %q", movieLinks[0].MediaKind)
	}

	// Every column is part of the key, so there is nothing to update.
	checkNoError(t, links.UpdateOne(ctx, movieLinks[0]))

	n, err := links.DeleteMany(ctx,
		In("media_kind", []models.MediaKind{models.MediaMovie}),
		In("media_id", []int64{10}),
		In("provider_id", []int{337}))
	checkNoError(t, err)
	if n != 1 {
		t.Errorf("deleted %d links, want 1", n)
	}
}

func TestTable_LargeInListIsBatched(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rows := make([]models.Genre, 0, 30)
	for i := 1; i <= 30; i++ {
		rows = append(rows, models.Genre{ID: i, Name: "g", Type: models.GenreBoth})
	}
	_, err := db.Genres().CreateMany(ctx, rows)
	checkNoError(t, err)

	ids := make([]int, 0, 2*maxInValues+5)
	for i := 1; i <= 2*maxInValues+5; i++ {
		ids = append(ids, i)
	}
	found, err := db.Genres().FindMany(ctx, In("id", ids))
	checkNoError(t, err)
	checkLen(t, "genres", len(found), 30)

	n, err := db.Genres().DeleteMany(ctx, In("id", ids))
	checkNoError(t, err)
	if n != 30 {
		t.Errorf("deleted %d genres, want 30", n)
	}
}

func TestRecomputeCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Languages().CreateMany(ctx, []models.Language{
		{ID: "en", Name: "English", Count: 99},
		{ID: "fr", Name: "French"},
		{ID: "ja", Name: "Japanese", Count: 5},
	})
	checkNoError(t, err)
	_, err = db.Providers().CreateMany(ctx, []models.Provider{
		{ID: 8, Name: "Netflix"},
		{ID: 9, Name: "Prime Video", Count: 3},
	})
	checkNoError(t, err)

	fr := testMovie(3, "c")
	fr.LanguageID = "fr"
	_, err = db.Movies().CreateMany(ctx, []models.Movie{testMovie(1, "a"), testMovie(2, "b"), fr})
	checkNoError(t, err)
	_, err = db.ProviderLinks().CreateMany(ctx, []models.ProviderLink{
		{MediaKind: models.MediaMovie, MediaID: 1, ProviderID: 8},
		{MediaKind: models.MediaShow, MediaID: 1, ProviderID: 8},
	})
	checkNoError(t, err)

	checkNoError(t, db.RecomputeCounts(ctx))

	langs, err := db.Languages().FindMany(ctx)
	checkNoError(t, err)
	want := map[string]int{"en": 2, "fr": 1, "ja": 0}
	for _, l := range langs {
		checkIntEqual(t, "count "+l.ID, l.Count, want[l.ID])
	}

	providers, err := db.Providers().FindMany(ctx)
	checkNoError(t, err)
	for _, p := range providers {
		wantCount := 0
		if p.ID == 8 {
			wantCount = 2
		}
		checkIntEqual(t, "provider count "+p.Name, p.Count, wantCount)
	}
}

func TestSyncRuns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	older := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	checkNoError(t, db.CreateSyncRun(ctx, models.SyncRun{ID: "run-1", Mode: "full", StartedAt: older}))
	checkNoError(t, db.CreateSyncRun(ctx, models.SyncRun{ID: "run-2", Mode: "incremental", StartedAt: newer}))

	_, err := db.LastCompletedRun(ctx, "full")
	checkErrorIs(t, err, ErrNotFound)

	checkNoError(t, db.CompleteSyncRun(ctx, "run-1", older.Add(10*time.Minute), `{"movies":{"created":1}}`))
	checkErrorIs(t, db.CompleteSyncRun(ctx, "missing", newer, "{}"), ErrNotFound)

	last, err := db.LastCompletedRun(ctx, "full")
	checkNoError(t, err)
	checkStringEqual(t, "last run", last.ID, "run-1")
	if last.EndedAt == nil || last.Summary == nil {
		t.Fatal("completed run must carry ended_at and summary")
	}

	runs, err := db.ListSyncRuns(ctx, 0)
	checkNoError(t, err)
	checkLen(t, "runs", len(runs), 2)
	checkStringEqual(t, "newest first", runs[0].ID, "run-2")
	if runs[0].EndedAt != nil {
		t.Error("running run must have NULL ended_at")
	}
}

func TestStoresWiring(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	stores := db.Stores()

	_, err := stores.Shows.CreateMany(ctx, []models.Show{{ID: 1399, Name: "Game of Thrones", Slug: "game-of-thrones-2011"}})
	checkNoError(t, err)

	ids, err := stores.Shows.IDs(ctx)
	checkNoError(t, err)
	if got := sortedIDs(ids); len(got) != 1 || got[0] != 1399 {
		t.Errorf("show IDs = %v", got)
	}
	checkNoError(t, db.Ping(ctx))
	checkStringEqual(t, "driver", db.Driver(), DriverDuckDB)
}
