// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package tmdb

import "github.com/tomtom215/reelsync/internal/models"

// Resource is the path segment TMDB uses for a catalog.
type Resource string

const (
	ResourceMovie  Resource = "movie"
	ResourceTV     Resource = "tv"
	ResourcePerson Resource = "person"
)

// ResourceFor maps a media kind to its TMDB resource.
func ResourceFor(kind models.MediaKind) Resource {
	if kind == models.MediaShow {
		return ResourceTV
	}
	return ResourceMovie
}

// Genre is an entry of a genre list or of a title's genres.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is one cast entry of a credits block.
type CastMember struct {
	ID          int64   `json:"id"`
	CreditID    string  `json:"credit_id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath *string `json:"profile_path"`
}

// CrewMember is one crew entry of a credits block.
type CrewMember struct {
	ID         int64  `json:"id"`
	CreditID   string `json:"credit_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Job        string `json:"job"`
}

// Credits is the credits block appended to movie and show details, and
// the body of the season credits endpoint.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type ExternalIDs struct {
	ImdbID *string `json:"imdb_id"`
}

type ReleaseDate struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

type CountryReleaseDates struct {
	Country      string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

type ReleaseDates struct {
	Results []CountryReleaseDates `json:"results"`
}

type ContentRating struct {
	Country string `json:"iso_3166_1"`
	Rating  string `json:"rating"`
}

type ContentRatings struct {
	Results []ContentRating `json:"results"`
}

// WatchProvider is a provider entry inside a title's availability block.
type WatchProvider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// RegionProviders is the availability of a title in one region.
type RegionProviders struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
	Rent     []WatchProvider `json:"rent"`
	Buy      []WatchProvider `json:"buy"`
}

// WatchProviders is keyed by ISO 3166-1 region code.
type WatchProviders struct {
	Results map[string]RegionProviders `json:"results"`
}

// Movie is the movie details payload with credits, external_ids,
// release_dates and watch/providers appended.
type Movie struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	ImdbID           *string         `json:"imdb_id"`
	OriginalLanguage string          `json:"original_language"`
	Overview         string          `json:"overview"`
	PosterPath       *string         `json:"poster_path"`
	ReleaseDate      string          `json:"release_date"`
	Runtime          *int            `json:"runtime"`
	Genres           []Genre         `json:"genres"`
	Popularity       float64         `json:"popularity"`
	VoteAverage      float64         `json:"vote_average"`
	VoteCount        int             `json:"vote_count"`
	Credits          *Credits        `json:"credits"`
	ExternalIDs      *ExternalIDs    `json:"external_ids"`
	ReleaseDates     *ReleaseDates   `json:"release_dates"`
	WatchProviders   *WatchProviders `json:"watch/providers"`
}

type Creator struct {
	ID       int64  `json:"id"`
	CreditID string `json:"credit_id"`
	Name     string `json:"name"`
}

// SeasonSummary is a season entry embedded in show details.
type SeasonSummary struct {
	ID           int64   `json:"id"`
	SeasonNumber int     `json:"season_number"`
	Name         string  `json:"name"`
	EpisodeCount int     `json:"episode_count"`
	AirDate      *string `json:"air_date"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
}

// Show is the TV details payload with credits, content_ratings,
// watch/providers and external_ids appended.
type Show struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	OriginalLanguage string          `json:"original_language"`
	Overview         string          `json:"overview"`
	PosterPath       *string         `json:"poster_path"`
	FirstAirDate     *string         `json:"first_air_date"`
	LastAirDate      *string         `json:"last_air_date"`
	Status           string          `json:"status"`
	Genres           []Genre         `json:"genres"`
	CreatedBy        []Creator       `json:"created_by"`
	Seasons          []SeasonSummary `json:"seasons"`
	Popularity       float64         `json:"popularity"`
	VoteAverage      float64         `json:"vote_average"`
	VoteCount        int             `json:"vote_count"`
	Credits          *Credits        `json:"credits"`
	ContentRatings   *ContentRatings `json:"content_ratings"`
	WatchProviders   *WatchProviders `json:"watch/providers"`
	ExternalIDs      *ExternalIDs    `json:"external_ids"`
}

// Person is the person details payload.
type Person struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           *string `json:"birthday"`
	Deathday           *string `json:"deathday"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	PlaceOfBirth       *string `json:"place_of_birth"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        *string `json:"profile_path"`
}

// IDResult is the part of a changes or discover result the loader reads.
type IDResult struct {
	ID    int64 `json:"id"`
	Adult *bool `json:"adult"`
}

// IDPage is one page of the changes or discover endpoints.
type IDPage struct {
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
	Results      []IDResult `json:"results"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

// Language is an entry of /configuration/languages.
type Language struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// Provider is an entry of /watch/providers/{movie|tv}.
type Provider struct {
	ProviderID        int            `json:"provider_id"`
	ProviderName      string         `json:"provider_name"`
	LogoPath          string         `json:"logo_path"`
	DisplayPriority   int            `json:"display_priority"`
	DisplayPriorities map[string]int `json:"display_priorities"`
}

type providerList struct {
	Results []Provider `json:"results"`
}

// DiscoverQuery is the filter of one discover request. Dates are
// formatted YYYY-MM-DD.
type DiscoverQuery struct {
	From         string
	To           string
	MinVoteCount int
}
