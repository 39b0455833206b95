// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DateLayout is the date format TMDB uses in query parameters and payloads.
const DateLayout = "2006-01-02"

// MaxPages is the deepest page TMDB serves for changes and discover.
const MaxPages = 500

const (
	movieAppend = "credits,external_ids,release_dates,watch/providers"
	showAppend  = "credits,content_ratings,watch/providers,external_ids"
)

// Movie fetches movie details with the blocks the parser needs appended.
func (c *Client) Movie(ctx context.Context, id int64) (*Movie, error) {
	var movie Movie
	params := url.Values{"append_to_response": {movieAppend}}
	if err := c.getJSON(ctx, "movie", fmt.Sprintf("/movie/%d", id), params, false, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Show fetches TV details with the blocks the parser needs appended.
func (c *Client) Show(ctx context.Context, id int64) (*Show, error) {
	var show Show
	params := url.Values{"append_to_response": {showAppend}}
	if err := c.getJSON(ctx, "tv", fmt.Sprintf("/tv/%d", id), params, false, &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// SeasonCredits fetches the credits of one season, which include guest
// and crew credits missing from the show's aggregate block.
func (c *Client) SeasonCredits(ctx context.Context, showID int64, seasonNumber int) (*Credits, error) {
	var credits Credits
	path := fmt.Sprintf("/tv/%d/season/%d/credits", showID, seasonNumber)
	if err := c.getJSON(ctx, "season_credits", path, nil, false, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func (c *Client) Person(ctx context.Context, id int64) (*Person, error) {
	var person Person
	if err := c.getJSON(ctx, "person", fmt.Sprintf("/person/%d", id), nil, false, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// Changes fetches one page of ids changed in [start, end].
func (c *Client) Changes(ctx context.Context, resource Resource, start, end time.Time, page int) (*IDPage, error) {
	params := url.Values{
		"start_date": {start.UTC().Format(DateLayout)},
		"end_date":   {end.UTC().Format(DateLayout)},
		"page":       {strconv.Itoa(page)},
	}
	var result IDPage
	if err := c.getJSON(ctx, "changes", fmt.Sprintf("/%s/changes", resource), params, false, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover fetches one page of discoverable ids matching query.
func (c *Client) Discover(ctx context.Context, resource Resource, query DiscoverQuery, page int) (*IDPage, error) {
	dateField := "primary_release_date"
	if resource == ResourceTV {
		dateField = "first_air_date"
	}
	params := url.Values{
		"include_adult":  {"false"},
		"sort_by":        {dateField + ".asc"},
		"vote_count.gte": {strconv.Itoa(query.MinVoteCount)},
		"page":           {strconv.Itoa(page)},
	}
	if query.From != "" {
		params.Set(dateField+".gte", query.From)
	}
	if query.To != "" {
		params.Set(dateField+".lte", query.To)
	}

	var result IDPage
	if err := c.getJSON(ctx, "discover", fmt.Sprintf("/discover/%s", resource), params, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Genres(ctx context.Context, resource Resource) ([]Genre, error) {
	var list genreList
	if err := c.getJSON(ctx, "genres", fmt.Sprintf("/genre/%s/list", resource), nil, true, &list); err != nil {
		return nil, err
	}
	return list.Genres, nil
}

func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var languages []Language
	if err := c.getJSON(ctx, "languages", "/configuration/languages", nil, true, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// Providers fetches the streaming providers available in region.
func (c *Client) Providers(ctx context.Context, resource Resource, region string) ([]Provider, error) {
	params := url.Values{"watch_region": {region}}
	var list providerList
	if err := c.getJSON(ctx, "providers", fmt.Sprintf("/watch/providers/%s", resource), params, true, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}
