// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package parser validates TMDB payloads and maps them to stored rows.

Every parser is a pure function. Entity parsers return (row, ok) where
ok == false means the payload does not pass the validity gate yet; that is
not an error, the record is simply not stored this run and is counted as
invalid by the caller.

Validity gates:
  - Movie: director, at least one cast member, at least one genre, IMDb id,
    overview, poster, release date, a release_dates block, runtime > 0 and
    vote_count >= Options.MinVoteCount
  - Show: at least one cast member, at least one genre, overview, poster,
    a content rating entry for Options.Region and vote_count >= MinVoteCount
  - Person: a profile image

Relationship rows (credits, provider links, seasons) are derived from the
same payloads and carry the models.MediaRef established here, so nothing
downstream has to guess whether a payload was a movie or a show.
*/
package parser
