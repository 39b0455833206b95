// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package models defines the rows Reelsync stores.

Every persisted entity is a plain struct whose `db` tags name its columns.
The tags are also what the diff engine compares on, so a field tagged
`popularity` or `count` is never treated as a change and `vote_count` is
compared with a tolerance.

Entity Categories:

 1. Media: Movie, Show, Season
 2. People and relationships: Person, Credit, ProviderLink
 3. Reference data: Genre, Language, Provider
 4. Observability: SyncRun

MediaKind and MediaRef tag a row as belonging to a movie or a show. They
are assigned when a TMDB payload is parsed and are never re-derived from
field presence afterwards.
*/
package models
