// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package loader converges the local catalog with TMDB.

A run is started with Loader.RunSync and walks a fixed sequence of phases:

 1. Reference data: genres, languages and providers are upserted.
 2. Movies: ids are discovered, then processed in sequential chunks. Each
    chunk is reconciled, the persons its credits reference are backfilled,
    and credits plus provider links are reconciled for the movies that
    changed.
 3. Shows: as movies, with seasons replaced wholesale and season credits
    folded into the show's credits.
 4. Persons: stored persons found in the TMDB changes feed are refreshed.
    A person TMDB reports gone is deleted together with its credits.
 5. Counts: languages.count and providers.count are recomputed.
 6. Orphans (full mode only): stored movies and shows that discovery no
    longer returns are deleted with their dependents.

# Modes

Incremental runs read the TMDB changes feed for the configured lookback
window and keep only ids in the discoverable set. The discoverable set is
the result of a full discover walk and is kept in the injected cache under
discover:<kind>. Full runs clear the cache and reconcile every discovered id.

# Reconciliation

reconcile is generic over an entity configuration. It fetches ids with
bounded concurrency, parses the payloads, diffs the valid rows against the
stored rows of the same ids, bulk creates new rows and updates changed rows
one by one. Only records that were actually created or successfully updated
flow into relationship reconciliation.

# Failure Handling

A failed fetch excludes the id from the run. A failed bulk create aborts
its chunk; the next chunk still runs. A failed update is reported in the
UpdateResult of its row. Every phase failure is appended to
RunSummary.Errors and later phases still run.
*/
package loader
