// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package middleware provides the HTTP middleware of the admin API.

  - RequestID: reads or generates X-Request-ID and seeds the logging
    correlation id with it, so every log line of a request can be joined.
  - PrometheusMetrics: records reelsync_api_requests_total and the request
    latency histogram, labelled by the chi route pattern rather than the raw
    path to keep label cardinality bounded.
  - AccessLog: one structured zerolog line per request.

All three use the net/http HandlerFunc shape; the api package adapts them
for chi's Use.
*/
package middleware
