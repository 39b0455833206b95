// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package supervisor provides process supervision for Reelsync using suture v4.

Long-running services are organized into three layers so a failure in one
does not take down the others:

	RootSupervisor ("reelsync")
	├── DataSupervisor ("data-layer")
	│   └── MaintenanceService "badger-gc" (if cache.badger_enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EventsService (if nats.enabled)
	│   └── SyncService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with suture's backoff; a service that
keeps failing puts only its own layer into backoff. Supervisor events
are logged through sutureslog on the zerolog backed slog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewSyncService(manager))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

See the services subpackage for the wrappers.
*/
package supervisor
