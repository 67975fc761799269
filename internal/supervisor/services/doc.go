// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package services adapts long-running components to suture.Service.

  - HTTPServerService: blocking ListenAndServe translated into a
    context-aware Serve with graceful Shutdown.
  - PeriodicService: a ticker loop around a Task. NewScanCacheSweeper
    and NewSessionCleaner build the two maintenance jobs.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
