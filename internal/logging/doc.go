// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

// Package logging provides the process-wide zerolog logger for WhereToEat.
//
// JSON output is the default; console output is meant for local development.
// The global functions (Info, Warn, Error, ...) write through a logger that
// Init reconfigures from the logging section of the configuration:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Str("addr", addr).Msg("Server listening")
//
// Components take a child logger tagged with their name:
//
//	logger := logging.WithComponent("picker")
//
// Request handlers use Ctx, which attaches request_id and session_id from the
// context when present:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Nearby scan failed")
//
// SlogHandler adapts zerolog to log/slog for the suture supervisor, which
// logs through sutureslog.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
