// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package api provides the HTTP API of the restaurant picker, built on chi v5.

Endpoints (base /api/v1):

	GET    /health/live                 liveness probe
	GET    /health/ready                readiness probe (database ping)
	POST   /picks                       start a pick session
	GET    /picks/{sessionID}           current session state
	POST   /picks/{sessionID}/veto      veto a candidate and pick again
	POST   /picks/{sessionID}/spin      pick again from the same pool
	POST   /picks/{sessionID}/choose    record a visit and end the session
	POST   /picks/{sessionID}/save      save a nearby candidate
	GET    /restaurants                 list saved restaurants
	POST   /restaurants                 create a restaurant
	GET    /restaurants/{id}            get a restaurant
	PUT    /restaurants/{id}            update a restaurant
	DELETE /restaurants/{id}            delete a restaurant and its visits
	GET    /visits?days=N               visit history
	PUT    /visits/{id}/rating          rate a visit (-1, 0, 1 or null)
	GET    /nearby                      scan for nearby restaurants

GET /metrics serves Prometheus metrics.

Response Format:

Every response uses the APIResponse envelope:

	{
	  "success": false,
	  "error": {"code": "TIMED_OUT", "message": "...", "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "..."}
	}

Nearby failures map to distinct codes: PERMISSION_DENIED (403) when
location services are off or access is denied, LOCATION_UNAVAILABLE (503),
TIMED_OUT (504) and EXTERNAL_SERVICE_FAILED (502) when the place search
circuit is open.

Middleware:

Request ID, real IP, access logging, panic recovery and CORS apply to every
route. API routes add per-IP rate limiting (go-chi/httprate), security
headers and Prometheus request metrics.
*/
package api
