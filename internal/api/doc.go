// Package api provides the venue REST client for user-data stream
// session management.
//
// Endpoints:
//   - POST /fapi/v1/listenKey: issue a new listen key
//   - PUT  /papi/v1/listenKey: keep the current listen key alive (idempotent)
//
// The static API key travels in the X-MBX-APIKEY header and is never logged.
// Retry is not handled here: callers apply a retry.Policy around each call.
package api
