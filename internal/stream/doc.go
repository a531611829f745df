// Package stream implements the per-account user-data stream consumer.
//
// Each consumer owns one persistent WebSocket connection addressed by the
// account's current listen key and loops forever:
//
//	DISCONNECTED → ensure token → connect → read frames → DISCONNECTED …
//
// Connection loss is a normal event handled by reconnecting with the
// current (refreshed-if-stale) token. Only an unrecoverable token failure
// or context cancellation ends the loop.
package stream
