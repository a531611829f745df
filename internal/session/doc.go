// Package session manages the opaque, time-limited listen key that
// authorizes an account's user-data stream connection.
//
// Each account owns exactly one Manager, and the Manager is only touched
// from that account's consumer goroutine, so no locking is needed here.
// The key is refreshed proactively after refreshDelta (default 55 min,
// inside the venue's ~60 min validity window) and on demand when the venue
// signals expiry through the stream.
package session
