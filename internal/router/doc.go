// Package router maps decoded stream events onto metrics-store deltas.
//
// The transform is pure: one ACCOUNT_UPDATE event yields an independent
// balance delta (per token) and position delta (per symbol), each merged
// into the store separately.
package router
