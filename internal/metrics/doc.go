// Package metrics holds the last-value store behind the Prometheus endpoint.
//
// State keeps one namespace per account, each guarded by its own lock, so a
// burst of updates on one account never blocks reads or writes on another.
// The collectors walk a snapshot of the store at scrape time; nothing is
// pushed into the Prometheus registry between scrapes.
package metrics
