// Package model defines shared data types used across the exporter.
//
// Conventions:
//   - Monetary amounts: decimal.Decimal, parsed from the venue's string fields
//   - Timestamps: time.Time in UTC
//   - Event payloads: raw JSON, decoded lazily by the component that needs them
package model
