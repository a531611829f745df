// Package retry implements failure classification and bounded exponential
// backoff for remote venue calls.
//
// A Policy is an explicit value applied at each call site: it decides whether
// an error is worth retrying (timeouts, connection failures, 429 and 5xx
// responses) or fatal (every other remote response), and spaces attempts by
// base*2^(n-1) after the nth failure. After the configured number of attempts
// the last error is surfaced to the caller.
package retry
