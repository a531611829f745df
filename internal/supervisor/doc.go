// Package supervisor runs one pipeline per account and keeps their failures
// apart. A pipeline that dies is logged and marked unhealthy; the remaining
// pipelines keep running until the parent context is cancelled.
package supervisor
