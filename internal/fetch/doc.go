// Package fetch wraps net/http with the bounded exponential-backoff retry
// policy every provider call goes through. There is no jitter and no overall
// deadline beyond the attempt ceiling; context cancellation aborts a backoff
// sleep early.
package fetch
