// Package retry provides bounded fixed-interval polling.
//
// The [Poll] function re-runs a condition under a [Budget] of attempts
// with a fixed sleep between observations. It is used for every wait
// against eventually-consistent Azure resource state.
package retry
