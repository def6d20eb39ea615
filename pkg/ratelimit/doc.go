// Package ratelimit paces outbound requests so bulk image downloads stay
// polite towards Reddit's image hosts.
//
// All limiters implement the Limiter interface:
//   - Allow() bool reports whether a request may proceed right now
//   - Wait(ctx) blocks until a request may proceed or ctx is done
//   - Reset() restores the limiter to its initial burst
//
// Usage:
//
//	// 10 requests per second with a burst of 10
//	limiter := ratelimit.NewTokenBucket(10, 10)
//
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//	// Proceed with request
//
// A non-positive rate yields Unlimited, which never blocks.
package ratelimit
