// Package retry provides exponential backoff and retry logic for transient
// failures, mainly image downloads from Reddit's media hosts.
//
// Basic usage:
//
//	err := retry.Do(func() error {
//		return fetch(url)
//	}, nil)
//
//	// Custom configuration with per-error-type delays
//	cfg := &retry.Config{
//		MaxAttempts: 3,
//		BackoffFor:  retry.NewErrorTypeBackoff().For,
//		RetryIf:     retry.DefaultRetryIf,
//		Context:     ctx,
//		Logger:      logger.GetLogger(),
//	}
//	data, err := retry.DoWithResult(func() ([]byte, error) {
//		return client.DownloadImage(url)
//	}, cfg)
//
// Network, rate limit and server errors are retried. Auth, not found and
// parsing errors are returned immediately, as are context cancellations.
package retry
