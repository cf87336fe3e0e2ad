// Package httputil provides retry support for the provider HTTP clients.
//
// Providers mark transient failures (connection errors, 5xx responses) with
// [Retryable]; [Retry] and [Policy.Do] then re-run the request with
// exponential backoff. Anything not marked retryable, such as a 404, fails
// immediately so a broken source configuration is reported without delay.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Response caching lives in package cache.
package httputil
