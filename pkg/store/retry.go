// retry.go wraps store writes with backoff for transient SQLite errors.
// The busy_timeout pragma covers SQLITE_BUSY at the connection level, but
// a write racing a timer callback can still surface BUSY/LOCKED through
// the driver; a short retry absorbs it.
package store

import (
	"math/rand"
	"strings"
	"time"
)

type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// isTransientSQLiteErr matches the transient error shapes produced by
// modernc.org/sqlite under contention.
func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"database is locked",
		"database table is locked",
		"(5)", // SQLITE_BUSY code
		"(6)", // SQLITE_LOCKED code
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// retryOp executes fn with exponential backoff + jitter for transient
// errors; non-transient errors return immediately.
func retryOp(cfg retryConfig, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransientSQLiteErr(lastErr) {
			return lastErr
		}
		if attempt < cfg.maxRetries {
			delay := cfg.baseDelay << uint(attempt)
			if delay > cfg.maxDelay {
				delay = cfg.maxDelay
			}
			time.Sleep(delay + time.Duration(rand.Int63n(int64(cfg.baseDelay))))
		}
	}
	return lastErr
}
