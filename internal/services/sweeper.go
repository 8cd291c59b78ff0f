package services

import (
	"log"
	"time"
)

// StartTokenSweep starts a background goroutine that periodically clears
// expired magic-link tokens. The sweep is idempotent: a second run with
// no new expirations touches nothing.
func StartTokenSweep(interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sweepOnce()
		for range ticker.C {
			sweepOnce()
		}
	}()
}

func sweepOnce() {
	count, err := SweepExpiredTokens(time.Now())
	if err != nil {
		log.Printf("⚠️  Token sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("🧹 Token sweep: cleared %d expired magic links", count)
	}
}
