package rules

import (
	"errors"
	"regexp"
	"time"
)

// ErrRegexTimeout is returned when a single regex match exceeds the
// configured wall-clock budget. Callers treat it as a per-item evaluation
// failure, never as a non-match.
var ErrRegexTimeout = errors.New("regex match exceeded timeout")

// DefaultRegexTimeout bounds a single regex match.
const DefaultRegexTimeout = 100 * time.Millisecond

// matchRegexBounded runs re against s on a separate goroutine and gives up
// after timeout. The stdlib engine is linear-time, so the guard rarely
// fires, but a huge input against a pathological pattern still gets cut off
// instead of stalling a batch.
func matchRegexBounded(re *regexp.Regexp, s string, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		return re.MatchString(s), nil
	}

	done := make(chan bool, 1)
	go func() {
		done <- re.MatchString(s)
	}()

	select {
	case matched := <-done:
		return matched, nil
	case <-time.After(timeout):
		return false, ErrRegexTimeout
	}
}
