package entity

import "time"

// CheckInterval reports whether a validity window is ordered. A missing
// bound satisfies the invariant by definition.
func CheckInterval(notBefore, notAfter *time.Time) bool {
	if notBefore != nil && notAfter != nil {
		return !notBefore.After(*notAfter)
	}
	return true
}
