package entity

// SyncStatus is the result token a resynchronization gateway reports back.
type SyncStatus string

const (
	SyncStatusOK                 SyncStatus = "ok"
	SyncStatusError              SyncStatus = "error"
	SyncStatusInvalidCredentials SyncStatus = "invalid-credentials"
	SyncStatusUnknown            SyncStatus = "unknown"
)

// SyncStatusFromString parses a gateway status header value. Anything not in
// the contract maps to SyncStatusUnknown.
func SyncStatusFromString(s string) SyncStatus {
	switch SyncStatus(s) {
	case SyncStatusOK, SyncStatusError, SyncStatusInvalidCredentials:
		return SyncStatus(s)
	default:
		return SyncStatusUnknown
	}
}

// String returns the wire form of the status.
func (s SyncStatus) String() string {
	return string(s)
}
