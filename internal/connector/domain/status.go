package domain

// ScaStatus is the progress of a single SCA authorisation.
type ScaStatus string

const (
	StatusReceived          ScaStatus = "RECEIVED"
	StatusPSUIdentified     ScaStatus = "PSU_IDENTIFIED"
	StatusPSUAuthenticated  ScaStatus = "PSU_AUTHENTICATED"
	StatusScaMethodSelected ScaStatus = "SCA_METHOD_SELECTED"
	StatusExempted          ScaStatus = "EXEMPTED"
	StatusFinalised         ScaStatus = "FINALISED"
	StatusFailed            ScaStatus = "FAILED"
)

// rank orders the non-failure statuses. FAILED sits outside the order
// because it is reachable from every non-terminal status.
var rank = map[ScaStatus]int{
	StatusReceived:          0,
	StatusPSUIdentified:     1,
	StatusPSUAuthenticated:  2,
	StatusScaMethodSelected: 3,
	StatusExempted:          4,
	StatusFinalised:         5,
}

// Valid reports whether s is a known status.
func (s ScaStatus) Valid() bool {
	_, ok := rank[s]
	return ok || s == StatusFailed
}

// Terminal reports whether no further transition is allowed.
func (s ScaStatus) Terminal() bool {
	return s == StatusFinalised || s == StatusFailed
}

// CanAdvanceTo reports whether moving from s to next keeps the status
// sequence monotonic. Staying on the same status is allowed (e.g. picking a
// different SCA method). EXEMPTED only moves on to FINALISED.
func (s ScaStatus) CanAdvanceTo(next ScaStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	if s == StatusExempted {
		return next == StatusFinalised
	}
	return rank[next] >= rank[s]
}
