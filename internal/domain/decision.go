package domain

// Decision is the outcome of one face-verification attempt.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionVerified
	DecisionRejected
	DecisionSessionError
	DecisionStoreError
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionVerified:
		return "verified"
	case DecisionRejected:
		return "rejected"
	case DecisionSessionError:
		return "session_error"
	case DecisionStoreError:
		return "store_error"
	default:
		return "unknown"
	}
}

// StatusText returns the short user-facing string shown for a decision.
func (d Decision) StatusText() string {
	switch d {
	case DecisionPending:
		return "Verifying..."
	case DecisionVerified:
		return "Verified"
	case DecisionRejected:
		return "Face does not match"
	case DecisionSessionError:
		return "Session error"
	case DecisionStoreError:
		return "Database error"
	default:
		return ""
	}
}
