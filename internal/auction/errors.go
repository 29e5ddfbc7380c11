package auction

import "errors"

// ErrorKind classifies a failure so the API layer can map it to a response
// without inspecting message text.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindInvalidState    ErrorKind = "INVALID_STATE"
	KindPolicyViolation ErrorKind = "POLICY_VIOLATION"
	KindConflict        ErrorKind = "CONFLICT"
)

// Error is a typed auction error with a kind and a stable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrRoundNotFound      = newError(KindNotFound, "round not found")
	ErrLeagueNotFound     = newError(KindNotFound, "league not found")
	ErrPlayerNotFound     = newError(KindNotFound, "player not found")
	ErrTeamNotFound       = newError(KindNotFound, "team not found")
	ErrRoundNotOpen       = newError(KindInvalidState, "round not open for selection")
	ErrRoundNotResolvable = newError(KindInvalidState, "round not in resolution")
	ErrRoundAlreadyActive = newError(KindInvalidState, "a round is already active")
	ErrLeagueCompleted    = newError(KindInvalidState, "league already completed")
	ErrNotLeagueMember    = newError(KindPolicyViolation, "not a league member")
	ErrPlayerUnavailable  = newError(KindPolicyViolation, "player unavailable")
	ErrInsufficientFunds  = newError(KindPolicyViolation, "insufficient credits")
	ErrAlreadySelected    = newError(KindPolicyViolation, "already selected this round")
)

// KindOf extracts the ErrorKind from err, or KindConflict for unexpected
// errors surfaced by a lost transaction race.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindConflict
}
