package admin

import "github.com/mfmanca2000/easyasta/internal/auction"

var (
	ErrNotAdministrator = &auction.Error{
		Kind:    auction.KindPolicyViolation,
		Message: "acting user is not the league administrator",
	}
	ErrReasonTooShort = &auction.Error{
		Kind:    auction.KindPolicyViolation,
		Message: "justification too short",
	}
	ErrNoSelectionToCancel = &auction.Error{
		Kind:    auction.KindNotFound,
		Message: "team made no selection this round",
	}
	ErrRoundNotInSelection = &auction.Error{
		Kind:    auction.KindInvalidState,
		Message: "round is not in selection",
	}
	ErrRoundNotActive = &auction.Error{
		Kind:    auction.KindInvalidState,
		Message: "round is no longer active",
	}
)
