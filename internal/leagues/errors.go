package leagues

import "github.com/mfmanca2000/easyasta/internal/auction"

var (
	// ErrLeagueNotInSetup rejects enrollment and imports once the auction began.
	ErrLeagueNotInSetup = &auction.Error{
		Kind:    auction.KindInvalidState,
		Message: "league is no longer in setup",
	}

	// ErrUserAlreadyEnrolled rejects a second team for the same user.
	ErrUserAlreadyEnrolled = &auction.Error{
		Kind:    auction.KindConflict,
		Message: "user already has a team in this league",
	}

	// ErrInvalidLeagueName rejects blank league names.
	ErrInvalidLeagueName = &auction.Error{
		Kind:    auction.KindPolicyViolation,
		Message: "league name must not be empty",
	}

	// ErrInvalidCredits rejects non-positive starting budgets.
	ErrInvalidCredits = &auction.Error{
		Kind:    auction.KindPolicyViolation,
		Message: "initial credits must be positive",
	}

	// ErrEmptyImport rejects a player import with no entries.
	ErrEmptyImport = &auction.Error{
		Kind:    auction.KindPolicyViolation,
		Message: "player import must contain at least one player",
	}
)
