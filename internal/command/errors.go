package command

import "errors"

// Rejections. Each is returned wrapped with the offending id or amount,
// always before any mutation.
var (
	ErrUnknownAction        = errors.New("unknown action")
	ErrInvalidParams        = errors.New("invalid parameters")
	ErrNotFound             = errors.New("not found")
	ErrNotOwner             = errors.New("not owned by acting clan")
	ErrInsufficientGold     = errors.New("insufficient gold")
	ErrInsufficientSoldiers = errors.New("insufficient soldiers")
	ErrNotAdjacent          = errors.New("castles are not adjacent")
	ErrSelfTarget           = errors.New("cannot target own clan")
	ErrAlreadyAllied        = errors.New("alliance already in force")
	ErrProtected            = errors.New("target cannot be chosen")
)

// ErrDefect marks an internal-consistency failure discovered after validation
// passed. It indicates a bug, never a player mistake.
var ErrDefect = errors.New("engine defect")

// IsRejection reports whether err is a validation rejection.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrUnknownAction, ErrInvalidParams, ErrNotFound, ErrNotOwner,
		ErrInsufficientGold, ErrInsufficientSoldiers, ErrNotAdjacent,
		ErrSelfTarget, ErrAlreadyAllied, ErrProtected,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Reason returns a short machine tag for a rejection, used as a metric label.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, ErrInvalidParams):
		return "invalid_params"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrInsufficientGold):
		return "insufficient_gold"
	case errors.Is(err, ErrInsufficientSoldiers):
		return "insufficient_soldiers"
	case errors.Is(err, ErrNotAdjacent):
		return "not_adjacent"
	case errors.Is(err, ErrSelfTarget):
		return "self_target"
	case errors.Is(err, ErrAlreadyAllied):
		return "already_allied"
	case errors.Is(err, ErrProtected):
		return "protected"
	case errors.Is(err, ErrDefect):
		return "defect"
	default:
		return "other"
	}
}
