package aggregator

import "errors"

// MaxRosterSize is the largest roster a team aggregate accepts.
const MaxRosterSize = 5

var (
	ErrRosterOverflow    = errors.New("roster supports at most 5 competitors")
	ErrInvalidMember     = errors.New("roster member is not a valid competitor")
	ErrRosterFull        = errors.New("roster is already full")
	ErrIndexOutOfRange   = errors.New("roster index out of range")
	ErrEmptyPoolType     = errors.New("comparison pool must be a list of competitors")
	ErrEmptyHistory      = errors.New("competitor has no matches")
	ErrInvalidPlayerSlot = errors.New("player_slot outside 0-255")
)
