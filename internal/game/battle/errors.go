package battle

import "fmt"

// RejectReason identifies why an action was rejected before resolution.
type RejectReason string

const (
	ReasonTerminalPhase  RejectReason = "terminal_phase"
	ReasonUnknownActor   RejectReason = "unknown_actor"
	ReasonDeadActor      RejectReason = "dead_actor"
	ReasonWrongTurn      RejectReason = "wrong_turn"
	ReasonBadTarget      RejectReason = "bad_target"
	ReasonDeadTarget     RejectReason = "dead_target"
	ReasonUnknownSkill   RejectReason = "unknown_skill"
	ReasonUnusableSkill  RejectReason = "unusable_skill"
	ReasonInsufficientMP RejectReason = "insufficient_mp"
	ReasonUnknownItem    RejectReason = "unknown_item"
	ReasonFleeForbidden  RejectReason = "flee_forbidden"
	ReasonBadAction      RejectReason = "bad_action"
)

// InvalidActionError reports a rejected action. The state is guaranteed to be
// unchanged when this error is returned.
type InvalidActionError struct {
	Reason RejectReason
	Detail string
}

// Error implements the error interface.
func (e *InvalidActionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid action: %s", e.Reason)
	}
	return fmt.Sprintf("invalid action: %s: %s", e.Reason, e.Detail)
}

func reject(reason RejectReason, format string, args ...any) *InvalidActionError {
	return &InvalidActionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
