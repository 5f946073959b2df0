package battle

import "fmt"

// ActionType identifies what a combatant intends to do on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack
	ActionSkill
	ActionItem
	ActionDefend
	ActionFlee
)

// String returns the human-readable name of the ActionType.
// Postcondition: returns "attack", "skill", "item", "defend", "flee", or "unknown".
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionSkill:
		return "skill"
	case ActionItem:
		return "item"
	case ActionDefend:
		return "defend"
	case ActionFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// Action is one submitted combat action, produced either by the external UI
// for a player entity or by the AI decision policy for an enemy.
type Action struct {
	Type    ActionType `json:"type"`
	ActorID string     `json:"actorId"`
	// TargetIDs are the explicit targets for single-target actions. Group
	// target types expand at execution time and ignore this list.
	TargetIDs []string `json:"targetIds,omitempty"`
	SkillID   string   `json:"skillId,omitempty"`
	ItemID    string   `json:"itemId,omitempty"`
}

// Attack builds a basic attack action against one target.
func Attack(actorID, targetID string) Action {
	return Action{Type: ActionAttack, ActorID: actorID, TargetIDs: []string{targetID}}
}

// UseSkill builds a skill action. targetIDs may be empty for group and self
// target types.
func UseSkill(actorID, skillID string, targetIDs ...string) Action {
	return Action{Type: ActionSkill, ActorID: actorID, SkillID: skillID, TargetIDs: targetIDs}
}

// UseItem builds an item action against one target.
func UseItem(actorID, itemID, targetID string) Action {
	return Action{Type: ActionItem, ActorID: actorID, ItemID: itemID, TargetIDs: []string{targetID}}
}

// Defend builds a defend action.
func Defend(actorID string) Action {
	return Action{Type: ActionDefend, ActorID: actorID}
}

// Flee builds a flee action.
func Flee(actorID string) Action {
	return Action{Type: ActionFlee, ActorID: actorID}
}

// String returns a compact description for logging.
func (a Action) String() string {
	switch a.Type {
	case ActionSkill:
		return fmt.Sprintf("%s[%s] by %s", a.Type, a.SkillID, a.ActorID)
	case ActionItem:
		return fmt.Sprintf("%s[%s] by %s", a.Type, a.ItemID, a.ActorID)
	default:
		return fmt.Sprintf("%s by %s", a.Type, a.ActorID)
	}
}
