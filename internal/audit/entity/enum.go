package entity

// Action names the lifecycle event an audit entry records.
type Action string

const (
	ActionUnknown Action = ""
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ActionFromString parses an action tag; anything unrecognized is unknown.
func ActionFromString(s string) Action {
	switch Action(s) {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return Action(s)
	default:
		return ActionUnknown
	}
}

// String returns the stored form of the action.
func (a Action) String() string {
	return string(a)
}
