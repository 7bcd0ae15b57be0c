package conversation

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusBlocked  Status = "blocked"
)

// allowedTransitions is the single source of truth for the conversation
// lifecycle. Rejected and Blocked are terminal except that any non-blocked
// state may still be blocked.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusAccepted: true,
		StatusRejected: true,
		StatusBlocked:  true,
	},
	StatusAccepted: {
		StatusBlocked: true,
	},
	StatusRejected: {
		StatusBlocked: true,
	},
	StatusBlocked: {},
}

func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	return allowedTransitions[s][next]
}
