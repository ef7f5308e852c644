package types

// Notification priorities, matching the gotify scale the channel expects.
const (
	// PriorityNormal is used for routine outcomes such as a successful update.
	PriorityNormal = 5
	// PriorityHigh is used for failures and the global rate-limit condition.
	PriorityHigh = 8
)

// Notifier delivers a human-readable message to the configured notification
// channel. Delivery is fire-and-forget: implementations log failures and an
// unconfigured channel degrades to a logged skip notice. A Notify call must
// never influence the rollout outcome.
type Notifier interface {
	Notify(title string, message string, priority int)
}
