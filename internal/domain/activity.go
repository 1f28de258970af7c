package domain

import "time"

// ActivityAction tags an activity log entry
type ActivityAction string

const (
	ActionClientAdded        ActivityAction = "client_added"
	ActionEventCreated       ActivityAction = "event_created"
	ActionEventStatusUpdated ActivityAction = "event_status_updated"
	ActionTaskAssigned       ActivityAction = "task_assigned"
	ActionTaskUpdated        ActivityAction = "task_updated"
	ActionTaskOverdue        ActivityAction = "task_overdue"
	ActionPaymentReceived    ActivityAction = "payment_received"
	ActionExpenseAdded       ActivityAction = "expense_added"
	ActionTeamMemberAdded    ActivityAction = "team_member_added"
	ActionFirmCreated        ActivityAction = "firm_created"
	ActionQuotationCreated   ActivityAction = "quotation_created"
	ActionQuotationConverted ActivityAction = "quotation_converted"
)

// EntityType names the kind of record an activity entry refers to
type EntityType string

const (
	EntityFirm      EntityType = "firm"
	EntityUser      EntityType = "user"
	EntityClient    EntityType = "client"
	EntityEvent     EntityType = "event"
	EntityTask      EntityType = "task"
	EntityPayment   EntityType = "payment"
	EntityExpense   EntityType = "expense"
	EntityQuotation EntityType = "quotation"
)

// ActivityLog is one append-only audit entry
type ActivityLog struct {
	ID          string         `json:"id"`
	FirmID      string         `json:"firmId"`
	UserID      string         `json:"userId"`
	Action      ActivityAction `json:"action"`
	EntityType  EntityType     `json:"entityType"`
	EntityID    string         `json:"entityId"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ActivityWithUser is the read model for the activity feed
type ActivityWithUser struct {
	ActivityLog
	User *User `json:"user,omitempty"`
}

// Activity limits for the feed
const (
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

// ClampActivityLimit applies the default and maximum feed sizes
func ClampActivityLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultActivityLimit
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	default:
		return limit
	}
}
