package lifecycle

// AssignmentStatus is the status of a consultant assignment.
type AssignmentStatus string

// Assignment statuses.
const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Assignments is pending -> confirmed -> active -> completed, with cancelled
// reachable from every non-terminal state.
var Assignments = NewMachine(
	[]AssignmentStatus{AssignmentPending, AssignmentConfirmed, AssignmentActive, AssignmentCompleted, AssignmentCancelled},
	[]AssignmentStatus{AssignmentCompleted, AssignmentCancelled},
	[]Rule[AssignmentStatus]{
		{From: AssignmentPending, To: AssignmentConfirmed, Conditions: RequiresConflictCheck},
		{From: AssignmentConfirmed, To: AssignmentActive},
		{From: AssignmentActive, To: AssignmentCompleted},
		{From: AssignmentPending, To: AssignmentCancelled, Conditions: Destructive},
		{From: AssignmentConfirmed, To: AssignmentCancelled, Conditions: Destructive},
		{From: AssignmentActive, To: AssignmentCancelled, Conditions: Destructive},
	},
)

// OccupiesCalendar reports whether an assignment in status s blocks its date
// range for the consultant.
func (s AssignmentStatus) OccupiesCalendar() bool {
	return s != AssignmentCancelled
}

// ScheduleStatus is the status of a schedule.
type ScheduleStatus string

// Schedule statuses.
const (
	ScheduleDraft     ScheduleStatus = "draft"
	ScheduleActive    ScheduleStatus = "active"
	ScheduleCompleted ScheduleStatus = "completed"
)

// Schedules is draft -> active -> completed.
var Schedules = NewMachine(
	[]ScheduleStatus{ScheduleDraft, ScheduleActive, ScheduleCompleted},
	[]ScheduleStatus{ScheduleCompleted},
	[]Rule[ScheduleStatus]{
		{From: ScheduleDraft, To: ScheduleActive},
		{From: ScheduleActive, To: ScheduleCompleted},
	},
)

// TeamStatus is the status of a team assignment.
type TeamStatus string

// Team assignment statuses.
const (
	TeamActive   TeamStatus = "active"
	TeamInactive TeamStatus = "inactive"
)

// TeamAssignments toggles between active and inactive.
var TeamAssignments = NewMachine(
	[]TeamStatus{TeamActive, TeamInactive},
	nil,
	[]Rule[TeamStatus]{
		{From: TeamActive, To: TeamInactive},
		{From: TeamInactive, To: TeamActive, Conditions: RequiresConflictCheck},
	},
)

// DocumentStatus is the review status of a compliance document.
type DocumentStatus string

// Document statuses.
const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Documents is pending -> approved | rejected, and rejected -> pending on
// resubmission. Rejections need a comment.
var Documents = NewMachine(
	[]DocumentStatus{DocumentPending, DocumentApproved, DocumentRejected},
	[]DocumentStatus{DocumentApproved},
	[]Rule[DocumentStatus]{
		{From: DocumentPending, To: DocumentApproved},
		{From: DocumentPending, To: DocumentRejected, Conditions: RequiresComment},
		{From: DocumentRejected, To: DocumentPending},
	},
)
