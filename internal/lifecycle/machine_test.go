package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

func TestAssignments_Transitions(t *testing.T) {
	tests := []struct {
		from  AssignmentStatus
		to    AssignmentStatus
		legal bool
	}{
		{AssignmentPending, AssignmentConfirmed, true},
		{AssignmentConfirmed, AssignmentActive, true},
		{AssignmentActive, AssignmentCompleted, true},
		{AssignmentPending, AssignmentCancelled, true},
		{AssignmentConfirmed, AssignmentCancelled, true},
		{AssignmentActive, AssignmentCancelled, true},
		{AssignmentPending, AssignmentCompleted, false},
		{AssignmentPending, AssignmentActive, false},
		{AssignmentCompleted, AssignmentPending, false},
		{AssignmentCompleted, AssignmentCancelled, false},
		{AssignmentCancelled, AssignmentPending, false},
		{AssignmentConfirmed, AssignmentPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			_, err := Assignments.Transition(tt.from, tt.to)
			if tt.legal {
				assert.NoError(t, err)
				return
			}
			var invalid *apperror.InvalidTransitionError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, string(tt.from), invalid.From)
			assert.Equal(t, string(tt.to), invalid.To)
		})
	}
}

func TestAssignments_Conditions(t *testing.T) {
	rule, err := Assignments.Transition(AssignmentPending, AssignmentConfirmed)
	require.NoError(t, err)
	assert.True(t, rule.Conditions.Has(RequiresConflictCheck))
	assert.False(t, rule.Conditions.Has(Destructive))

	rule, err = Assignments.Transition(AssignmentActive, AssignmentCancelled)
	require.NoError(t, err)
	assert.True(t, rule.Conditions.Has(Destructive))
}

func TestAssignments_Terminal(t *testing.T) {
	assert.True(t, Assignments.IsTerminal(AssignmentCompleted))
	assert.True(t, Assignments.IsTerminal(AssignmentCancelled))
	assert.False(t, Assignments.IsTerminal(AssignmentActive))
	assert.Empty(t, Assignments.Next(AssignmentCompleted))
	assert.ElementsMatch(t,
		[]AssignmentStatus{AssignmentConfirmed, AssignmentCancelled},
		Assignments.Next(AssignmentPending))
}

func TestAssignmentStatus_OccupiesCalendar(t *testing.T) {
	assert.False(t, AssignmentCancelled.OccupiesCalendar())
	assert.True(t, AssignmentCompleted.OccupiesCalendar())
	assert.True(t, AssignmentPending.OccupiesCalendar())
}

func TestDocuments_Transitions(t *testing.T) {
	rule, err := Documents.Transition(DocumentPending, DocumentRejected)
	require.NoError(t, err)
	assert.True(t, rule.Conditions.Has(RequiresComment))

	_, err = Documents.Transition(DocumentRejected, DocumentPending)
	assert.NoError(t, err)

	_, err = Documents.Transition(DocumentApproved, DocumentPending)
	assert.Error(t, err)

	_, err = Documents.Transition(DocumentRejected, DocumentApproved)
	assert.Error(t, err)
}

func TestSchedules_Transitions(t *testing.T) {
	_, err := Schedules.Transition(ScheduleDraft, ScheduleActive)
	assert.NoError(t, err)
	_, err = Schedules.Transition(ScheduleDraft, ScheduleCompleted)
	assert.Error(t, err)
	assert.True(t, Schedules.IsValid(ScheduleCompleted))
	assert.False(t, Schedules.IsValid("archived"))
}

func TestNewMachine_RejectsBrokenTables(t *testing.T) {
	t.Run("unknown state", func(t *testing.T) {
		assert.Panics(t, func() {
			NewMachine([]string{"a"}, nil, []Rule[string]{{From: "a", To: "b"}})
		})
	})

	t.Run("leaving terminal state", func(t *testing.T) {
		assert.Panics(t, func() {
			NewMachine([]string{"a", "b"}, []string{"b"}, []Rule[string]{{From: "b", To: "a"}})
		})
	})

	t.Run("unknown terminal", func(t *testing.T) {
		assert.Panics(t, func() {
			NewMachine([]string{"a"}, []string{"z"}, nil)
		})
	})
}

func TestMachine_Enters(t *testing.T) {
	assert.True(t, Assignments.Enters(AssignmentCancelled, Destructive))
	assert.False(t, Assignments.Enters(AssignmentCompleted, Destructive))
	assert.True(t, Assignments.Enters(AssignmentConfirmed, RequiresConflictCheck))
	assert.True(t, Documents.Enters(DocumentRejected, RequiresComment))
	assert.False(t, Documents.Enters(DocumentApproved, RequiresComment))
}
