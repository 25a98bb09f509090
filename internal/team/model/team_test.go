package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

func TestTeamAssignment_Period(t *testing.T) {
	open := TeamAssignment{StartDate: daterange.MustParseDate("2024-01-01")}
	assert.True(t, open.Period().IsOpenEnded())

	closed := TeamAssignment{
		StartDate: daterange.MustParseDate("2024-01-01"),
		EndDate:   daterange.MustParseDate("2024-06-30"),
	}
	assert.False(t, closed.Period().IsOpenEnded())
	assert.Equal(t, 182, closed.Period().Days())
}

func TestTeamAssignment_ActiveLead(t *testing.T) {
	tests := []struct {
		name   string
		isLead bool
		status lifecycle.TeamStatus
		want   bool
	}{
		{name: "active lead", isLead: true, status: lifecycle.TeamActive, want: true},
		{name: "inactive lead", isLead: true, status: lifecycle.TeamInactive, want: false},
		{name: "active member", isLead: false, status: lifecycle.TeamActive, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := TeamAssignment{IsLead: tt.isLead, Status: tt.status}
			assert.Equal(t, tt.want, ta.ActiveLead())
		})
	}
}

func TestUpdateRequest_OpenEndedEndDate(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"endDate":""}`), &req))
	require.NotNil(t, req.EndDate)
	assert.True(t, req.EndDate.IsZero())
	assert.False(t, req.IsEmpty())

	var empty UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"acknowledgeLeadWarning":true,"version":1}`), &empty))
	assert.True(t, empty.IsEmpty())
}

func TestResult_JSON(t *testing.T) {
	result := Result{
		Member: Member{
			TeamAssignment: TeamAssignment{ID: "t1", IsLead: true, Status: lifecycle.TeamActive},
			RoleName:       "Lead Consultant",
		},
		Warnings: []*apperror.LeadUniquenessWarning{{ExistingLeadID: "t0", Overridable: true}},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"t1"`)
	assert.Contains(t, string(data), `"roleName":"Lead Consultant"`)
	assert.Contains(t, string(data), `"existingLeadId":"t0"`)
	assert.Contains(t, string(data), `"endDate":null`)
}

func TestNotFound(t *testing.T) {
	var nf *apperror.NotFoundError
	require.ErrorAs(t, NotFound("x"), &nf)
	assert.Equal(t, Kind, nf.Kind)

	require.ErrorAs(t, RoleNotFound("lead"), &nf)
	assert.Equal(t, "team_role", nf.Kind)
}
