package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/response"
	"github.com/festy23/consultant_staffing/internal/team/model"
	"github.com/festy23/consultant_staffing/internal/team/service"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

const memberID = "6fa459ea-ee8a-4ca4-894e-db77e160355e"

type mockService struct {
	mock.Mock
}

func (m *mockService) Roles(ctx context.Context) (*model.RolesResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RolesResponse), args.Error(1)
}

func (m *mockService) List(ctx context.Context, projectID string, filter model.ListFilter) (*model.ListResponse, error) {
	args := m.Called(ctx, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListResponse), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id string) (*model.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *mockService) Add(ctx context.Context, projectID string, req *model.AddRequest) (*model.Result, error) {
	args := m.Called(ctx, projectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Result), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id string, expected int64, req *model.UpdateRequest) (*model.Result, error) {
	args := m.Called(ctx, id, expected, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Result), args.Error(1)
}

func (m *mockService) Remove(ctx context.Context, id string, expected int64) error {
	return m.Called(ctx, id, expected).Error(0)
}

var _ service.Service = (*mockService)(nil)

func setupRouter(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(svc, zap.NewNop().Sugar())
	r.GET("/team-roles", h.Roles)
	r.GET("/projects/:projectId/team", h.List)
	r.POST("/projects/:projectId/team", h.Add)
	r.GET("/team-assignments/:id", h.Get)
	r.PATCH("/team-assignments/:id", h.Update)
	r.DELETE("/team-assignments/:id", h.Remove)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Add(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Add", mock.Anything, "cardio-2024", mock.MatchedBy(func(req *model.AddRequest) bool {
			return req.IsLead && !req.AcknowledgeLeadWarning && req.EndDate.IsZero()
		})).Return(&model.Result{Member: model.Member{
			TeamAssignment: model.TeamAssignment{ID: memberID, IsLead: true, Status: lifecycle.TeamActive},
		}}, nil)

		w := do(setupRouter(svc), http.MethodPost, "/projects/cardio-2024/team",
			`{"consultantId":"8f14e45f-ceea-4e7a-9f3b-1d2c3b4a5e61","teamRoleId":"lead-consultant",`+
				`"startDate":"2024-01-01","isLead":true}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, `"0"`, w.Header().Get("ETag"))
		assert.NotContains(t, w.Body.String(), "warnings")
		svc.AssertExpectations(t)
	})

	t.Run("unacknowledged lead overlap", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Add", mock.Anything, "cardio-2024", mock.Anything).Return(nil, &apperror.LeadUniquenessWarning{
			ExistingLeadID:   "11111111-1111-4111-8111-111111111111",
			OverlappingRange: daterange.OpenEnded(daterange.MustParseDate("2024-03-01")),
			Overridable:      true,
		})

		w := do(setupRouter(svc), http.MethodPost, "/projects/cardio-2024/team", `{"isLead":true}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, apperror.CodeLeadConflict, body.Error.Code)
		assert.Contains(t, w.Body.String(), `"existingLeadId":"11111111-1111-4111-8111-111111111111"`)
		assert.Contains(t, w.Body.String(), `"overridable":true`)
	})

	t.Run("acknowledged overlap lists the warning", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Add", mock.Anything, "cardio-2024", mock.MatchedBy(func(req *model.AddRequest) bool {
			return req.AcknowledgeLeadWarning
		})).Return(&model.Result{
			Member:   model.Member{TeamAssignment: model.TeamAssignment{ID: memberID}},
			Warnings: []*apperror.LeadUniquenessWarning{{ExistingLeadID: "x", Overridable: true}},
		}, nil)

		w := do(setupRouter(svc), http.MethodPost, "/projects/cardio-2024/team",
			`{"isLead":true,"acknowledgeLeadWarning":true}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"warnings":[{"existingLeadId":"x"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(setupRouter(new(mockService)), http.MethodPost, "/projects/cardio-2024/team", `{"startDate":"tomorrow"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	svc := new(mockService)
	svc.On("List", mock.Anything, "cardio-2024", model.ListFilter{Status: lifecycle.TeamActive, LeadOnly: true}).
		Return(&model.ListResponse{ProjectID: "cardio-2024", Members: []model.Member{}}, nil)

	w := do(setupRouter(svc), http.MethodGet, "/projects/cardio-2024/team?status=active&lead=true", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"members":[]`)
	svc.AssertExpectations(t)
}

func TestHandler_Update(t *testing.T) {
	t.Run("version from if-match", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Update", mock.Anything, memberID, int64(2), mock.Anything).
			Return(&model.Result{Member: model.Member{TeamAssignment: model.TeamAssignment{ID: memberID, Version: 3}}}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/team-assignments/"+memberID, bytes.NewBufferString(`{"isLead":false}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("If-Match", `"2"`)
		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `"3"`, w.Header().Get("ETag"))
	})

	t.Run("stale version", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Update", mock.Anything, memberID, int64(0), mock.Anything).
			Return(nil, &apperror.VersionConflictError{EntityID: memberID, CurrentVersion: 1})

		w := do(setupRouter(svc), http.MethodPatch, "/team-assignments/"+memberID, `{"isLead":false,"version":0}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeVersionConflict)
	})

	t.Run("invalid transition", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Update", mock.Anything, memberID, int64(0), mock.Anything).
			Return(nil, &apperror.InvalidTransitionError{From: "active", To: "active"})

		w := do(setupRouter(svc), http.MethodPatch, "/team-assignments/"+memberID, `{"status":"active","version":0}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Remove(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Remove", mock.Anything, memberID, int64(4)).Return(nil)

		w := do(setupRouter(svc), http.MethodDelete, "/team-assignments/"+memberID+"?version=4", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing version", func(t *testing.T) {
		w := do(setupRouter(new(mockService)), http.MethodDelete, "/team-assignments/"+memberID, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := do(setupRouter(new(mockService)), http.MethodDelete, "/team-assignments/abc?version=1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetAndRoles(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, memberID).Return(nil, model.NotFound(memberID))
	svc.On("Roles", mock.Anything).Return(&model.RolesResponse{Roles: []model.TeamRole{{ID: "registrar", Name: "Registrar"}}}, nil)
	r := setupRouter(svc)

	w := do(r, http.MethodGet, "/team-assignments/"+memberID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/team-roles", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Registrar"`)
}
