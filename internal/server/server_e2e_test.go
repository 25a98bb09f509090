//go:build e2e

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/festy23/consultant_staffing/internal/config"
	"github.com/festy23/consultant_staffing/internal/database/migrate"
	"github.com/festy23/consultant_staffing/internal/events"
)

// E2ETestSuite drives the full engine against a real PostgreSQL.
type E2ETestSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *gorm.DB
	recorder  *events.Recorder
	server    *httptest.Server
}

func (s *E2ETestSuite) SetupSuite() {
	s.ctx = context.Background()
	gin.SetMode(gin.TestMode)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("staffing"),
		postgres.WithUsername("staffing"),
		postgres.WithPassword("staffing"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err, "failed to start PostgreSQL container")
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = gorm.Open(postgresDriver.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	s.Require().NoError(err)
	s.Require().NoError(migrate.Migrate(s.db))

	s.recorder = &events.Recorder{}
	s.server = httptest.NewServer(NewEngine(Deps{
		Config: config.Config{
			Scheduling: config.SchedulingConfig{
				LeadPolicy:         config.LeadPolicyWarn,
				ConfirmationPhrase: "DELETE",
				DefaultHoursPerDay: decimal.NewFromInt(8),
				BulkConcurrency:    4,
				BulkMaxItems:       50,
			},
		},
		DB:        s.db,
		Publisher: s.recorder,
		Logger:    zap.NewNop().Sugar(),
	}))
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *E2ETestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(
		"TRUNCATE documents, team_assignments, assignments, schedules, consultants CASCADE",
	).Error)
}

func TestE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}

type reply struct {
	status int
	etag   string
	body   map[string]any
}

func (r reply) errorCode() string {
	if e, ok := r.body["error"].(map[string]any); ok {
		code, _ := e["code"].(string)
		return code
	}
	return ""
}

func (s *E2ETestSuite) do(method, path string, body any, headers ...string) reply {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, payload)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	out := reply{status: resp.StatusCode, etag: resp.Header.Get("ETag")}
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (s *E2ETestSuite) consultant(id, name string) {
	r := s.do(http.MethodPut, "/consultants/"+id, map[string]any{
		"name":  name,
		"email": fmt.Sprintf("%s@hospital.test", id[:8]),
	})
	s.Require().Equal(http.StatusOK, r.status)
}

func (s *E2ETestSuite) schedule(project string) string {
	r := s.do(http.MethodPost, "/projects/"+project+"/schedules", map[string]any{
		"title":     "Rota",
		"startDate": "2024-01-01",
		"endDate":   "2024-12-31",
	})
	s.Require().Equal(http.StatusCreated, r.status)
	return r.body["id"].(string)
}

const (
	drPatel  = "8f14e45f-ceea-4e7a-9f3b-1d2c3b4a5e61"
	drOkafor = "c9f0f895-fb98-4b91-b2b6-0a1f2c3d4e5f"
)

func (s *E2ETestSuite) TestBookingLifecycle() {
	s.consultant(drPatel, "Dr. Patel")
	scheduleID := s.schedule("cardiology")

	created := s.do(http.MethodPost, "/schedules/"+scheduleID+"/assignments", map[string]any{
		"consultantId": drPatel,
		"startDate":    "2024-03-01",
		"endDate":      "2024-03-14",
		"role":         "Attending",
	})
	s.Require().Equal(http.StatusCreated, created.status)
	s.Equal(`"0"`, created.etag)
	id := created.body["id"].(string)

	// Touches the first booking on its last day.
	overlap := s.do(http.MethodPost, "/schedules/"+scheduleID+"/assignments", map[string]any{
		"consultantId": drPatel,
		"startDate":    "2024-03-14",
		"endDate":      "2024-03-20",
		"role":         "Registrar",
	})
	s.Equal(http.StatusConflict, overlap.status)
	s.Equal("DATE_RANGE_CONFLICT", overlap.errorCode())

	confirmed := s.do(http.MethodPatch, "/assignments/"+id+"/status",
		map[string]any{"status": "confirmed"}, "If-Match", `"0"`)
	s.Require().Equal(http.StatusOK, confirmed.status)
	s.Equal(`"1"`, confirmed.etag)

	stale := s.do(http.MethodPatch, "/assignments/"+id,
		map[string]any{"notes": "handover at 08:00"}, "If-Match", `"0"`)
	s.Equal(http.StatusConflict, stale.status)
	s.Equal("VERSION_CONFLICT", stale.errorCode())

	cancel := s.do(http.MethodPatch, "/assignments/"+id+"/status",
		map[string]any{"status": "cancelled", "confirmationText": "DELETE"}, "If-Match", `"1"`)
	s.Require().Equal(http.StatusOK, cancel.status)

	// The cancelled booking no longer blocks the period.
	rebooked := s.do(http.MethodPost, "/schedules/"+scheduleID+"/assignments", map[string]any{
		"consultantId": drPatel,
		"startDate":    "2024-03-14",
		"endDate":      "2024-03-20",
		"role":         "Registrar",
	})
	s.Equal(http.StatusCreated, rebooked.status)

	s.Contains(s.recorder.Types(), events.AssignmentStatusChanged)
}

func (s *E2ETestSuite) TestTeamLeadWarning() {
	s.consultant(drPatel, "Dr. Patel")
	s.consultant(drOkafor, "Dr. Okafor")

	first := s.do(http.MethodPost, "/projects/oncology/team", map[string]any{
		"consultantId": drPatel,
		"teamRoleId":   "lead-consultant",
		"startDate":    "2024-01-01",
		"isLead":       true,
	})
	s.Require().Equal(http.StatusCreated, first.status)

	second := map[string]any{
		"consultantId": drOkafor,
		"teamRoleId":   "lead-consultant",
		"startDate":    "2024-06-01",
		"endDate":      "2024-06-30",
		"isLead":       true,
	}
	warned := s.do(http.MethodPost, "/projects/oncology/team", second)
	s.Equal(http.StatusConflict, warned.status)
	s.Equal("LEAD_CONFLICT", warned.errorCode())
	details := warned.body["error"].(map[string]any)["details"].(map[string]any)
	s.Equal(true, details["overridable"])

	second["acknowledgeLeadWarning"] = true
	acknowledged := s.do(http.MethodPost, "/projects/oncology/team", second)
	s.Equal(http.StatusCreated, acknowledged.status)
	s.Len(acknowledged.body["warnings"], 1)

	team := s.do(http.MethodGet, "/projects/oncology/team?lead=true", nil)
	s.Equal(http.StatusOK, team.status)
	s.EqualValues(2, team.body["count"])
}

func (s *E2ETestSuite) TestDocumentReview() {
	s.consultant(drPatel, "Dr. Patel")

	created := s.do(http.MethodPost, "/consultants/"+drPatel+"/documents", map[string]any{
		"title":        "Medical indemnity",
		"documentType": "indemnity",
		"expiresAt":    time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
	})
	s.Require().Equal(http.StatusCreated, created.status)
	id := created.body["id"].(string)

	noComment := s.do(http.MethodPatch, "/documents/"+id+"/review",
		map[string]any{"status": "rejected", "reviewedBy": "medical staffing", "version": 0})
	s.Equal(http.StatusBadRequest, noComment.status)

	rejected := s.do(http.MethodPatch, "/documents/"+id+"/review", map[string]any{
		"status":     "rejected",
		"reviewedBy": "medical staffing",
		"comment":    "certificate is unsigned",
		"version":    0,
	})
	s.Require().Equal(http.StatusOK, rejected.status)

	resubmitted := s.do(http.MethodPost, "/documents/"+id+"/resubmit", map[string]any{"version": 1})
	s.Require().Equal(http.StatusOK, resubmitted.status)
	s.Equal("pending", resubmitted.body["status"])

	expiring := s.do(http.MethodGet, "/documents/expiring?withinDays=30", nil)
	s.Equal(http.StatusOK, expiring.status)
	s.EqualValues(1, expiring.body["count"])
}
