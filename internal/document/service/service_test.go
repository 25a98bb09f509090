package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
	consultantModel "github.com/festy23/consultant_staffing/internal/consultant/model"
	consultantRepository "github.com/festy23/consultant_staffing/internal/consultant/repository"
	consultantService "github.com/festy23/consultant_staffing/internal/consultant/service"
	"github.com/festy23/consultant_staffing/internal/database/dbtest"
	"github.com/festy23/consultant_staffing/internal/document/model"
	"github.com/festy23/consultant_staffing/internal/document/repository"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

const (
	consultantID = "8f14e45f-ceea-4e7a-9f3b-1d2c3b4a5e61"
	missingID    = "00000000-0000-4000-8000-000000000000"
	reviewer     = "compliance@example.org"
)

type DocumentServiceSuite struct {
	suite.Suite
	ctx      context.Context
	recorder *events.Recorder
	svc      Service
}

func (s *DocumentServiceSuite) SetupTest() {
	db := dbtest.Open(s.T(), &consultantModel.Consultant{}, &model.Document{})
	s.ctx = context.Background()
	logger := zap.NewNop().Sugar()
	s.recorder = &events.Recorder{}

	consultants := consultantService.New(consultantRepository.New(db, logger), logger)
	_, err := consultants.Upsert(s.ctx, consultantID, &consultantModel.UpsertRequest{
		Name: "Dr. Ada Okafor", Email: "okafor@example.org",
	})
	s.Require().NoError(err)

	clock := func() time.Time { return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC) }
	s.svc = New(repository.New(db, logger), consultants, events.NewEmitter(s.recorder, logger), logger, WithClock(clock))
}

func (s *DocumentServiceSuite) create(title, expiresAt string) *model.View {
	req := &model.CreateRequest{Title: title, DocumentType: "registration", FileName: "scan.pdf"}
	if expiresAt != "" {
		req.ExpiresAt = daterange.MustParseDate(expiresAt)
	}
	view, err := s.svc.Create(s.ctx, consultantID, req)
	s.Require().NoError(err)
	return view
}

func (s *DocumentServiceSuite) TestCreate() {
	view := s.create("GMC registration", "2024-06-14")
	s.Equal(lifecycle.DocumentPending, view.Status)
	s.True(view.Expired)

	fresh := s.create("Indemnity", "2024-06-15")
	s.False(fresh.Expired)

	_, err := s.svc.Create(s.ctx, missingID, &model.CreateRequest{Title: "x", DocumentType: "cv"})
	s.True(apperror.IsNotFound(err))

	_, err = s.svc.Create(s.ctx, consultantID, &model.CreateRequest{})
	var verr *apperror.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.True(verr.HasField("title"))
	s.True(verr.HasField("documentType"))
}

func (s *DocumentServiceSuite) TestReview_Approve() {
	doc := s.create("GMC registration", "")

	view, err := s.svc.Review(s.ctx, doc.ID, 0, &model.ReviewRequest{
		Status: lifecycle.DocumentApproved, ReviewedBy: reviewer,
	})
	s.Require().NoError(err)
	s.Equal(lifecycle.DocumentApproved, view.Status)
	s.Equal(reviewer, view.ReviewedBy)
	s.Require().NotNil(view.ReviewedAt)
	s.Equal(int64(1), view.Version)
	s.Equal([]events.Type{events.DocumentReviewed}, s.recorder.Types())

	// Approved is final.
	_, err = s.svc.Review(s.ctx, doc.ID, 1, &model.ReviewRequest{
		Status: lifecycle.DocumentRejected, Comment: "late", ReviewedBy: reviewer,
	})
	var transition *apperror.InvalidTransitionError
	s.Require().ErrorAs(err, &transition)
}

func (s *DocumentServiceSuite) TestReview_RejectNeedsComment() {
	doc := s.create("Indemnity", "")

	_, err := s.svc.Review(s.ctx, doc.ID, 0, &model.ReviewRequest{
		Status: lifecycle.DocumentRejected, Comment: "   ", ReviewedBy: reviewer,
	})
	var verr *apperror.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.True(verr.HasField("comment"))

	view, err := s.svc.Review(s.ctx, doc.ID, 0, &model.ReviewRequest{
		Status: lifecycle.DocumentRejected, Comment: "Certificate is unsigned", ReviewedBy: reviewer,
	})
	s.Require().NoError(err)
	s.Equal("Certificate is unsigned", view.ReviewComment)
}

func (s *DocumentServiceSuite) TestReview_Validation() {
	doc := s.create("Indemnity", "")

	_, err := s.svc.Review(s.ctx, doc.ID, 0, &model.ReviewRequest{Status: lifecycle.DocumentPending})
	var verr *apperror.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.True(verr.HasField("status"))
	s.True(verr.HasField("reviewedBy"))

	_, err = s.svc.Review(s.ctx, doc.ID, 5, &model.ReviewRequest{Status: lifecycle.DocumentApproved, ReviewedBy: reviewer})
	var conflict *apperror.VersionConflictError
	s.Require().ErrorAs(err, &conflict)

	_, err = s.svc.Review(s.ctx, missingID, 0, &model.ReviewRequest{Status: lifecycle.DocumentApproved, ReviewedBy: reviewer})
	s.True(apperror.IsNotFound(err))
}

func (s *DocumentServiceSuite) TestResubmit() {
	doc := s.create("Life support", "2024-01-01")

	_, err := s.svc.Resubmit(s.ctx, doc.ID, 0, &model.ResubmitRequest{})
	var transition *apperror.InvalidTransitionError
	s.Require().ErrorAs(err, &transition, "only rejected documents can be resubmitted")

	_, err = s.svc.Review(s.ctx, doc.ID, 0, &model.ReviewRequest{
		Status: lifecycle.DocumentRejected, Comment: "Expired", ReviewedBy: reviewer,
	})
	s.Require().NoError(err)

	renewed := daterange.MustParseDate("2026-01-01")
	file := "renewed.pdf"
	view, err := s.svc.Resubmit(s.ctx, doc.ID, 1, &model.ResubmitRequest{FileName: &file, ExpiresAt: &renewed})
	s.Require().NoError(err)
	s.Equal(lifecycle.DocumentPending, view.Status)
	s.Empty(view.ReviewComment)
	s.Nil(view.ReviewedAt)
	s.Equal(renewed, view.ExpiresAt)
	s.False(view.Expired)
	s.Equal(int64(2), view.Version)
}

func (s *DocumentServiceSuite) TestExpiring() {
	s.create("Expired", "2024-05-01")
	s.create("Soon", "2024-07-01")
	s.create("Later", "2024-09-01")
	s.create("Never", "")

	resp, err := s.svc.Expiring(s.ctx, 30)
	s.Require().NoError(err)
	s.Equal(daterange.MustParseDate("2024-07-15"), resp.Until)
	s.Require().Equal(2, resp.Count)
	s.Equal("Expired", resp.Documents[0].Title)
	s.True(resp.Documents[0].Expired)
	s.Equal("Soon", resp.Documents[1].Title)
	s.False(resp.Documents[1].Expired)

	_, err = s.svc.Expiring(s.ctx, 400)
	var verr *apperror.ValidationError
	s.Require().ErrorAs(err, &verr)
}

func (s *DocumentServiceSuite) TestListByConsultant() {
	s.create("A", "")
	s.create("B", "")

	resp, err := s.svc.ListByConsultant(s.ctx, consultantID, model.ListFilter{})
	s.Require().NoError(err)
	s.Equal(2, resp.Count)

	_, err = s.svc.ListByConsultant(s.ctx, missingID, model.ListFilter{})
	s.True(apperror.IsNotFound(err))

	_, err = s.svc.ListByConsultant(s.ctx, consultantID, model.ListFilter{Status: "lost"})
	var verr *apperror.ValidationError
	s.Require().ErrorAs(err, &verr)
}

func TestDocumentServiceSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceSuite))
}
