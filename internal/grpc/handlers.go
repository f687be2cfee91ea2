package grpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/ta-grader/internal/llm"
	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/service"
)

const (
	defaultGRPCTimeout  = 10 * time.Second
	defaultGradeTimeout = 2 * time.Minute
)

type GRPCHandlers struct {
	store   SummaryStore
	reports ReportBuilder
	grader  SubmissionGrader
	logger  *zap.Logger
}

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(store SummaryStore, reports ReportBuilder, grader SubmissionGrader, logger *zap.Logger) *GRPCHandlers {
	if store == nil {
		panic("nil SummaryStore provided to NewGRPCHandlers")
	}
	if reports == nil {
		panic("nil ReportBuilder provided to NewGRPCHandlers")
	}
	if grader == nil {
		panic("nil SubmissionGrader provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandlers{
		store:   store,
		reports: reports,
		grader:  grader,
		logger:  logger.Named("grpc-handler"),
	}
}

// stringField returns a string field of req. A missing field reads as "".
func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}
	return sv.StringValue, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, service.ErrNoGradeData):
		s.logger.Info("no grade data", zap.String("op", op))
		return status.Error(codes.NotFound, "no grade data available yet")
	case errors.Is(err, service.ErrNoRubric):
		return status.Error(codes.FailedPrecondition, "no rubric loaded")
	case errors.Is(err, llm.ErrEmptyPrompt):
		return status.Error(codes.InvalidArgument, "submission content is empty")
	case errors.Is(err, llm.ErrNotConfigured):
		s.logger.Error("model not configured", zap.String("op", op))
		return status.Error(codes.Unavailable, "language model is not configured")
	case errors.As(err, &upstream):
		s.logger.Warn("model error", zap.String("op", op), zap.Int("upstream_status", upstream.StatusCode))
		return status.Errorf(codes.Unavailable, "language model: %s", upstream.Message)
	case errors.Is(err, llm.ErrUpstream):
		s.logger.Warn("model error", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Unavailable, "language model request failed")
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) RegisterGradeResult(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	student, err := stringField(req, "student")
	if err != nil {
		return nil, err
	}
	text, err := stringField(req, "rubric_text")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	summary, err := s.store.Append(ctx, student, text)
	if err != nil {
		return nil, s.handleError(ctx, "RegisterGradeResult", err)
	}
	return summaryToStruct(summary)
}

func (s *GRPCHandlers) GradeSubmission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	student, err := stringField(req, "student")
	if err != nil {
		return nil, err
	}
	content, err := stringField(req, "content")
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, status.Error(codes.InvalidArgument, "content is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGradeTimeout)
	defer cancel()

	summary, err := s.grader.GradeSubmission(ctx, service.Submission{Student: student, Content: content})
	if err != nil {
		return nil, s.handleError(ctx, "GradeSubmission", err)
	}
	return summaryToStruct(summary)
}

func (s *GRPCHandlers) BuildReport(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	rows, err := s.reports.BuildReportRows(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "BuildReport", err)
	}

	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = map[string]any{
			"student":          r.Student,
			"category":         r.Category,
			"grade":            r.Grade,
			"confidence_label": r.ConfidenceLabel,
			"confidence_flag":  r.ConfidenceFlag.String(),
		}
	}

	resp, err := structpb.NewStruct(map[string]any{"rows": out})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode report: %v", err)
	}
	return resp, nil
}

func summaryToStruct(summary models.StudentGradeSummary) (*structpb.Struct, error) {
	cats := make([]any, len(summary.Categories))
	for i, c := range summary.Categories {
		cats[i] = map[string]any{
			"category":         c.Category,
			"grade":            c.Grade,
			"feedback":         c.Feedback,
			"confidence_label": c.ConfidenceLabel,
		}
	}

	resp, err := structpb.NewStruct(map[string]any{
		"id":         summary.ID,
		"student":    summary.Student,
		"created_at": summary.CreatedAt.Format(time.RFC3339Nano),
		"categories": cats,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode summary: %v", err)
	}
	return resp, nil
}
