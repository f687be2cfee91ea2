package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/godilite/ta-grader/internal/llm"
	"github.com/godilite/ta-grader/internal/report"
	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/godilite/ta-grader/internal/service"
)

type rubricResp struct {
	Headers    []string            `json:"headers"`
	Rows       []map[string]string `json:"rows"`
	Categories []string            `json:"categories"`
	Rubric     string              `json:"rubric"`
}

func newRubricResp(sheet *rubric.Sheet) rubricResp {
	return rubricResp{
		Headers:    sheet.Headers,
		Rows:       sheet.Rows,
		Categories: sheet.Categories(),
		Rubric:     sheet.PromptText(),
	}
}

type gradeReq struct {
	Submissions []service.Submission `json:"submissions"`
}

type gradeResp struct {
	Summaries []models.StudentGradeSummary `json:"summaries"`
}

type gradeErrResp struct {
	Error  string                       `json:"error"`
	Graded []models.StudentGradeSummary `json:"graded"`
}

type registerReq struct {
	Student    string `json:"student"`
	RubricText string `json:"rubric_text"`
}

type reportResp struct {
	Rows []service.ReportRow `json:"rows"`
}

type llmResp struct {
	Text string `json:"text"`
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mt, "multipart/")
}

func (s *Server) uploadRubric(w http.ResponseWriter, r *http.Request) {
	var src io.Reader
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		f, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Missing rubric file")
			return
		}
		defer f.Close()
		src = f
	} else {
		src = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	}

	sheet, err := rubric.ParseCSV(src)
	if errors.Is(err, rubric.ErrEmptyRubric) {
		writeError(w, http.StatusBadRequest, "Rubric CSV is empty")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rubric CSV")
		return
	}

	s.grader.SetRubric(sheet)
	writeJSON(w, http.StatusOK, newRubricResp(sheet))
}

func (s *Server) getRubric(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.grader.Rubric()
	if err != nil {
		writeError(w, http.StatusNotFound, "No rubric loaded")
		return
	}
	writeJSON(w, http.StatusOK, newRubricResp(sheet))
}

// readSubmissions accepts either a JSON body or a multipart form where each
// uploaded file is one student's submission named after the file.
func (s *Server) readSubmissions(w http.ResponseWriter, r *http.Request) ([]service.Submission, error) {
	if !isMultipart(r) {
		var req gradeReq
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			return nil, fmt.Errorf("decode submissions: %w", err)
		}
		return req.Submissions, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	var subs []service.Submission
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		subs = append(subs, service.Submission{
			Student: filepath.Base(fh.Filename),
			Content: buf.String(),
		})
	}
	return subs, nil
}

func (s *Server) gradeSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.readSubmissions(w, r)
	if err != nil {
		s.logger.Debug("bad grade request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid submissions")
		return
	}

	graded, err := s.grader.GradeSubmissions(r.Context(), subs)
	if err != nil {
		code, msg := statusFor(err)
		s.logger.Warn("grading stopped",
			zap.Int("graded", len(graded)),
			zap.Int("submissions", len(subs)),
			zap.Error(err))
		if graded == nil {
			graded = []models.StudentGradeSummary{}
		}
		writeJSON(w, code, gradeErrResp{Error: msg, Graded: graded})
		return
	}

	writeJSON(w, http.StatusOK, gradeResp{Summaries: graded})
}

func (s *Server) registerGradeResult(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	summary, err := s.store.Append(r.Context(), req.Student, req.RubricText)
	if err != nil {
		s.handleError(w, "register grade result", err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) listGrades(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.Summaries(r.Context())
	if err != nil {
		s.handleError(w, "list grades", err)
		return
	}
	if summaries == nil {
		summaries = []models.StudentGradeSummary{}
	}
	writeJSON(w, http.StatusOK, gradeResp{Summaries: summaries})
}

func (s *Server) reportJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.BuildReportRows(r.Context())
	if err != nil {
		s.handleError(w, "build report", err)
		return
	}
	writeJSON(w, http.StatusOK, reportResp{Rows: rows})
}

func (s *Server) reportPDF(w http.ResponseWriter, r *http.Request) {
	s.writeReport(w, r, report.PDFContentType, report.PDFFileName, report.WritePDF)
}

func (s *Server) reportCSV(w http.ResponseWriter, r *http.Request) {
	s.writeReport(w, r, report.CSVContentType, report.CSVFileName, report.WriteCSV)
}

// writeReport renders into a buffer first so a rendering failure can still
// produce a JSON error.
func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, contentType, fileName string, render func(io.Writer, []service.ReportRow) error) {
	rows, err := s.reports.BuildReportRows(r.Context())
	if err != nil {
		s.handleError(w, "build report", err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, rows); err != nil {
		s.handleError(w, "render report", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// callLLM proxies a raw prompt to the configured model.
func (s *Server) callLLM(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	// Any JSON value other than an object simply has no prompt field.
	fields, _ := body.(map[string]any)
	prompt, ok := fields["prompt"].(string)
	if !ok || prompt == "" {
		writeError(w, http.StatusBadRequest, "Missing or invalid prompt")
		return
	}

	text, err := s.completer.Complete(r.Context(), prompt)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			s.logger.Warn("model error", zap.Int("status", upstream.StatusCode), zap.String("message", upstream.Message))
		}
		s.handleError(w, "call llm", err)
		return
	}

	writeJSON(w, http.StatusOK, llmResp{Text: text})
}
