package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/resume-match/internal/config"
	"github.com/fairyhunter13/resume-match/internal/domain"
	"github.com/fairyhunter13/resume-match/internal/usecase"
	"github.com/fairyhunter13/resume-match/pkg/textx"
	"github.com/gabriel-vasile/mimetype"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Uploads    usecase.UploadService
	Analyzer   usecase.AnalyzeService
	Results    usecase.ResultService
	Extractor  domain.TextExtractor
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
	TikaCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, uploads usecase.UploadService, analyzer usecase.AnalyzeService, results usecase.ResultService, extractor domain.TextExtractor, dbCheck, redisCheck, tikaCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Uploads: uploads, Analyzer: analyzer, Results: results, Extractor: extractor, DBCheck: dbCheck, RedisCheck: redisCheck, TikaCheck: tikaCheck}
}

// allowedExt enforces an allowlist for uploads: .txt, .pdf, .docx
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedMIMEFor(m string, filename string) bool {
	m = strings.ToLower(m)
	// For .txt files accept any text/* since some detectors misclassify rich text
	if strings.HasSuffix(strings.ToLower(filename), ".txt") {
		if strings.HasPrefix(m, "text/") {
			return true
		}
	}
	if strings.HasPrefix(m, "text/plain") { // allow parameters such as charset
		return true
	}
	return m == "application/pdf" || m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// extractUploadedText performs text extraction based on the uploaded content
// and filename. PDF and DOCX go through the external extractor (Apache Tika)
// via a temp file; plain text is sanitized directly.
func extractUploadedText(ctx context.Context, extractor domain.TextExtractor, h *multipart.FileHeader, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(h.Filename))
	if ext == ".pdf" || ext == ".docx" {
		if extractor == nil {
			return "", fmt.Errorf("%w: %s requires extractor", domain.ErrInvalidArgument, strings.TrimPrefix(ext, "."))
		}
		tmp, err := os.CreateTemp("", "upload-*")
		if err != nil {
			return "", err
		}
		defer func() { _ = os.Remove(tmp.Name()); _ = tmp.Close() }()
		if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
			return "", err
		}
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
		return extractor.ExtractPath(ctx, h.Filename, tmp.Name())
	}
	return textx.SanitizeText(string(data)), nil
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// acceptsJSON rejects requests whose Accept header excludes JSON.
func acceptsJSON(w http.ResponseWriter, r *http.Request) bool {
	a := r.Header.Get("Accept")
	if a == "" || a == "*/*" || strings.Contains(a, "application/json") {
		return true
	}
	writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{
		Code: "NOT_ACCEPTABLE", Message: "not acceptable", Details: map[string]any{"accept": a},
	}})
	return false
}

// UploadHandler handles multipart upload of a resume file.
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code: "INVALID_ARGUMENT", Message: "payload too large", Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
				}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume file required", domain.ErrInvalidArgument), map[string]string{"field": "resume"})
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume read: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		// Extension allowlist first, then content sniffing.
		if !allowedExt(header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "unsupported media type (extension)", Details: map[string]any{"filename": header.Filename},
			}})
			return
		}
		mt := mimetype.Detect(data)
		if !allowedMIMEFor(mt.String(), header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "unsupported media type (content)", Details: map[string]any{"mime": mt.String(), "filename": header.Filename},
			}})
			return
		}

		text, err := extractUploadedText(r.Context(), s.Extractor, header, data)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume extract: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		id, err := s.Uploads.Ingest(r.Context(), text, header.Filename, mt.String(), int64(len(data)))
		if err != nil {
			writeError(w, r, fmt.Errorf("upload ingest: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"resume_id": id})
	}
}

type analyzeWeights struct {
	Semantic float64 `json:"semantic" validate:"gte=0"`
	Skills   float64 `json:"skills" validate:"gte=0"`
	Keywords float64 `json:"keywords" validate:"gte=0"`
}

type analyzeSkill struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category"`
}

type analyzeOptions struct {
	Weights      *analyzeWeights `json:"weights"`
	Strictness   string          `json:"strictness" validate:"omitempty,oneof=low medium high"`
	CustomSkills []analyzeSkill  `json:"custom_skills" validate:"max=50,dive"`
}

type analyzeRequest struct {
	ResumeID       string          `json:"resume_id"`
	ResumeText     string          `json:"resume_text" validate:"max=200000"`
	JobDescription string          `json:"job_description" validate:"required,min=10,max=200000"`
	Options        *analyzeOptions `json:"options"`
}

func (req analyzeRequest) toOptions() domain.AnalysisOptions {
	var opts domain.AnalysisOptions
	if req.Options == nil {
		return opts
	}
	if w := req.Options.Weights; w != nil {
		opts.Weights = domain.Weights{Semantic: w.Semantic, Skills: w.Skills, Keywords: w.Keywords}
	}
	opts.Strictness = domain.Strictness(req.Options.Strictness)
	for _, s := range req.Options.CustomSkills {
		opts.CustomSkills = append(opts.CustomSkills, domain.Skill{
			Name:     s.Name,
			Category: domain.SkillCategory(s.Category),
		})
	}
	return opts
}

// AnalyzeHandler scores a resume against a job description synchronously.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		// Cap body size to prevent abuse
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		res, err := s.Analyzer.Analyze(r.Context(), usecase.AnalyzeRequest{
			ResumeID:       req.ResumeID,
			ResumeText:     req.ResumeText,
			JobDescription: req.JobDescription,
			Options:        req.toOptions(),
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// AnalysisHandler returns a stored analysis result by id.
func (s *Server) AnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		id := chi.URLParam(r, "id")
		res, err := s.Results.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// HistoryHandler lists recent analyses, newest first.
func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidArgument), map[string]string{"limit": raw})
				return
			}
			limit = n
		}
		items, err := s.Results.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analyses": items, "count": len(items)})
	}
}

// ReadyzHandler probes DB, Redis and Tika.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	probe := func(ctx context.Context, name string, fn func(context.Context) error) check {
		if err := fn(ctx); err != nil {
			return check{Name: name, OK: false, Details: err.Error()}
		}
		return check{Name: name, OK: true}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		if s.DBCheck != nil {
			checks = append(checks, probe(ctx, "db", s.DBCheck))
		}
		if s.RedisCheck != nil {
			checks = append(checks, probe(ctx, "redis", s.RedisCheck))
		}
		if s.TikaCheck != nil {
			checks = append(checks, probe(ctx, "tika", s.TikaCheck))
		}
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
