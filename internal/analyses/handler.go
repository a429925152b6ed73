package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resumefit/internal/extract"
	"resumefit/internal/llm"
	"resumefit/internal/shared/server/middleware"
	"resumefit/internal/shared/server/respond"
)

// multipartOverhead is allowed on top of the file limit for form fields and boundaries.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyze)
	rg.POST("/analyses/upload", h.upload)
	rg.POST("/analyses/compare", h.compare)
	rg.POST("/analyses/suggestions", h.suggestions)
	rg.GET("/analyses/history", h.history)
	rg.GET("/analyses/:id", h.get)
	rg.GET("/stats", h.stats)
}

type analyzeBody struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Filename       string `json:"filename"`
}

type compareBody struct {
	OriginalResumeText  string `json:"originalResumeText"`
	RewrittenResumeText string `json:"rewrittenResumeText"`
	JobDescription      string `json:"jobDescription"`
}

func (h *Handler) analyze(c *gin.Context) {
	var body analyzeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid JSON body", nil)
		return
	}
	out, err := h.Svc.Analyze(c.Request.Context(), AnalyzeRequest{
		SessionID:      middleware.SessionIDFromContext(c),
		ResumeFilename: body.Filename,
		ResumeText:     body.ResumeText,
		JobDescription: body.JobDescription,
		Enhance:        queryBool(c, "enhance"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("analysisId", out.ID)
	respond.OK(c, out)
}

func (h *Handler) upload(c *gin.Context) {
	maxBytes := h.Svc.Extractor.MaxBytes
	if maxBytes <= 0 {
		maxBytes = extract.DefaultMaxBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "file exceeds upload limit", gin.H{"maxBytes": maxBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is required", []map[string]string{
			{"field": "file", "issue": "missing"},
		})
		return
	}
	if header.Size > maxBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "file exceeds upload limit", gin.H{"maxBytes": maxBytes})
		return
	}
	file, err := header.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file could not be read", nil)
		return
	}
	defer file.Close()

	out, err := h.Svc.Upload(c.Request.Context(), UploadRequest{
		SessionID:      middleware.SessionIDFromContext(c),
		FileName:       header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		File:           file,
		JobDescription: c.PostForm("jobDescription"),
		Enhance:        queryBool(c, "enhance"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("analysisId", out.ID)
	respond.OK(c, out)
}

func (h *Handler) compare(c *gin.Context) {
	var body compareBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid JSON body", nil)
		return
	}
	res, err := h.Svc.Compare(c.Request.Context(), body.OriginalResumeText, body.RewrittenResumeText, body.JobDescription)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) suggestions(c *gin.Context) {
	var body analyzeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid JSON body", nil)
		return
	}
	out, err := h.Svc.Suggestions(c.Request.Context(), body.ResumeText, body.JobDescription)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, llm.ErrNotConfigured) {
			writeError(c, err)
			return
		}
		respond.Error(c, http.StatusBadGateway, ErrorCodeLLMFailed, "AI suggestions are temporarily unavailable", nil)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) history(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}
	records, err := h.Svc.History(c.Request.Context(), middleware.SessionIDFromContext(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"analyses": records})
}

func (h *Handler) get(c *gin.Context) {
	record, err := h.Svc.Get(c.Request.Context(), middleware.SessionIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, record)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, stats)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "analysis not found", nil)
	case errors.Is(err, extract.ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "file exceeds upload limit", nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, ErrorCodeUnsupportedType, "only PDF, DOCX and TXT files are supported", nil)
	case errors.Is(err, extract.ErrEmptyText):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeEmptyDocument, "no text could be extracted from the file", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeLLMUnavailable, "AI suggestions are not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "internal error", nil)
	}
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && v
}
