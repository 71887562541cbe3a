package formatting

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-formatter/internal/extract"
	"resume-formatter/internal/llm"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/templates"
)

const defaultMaxUploadBytes = 25 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
	// KeyName is reported when no provider key is configured.
	KeyName string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64, keyName string) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes, KeyName: keyName}
}

// RegisterRoutes attaches resume routes to the router group. Extra handlers
// such as rate limiters run before the route handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, pre ...gin.HandlerFunc) {
	rg.POST("/resumes/generate", chain(pre, h.generate)...)
	rg.POST("/resumes/edit", chain(pre, h.edit)...)
}

func chain(pre []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(pre)+1)
	out = append(out, pre...)
	return append(out, h)
}

func (h *Handler) generate(c *gin.Context) {
	runID := startRun(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", gin.H{"maxBytes": h.MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	templateID := firstForm(c, "template_id", "templateId")
	if templateID == "" {
		templateID = "1"
	}
	c.Set("templateId", templateID)

	res, err := h.Svc.Generate(c.Request.Context(), GenerateInput{
		RunID:      runID,
		RequestID:  c.GetString("requestId"),
		Data:       data,
		FileName:   fileHeader.Filename,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		TemplateID: templateID,
		SinglePage: parseSinglePage(firstForm(c, "single_page", "singlePage")),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "not_configured", "Missing "+h.KeyName, nil)
		case errors.Is(err, templates.ErrInvalidID), errors.Is(err, templates.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Template not found", nil)
		case errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported file type, upload a PDF or DOCX resume", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "generation_failed", "An error occurred while processing your request", nil)
		}
		return
	}

	if wantsPDF(c) {
		respond.Attachment(c, "application/pdf", res.FileName, res.PDF)
		return
	}
	respond.OK(c, toGenerateResponse(res))
}

func (h *Handler) edit(c *gin.Context) {
	runID := startRun(c)

	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Latex) == "" || strings.TrimSpace(req.Prompt) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "latex and prompt are required", nil)
		return
	}

	res, err := h.Svc.Edit(c.Request.Context(), EditInput{
		RunID:     runID,
		RequestID: c.GetString("requestId"),
		Latex:     req.Latex,
		Prompt:    req.Prompt,
		Compile:   req.Compile,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "latex and prompt are required", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "not_configured", "Missing "+h.KeyName, nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "edit_failed", "Failed to edit LaTeX", nil)
		}
		return
	}
	respond.OK(c, toEditResponse(res))
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func startRun(c *gin.Context) string {
	runID := uuid.NewString()
	c.Set("runId", runID)
	c.Header("X-Run-Id", runID)
	return runID
}

func firstForm(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.PostForm(k)); v != "" {
			return v
		}
	}
	return ""
}

// parseSinglePage defaults to single page mode unless the flag is a false value.
func parseSinglePage(raw string) bool {
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func wantsPDF(c *gin.Context) bool {
	if strings.EqualFold(c.Query("format"), "pdf") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/pdf") && !strings.Contains(accept, "application/json")
}
