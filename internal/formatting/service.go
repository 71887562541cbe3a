// Package formatting runs the resume pipeline: extract, sanitize, prompt,
// normalize and compile.
package formatting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-formatter/internal/extract"
	"resume-formatter/internal/latex"
	"resume-formatter/internal/llm"
	"resume-formatter/internal/runs"
	"resume-formatter/internal/shared/metrics"
	"resume-formatter/internal/shared/telemetry"
)

// DownloadName is the file name offered for generated PDFs.
const DownloadName = "generated_resume.pdf"

// Compiler turns LaTeX source into PDF bytes.
type Compiler interface {
	Compile(ctx context.Context, name, source string) ([]byte, error)
}

// TemplateSource resolves a raw template identifier to LaTeX source.
type TemplateSource interface {
	Lookup(ctx context.Context, raw string) (int, string, error)
}

// ExtractFunc turns an upload into plain text.
type ExtractFunc func(ctx context.Context, data []byte, mimeType, fileName string) (string, error)

// Service wires the pipeline collaborators. LLM is nil when no provider key
// is configured.
type Service struct {
	LLM       llm.Generator
	Compiler  Compiler
	Templates TemplateSource
	Extract   ExtractFunc
	Runs      *runs.Service

	Provider string
	Model    string

	Now func() time.Time
}

// GenerateInput is one upload to reformat.
type GenerateInput struct {
	RunID      string
	RequestID  string
	Data       []byte
	FileName   string
	MimeType   string
	TemplateID string
	SinglePage bool
}

// Result is a generated document.
type Result struct {
	RunID    string
	Latex    string
	PDF      []byte
	FileName string
}

// EditInput is one revision request against an existing document.
type EditInput struct {
	RunID     string
	RequestID string
	Latex     string
	Prompt    string
	Compile   bool
}

// EditResult is a revised document; PDF is nil unless compilation was asked for.
type EditResult struct {
	RunID string
	Latex string
	PDF   []byte
}

// Configured reports whether a model provider is available.
func (s *Service) Configured() bool {
	return s.LLM != nil
}

// Generate reformats an uploaded resume into the chosen template.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (res Result, err error) {
	run := s.begin(in.RunID, in.RequestID, runs.KindGenerate)
	run.TemplateID = strings.TrimSpace(in.TemplateID)
	run.SinglePage = in.SinglePage
	start := s.now()
	defer func() {
		run.LatexBytes = len(res.Latex)
		run.PDFBytes = len(res.PDF)
		run.Compiled = err == nil
		s.finish(ctx, &run, start, err)
	}()

	if len(in.Data) == 0 {
		return Result{}, stageErr(StageInput, fmt.Errorf("%w: file is empty", ErrInvalidInput))
	}
	if !s.Configured() {
		return Result{}, stageErr(StageConfig, llm.ErrNotConfigured)
	}

	templateID, source, err := s.Templates.Lookup(ctx, in.TemplateID)
	if err != nil {
		return Result{}, stageErr(StageTemplate, err)
	}
	run.TemplateID = strconv.Itoa(templateID)

	text, err := s.Extract(ctx, in.Data, in.MimeType, in.FileName)
	if err != nil {
		return Result{}, stageErr(StageExtract, err)
	}
	cleaned := latex.Sanitize(text)

	raw, err := s.generate(ctx, run.ID, []string{llm.BuildResumePrompt(source, cleaned, in.SinglePage)})
	if err != nil {
		return Result{}, stageErr(StageModel, err)
	}
	doc := latex.Normalize(raw)

	run.ArtifactName = latex.GenerateName()
	pdf, err := s.Compiler.Compile(ctx, run.ArtifactName, doc)
	if err != nil {
		return Result{RunID: run.ID, Latex: doc}, stageErr(StageCompile, err)
	}

	return Result{RunID: run.ID, Latex: doc, PDF: pdf, FileName: DownloadName}, nil
}

// Edit applies a natural language change to an existing document.
func (s *Service) Edit(ctx context.Context, in EditInput) (res EditResult, err error) {
	run := s.begin(in.RunID, in.RequestID, runs.KindEdit)
	start := s.now()
	defer func() {
		run.LatexBytes = len(res.Latex)
		run.PDFBytes = len(res.PDF)
		run.Compiled = in.Compile && err == nil
		s.finish(ctx, &run, start, err)
	}()

	if strings.TrimSpace(in.Latex) == "" || strings.TrimSpace(in.Prompt) == "" {
		return EditResult{}, stageErr(StageInput, fmt.Errorf("%w: latex and prompt are required", ErrInvalidInput))
	}
	if !s.Configured() {
		return EditResult{}, stageErr(StageConfig, llm.ErrNotConfigured)
	}

	raw, err := s.generate(ctx, run.ID, llm.BuildEditParts(in.Latex, in.Prompt))
	if err != nil {
		return EditResult{}, stageErr(StageModel, err)
	}
	doc := latex.Normalize(raw)
	if !in.Compile {
		return EditResult{RunID: run.ID, Latex: doc}, nil
	}

	run.ArtifactName = latex.EditName(s.now())
	pdf, err := s.Compiler.Compile(ctx, run.ArtifactName, doc)
	if err != nil {
		return EditResult{RunID: run.ID, Latex: doc}, stageErr(StageCompile, err)
	}
	return EditResult{RunID: run.ID, Latex: doc, PDF: pdf}, nil
}

func (s *Service) generate(ctx context.Context, runID string, parts []string) (string, error) {
	telemetry.Info("llm.request", map[string]any{
		"run_id":        runID,
		"provider":      s.Provider,
		"model":         s.Model,
		"prompt_sha256": llm.PromptHash(parts),
		"prompt_chars":  llm.PromptChars(parts),
	})
	out, err := s.LLM.Generate(ctx, parts)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

func (s *Service) begin(runID, requestID, kind string) runs.Run {
	if runID == "" {
		runID = uuid.NewString()
	}
	metrics.IncStarted(kind)
	return runs.Run{
		ID:        runID,
		RequestID: requestID,
		Kind:      kind,
		Provider:  s.Provider,
		Model:     s.Model,
	}
}

func (s *Service) finish(ctx context.Context, run *runs.Run, start time.Time, err error) {
	elapsed := s.now().Sub(start)
	run.DurationMs = elapsed.Milliseconds()
	run.CreatedAt = start.UTC()
	metrics.ObservePipelineMs(float64(run.DurationMs))

	fields := map[string]any{
		"run_id":      run.ID,
		"request_id":  run.RequestID,
		"kind":        run.Kind,
		"template_id": run.TemplateID,
		"duration_ms": run.DurationMs,
	}
	if err != nil {
		run.Status = runs.StatusFailed
		run.FailedStage = StageOf(err)
		metrics.IncFailed(run.Kind, run.FailedStage)
		fields["stage"] = run.FailedStage
		fields["error"] = err.Error()
		telemetry.Error("resume."+run.Kind+".failed", fields)
	} else {
		run.Status = runs.StatusSucceeded
		metrics.IncSucceeded(run.Kind)
		fields["latex_bytes"] = run.LatexBytes
		fields["pdf_bytes"] = run.PDFBytes
		telemetry.Info("resume."+run.Kind+".complete", fields)
	}
	s.Runs.Record(ctx, *run)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DefaultExtract is the production extractor.
var DefaultExtract ExtractFunc = extract.ExtractTextFromBytes
