package formatting

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"resume-formatter/internal/extract"
	"resume-formatter/internal/latex"
	"resume-formatter/internal/llm"
	"resume-formatter/internal/runs"
	"resume-formatter/internal/templates"
)

const modelOutput = "```latex\n\\documentclass{resume}\n\\usepackage[usenames,dvipsyn]{color}\n\\begin{document}\n\\section{Awards & Honors}\nJane Doe\n\\end{document}\n```"

func TestGenerateEndToEnd(t *testing.T) {
	gen := &fakeLLM{reply: modelOutput}
	svc := realPipeline(t, gen)

	res, err := svc.Generate(context.Background(), GenerateInput{
		Data:       readFixture(t),
		FileName:   "resume.pdf",
		MimeType:   "application/pdf",
		TemplateID: "1",
		SinglePage: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.TrimSpace(res.Latex) == "" {
		t.Fatal("expected latex")
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Fatalf("pdf = %q", res.PDF)
	}
	if res.FileName != DownloadName || res.RunID == "" {
		t.Fatalf("unexpected result meta %+v", res)
	}
	if !strings.Contains(res.Latex, `\documentclass{article}`) || !strings.Contains(res.Latex, `\section{Awards \& Honors}`) {
		t.Fatalf("output not normalized: %q", res.Latex)
	}

	if gen.callCount() != 1 {
		t.Fatalf("model calls = %d", gen.callCount())
	}
	prompt := gen.calls[0][0]
	if !strings.Contains(prompt, "strictly keep the resume output single page") {
		t.Fatalf("single page variant not used")
	}
	if !strings.Contains(prompt, "Jane Doe") {
		t.Fatalf("extracted text missing from prompt")
	}
	if !strings.Contains(prompt, "Jake") {
		t.Fatalf("template 1 source missing from prompt")
	}
}

func TestGenerateSanitizesExtractedText(t *testing.T) {
	gen := &fakeLLM{reply: `\documentclass{article}`}
	ext := &countingExtract{text: "C# & Go — $100k"}
	svc, _ := newTestService(gen, &fakeCompiler{}, ext.fn)

	_, err := svc.Generate(context.Background(), GenerateInput{Data: []byte("x"), TemplateID: "2", SinglePage: false})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	prompt := gen.calls[0][0]
	if !strings.HasSuffix(prompt, "Here is my resume content:\nCsharp and Go  USD100k") {
		t.Fatalf("prompt tail = %q", prompt[len(prompt)-60:])
	}
	if strings.Contains(prompt, "strictly keep the resume output single page") {
		t.Fatalf("normal variant expected")
	}
}

func TestGenerateNotConfiguredSkipsExternalSteps(t *testing.T) {
	ext := &countingExtract{text: "resume"}
	comp := &fakeCompiler{}
	svc, repo := newTestService(nil, comp, ext.fn)

	_, err := svc.Generate(context.Background(), GenerateInput{Data: []byte("%PDF-1.4"), TemplateID: "1", SinglePage: true})
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if ext.calls != 0 || len(comp.names) != 0 {
		t.Fatalf("extract=%d compile=%d, want none", ext.calls, len(comp.names))
	}
	recorded, _ := repo.List(context.Background(), 0, 0)
	if len(recorded) != 1 || recorded[0].Status != runs.StatusFailed || recorded[0].FailedStage != StageConfig {
		t.Fatalf("unexpected ledger %+v", recorded)
	}
}

func TestGenerateStageFailures(t *testing.T) {
	tests := []struct {
		name       string
		templateID string
		extractErr error
		modelErr   error
		modelReply string
		compileErr error
		wantStage  string
		wantIs     error
	}{
		{name: "invalid template", templateID: "abc", wantStage: StageTemplate, wantIs: templates.ErrInvalidID},
		{name: "unknown template", templateID: "77", wantStage: StageTemplate, wantIs: templates.ErrNotFound},
		{name: "unsupported upload", templateID: "1", extractErr: extract.ErrUnsupportedType, wantStage: StageExtract, wantIs: extract.ErrUnsupportedType},
		{name: "model failure", templateID: "1", modelErr: errBoom, wantStage: StageModel, wantIs: errBoom},
		{name: "empty model reply", templateID: "1", modelReply: "  \n", wantStage: StageModel, wantIs: llm.ErrEmptyResponse},
		{name: "compile failure", templateID: "1", modelReply: "x", compileErr: latex.ErrCompileFailed, wantStage: StageCompile, wantIs: latex.ErrCompileFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeLLM{reply: tt.modelReply, err: tt.modelErr}
			ext := &countingExtract{text: "resume", err: tt.extractErr}
			comp := &fakeCompiler{err: tt.compileErr}
			svc, repo := newTestService(gen, comp, ext.fn)

			_, err := svc.Generate(context.Background(), GenerateInput{Data: []byte("data"), TemplateID: tt.templateID})
			if !errors.Is(err, tt.wantIs) {
				t.Fatalf("expected %v, got %v", tt.wantIs, err)
			}
			if StageOf(err) != tt.wantStage {
				t.Fatalf("stage = %q, want %q", StageOf(err), tt.wantStage)
			}
			recorded, _ := repo.List(context.Background(), 0, 0)
			if len(recorded) != 1 || recorded[0].FailedStage != tt.wantStage {
				t.Fatalf("ledger = %+v", recorded)
			}
		})
	}
}

func TestGenerateSingleCompileAttempt(t *testing.T) {
	comp := &fakeCompiler{err: latex.ErrCompileFailed}
	svc, _ := newTestService(&fakeLLM{reply: "x"}, comp, (&countingExtract{text: "t"}).fn)

	_, _ = svc.Generate(context.Background(), GenerateInput{Data: []byte("d"), TemplateID: "1"})
	if len(comp.names) != 1 {
		t.Fatalf("compile attempts = %d, want 1", len(comp.names))
	}
	if !regexp.MustCompile(`^[0-9a-f-]{36}$`).MatchString(comp.names[0]) {
		t.Fatalf("artifact name = %q", comp.names[0])
	}
}

func TestGenerateEmptyUpload(t *testing.T) {
	gen := &fakeLLM{reply: "x"}
	svc, _ := newTestService(gen, &fakeCompiler{}, (&countingExtract{}).fn)
	_, err := svc.Generate(context.Background(), GenerateInput{TemplateID: "1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if gen.callCount() != 0 {
		t.Fatalf("model should not be called")
	}
}

func TestEditEscapesHeadingAmpersand(t *testing.T) {
	original := "\\documentclass{article}\n\\begin{document}\n\\section{Experience}\n\\end{document}"
	if strings.Contains(original, `\&`) {
		t.Fatal("fixture must not contain an escaped ampersand")
	}
	gen := &fakeLLM{reply: "```latex\n\\documentclass{article}\n\\begin{document}\n\\section{Leadership & Awards}\n\\subsection{R&D}\n\\section{Experience}\n\\end{document}\n```"}
	comp := &fakeCompiler{}
	svc, _ := newTestService(gen, comp, nil)

	res, err := svc.Edit(context.Background(), EditInput{
		Latex:   original,
		Prompt:  "add a Leadership & Awards section",
		Compile: true,
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	bare := regexp.MustCompile(`\\(?:sub)*section\{[^}]*(?:^|[^\\])&`)
	if bare.MatchString(res.Latex) {
		t.Fatalf("bare ampersand in heading: %q", res.Latex)
	}
	if !strings.Contains(res.Latex, `\section{Leadership \& Awards}`) {
		t.Fatalf("latex = %q", res.Latex)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Fatalf("expected pdf bytes")
	}
	if len(comp.names) != 1 || !strings.HasPrefix(comp.names[0], "edit-") {
		t.Fatalf("artifact names = %v", comp.names)
	}

	parts := gen.calls[0]
	if len(parts) != 3 || !strings.HasPrefix(parts[1], "Original LaTeX:\n\n") || !strings.HasPrefix(parts[2], "Edit request:\n\n") {
		t.Fatalf("edit parts = %q", parts)
	}
}

func TestEditWithoutCompile(t *testing.T) {
	comp := &fakeCompiler{}
	svc, _ := newTestService(&fakeLLM{reply: `\documentclass{cv}`}, comp, nil)

	res, err := svc.Edit(context.Background(), EditInput{Latex: "x", Prompt: "y"})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if res.PDF != nil || len(comp.names) != 0 {
		t.Fatalf("compile should be skipped")
	}
	if res.Latex != `\documentclass{article}` {
		t.Fatalf("latex = %q", res.Latex)
	}
}

func TestEditValidationAndConfiguration(t *testing.T) {
	gen := &fakeLLM{reply: "x"}
	svc, _ := newTestService(gen, &fakeCompiler{}, nil)
	if _, err := svc.Edit(context.Background(), EditInput{Latex: " ", Prompt: "p"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if gen.callCount() != 0 {
		t.Fatalf("model should not be called")
	}

	unconfigured, _ := newTestService(nil, &fakeCompiler{}, nil)
	if _, err := unconfigured.Edit(context.Background(), EditInput{Latex: "l", Prompt: "p"}); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
