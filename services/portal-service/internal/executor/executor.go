package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Language is a language the sandbox can run.
type Language string

const (
	LangPython Language = "python"
	LangC      Language = "c"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrTimeout             = errors.New("code execution timed out")
	ErrUnavailable         = errors.New("code execution service unavailable")
)

// Executor runs a single source file and returns its output.
type Executor interface {
	Execute(ctx context.Context, lang Language, source string) (RunOutput, error)
}

// RunOutput is the result of one execution.
type RunOutput struct {
	Stdout string
	Stderr string
	Exit   int
}

type languageSpec struct {
	version  string
	fileName string
}

var languageSpecs = map[Language]languageSpec{
	LangPython: {version: "3.10.0", fileName: "main.py"},
	LangC:      {version: "10.2.0", fileName: "main.c"},
}

// PistonClient executes code through a Piston compatible HTTP API.
type PistonClient struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	logger  *zerolog.Logger
}

// NewPistonClient creates a client for the API rooted at baseURL, for
// example https://emkc.org/api/v2/piston.
func NewPistonClient(logger *zerolog.Logger, baseURL string, timeout time.Duration) *PistonClient {
	return &PistonClient{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger,
	}
}

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
}

type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   *int   `json:"code"`
	Signal string `json:"signal"`
}

type pistonResponse struct {
	Run     pistonStage  `json:"run"`
	Compile *pistonStage `json:"compile,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Execute runs source and waits at most the configured timeout.
func (c *PistonClient) Execute(ctx context.Context, lang Language, source string) (RunOutput, error) {
	spec, ok := languageSpecs[lang]
	if !ok {
		return RunOutput{}, ErrUnsupportedLanguage
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(pistonRequest{
		Language: string(lang),
		Version:  spec.version,
		Files:    []pistonFile{{Name: spec.fileName, Content: source}},
	})
	if err != nil {
		return RunOutput{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return RunOutput{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return RunOutput{}, ErrTimeout
		}
		return RunOutput{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return RunOutput{}, ErrTimeout
		}
		return RunOutput{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var decoded pistonResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return RunOutput{}, fmt.Errorf("%w: invalid response: %w", ErrUnavailable, err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return RunOutput{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, decoded.Message)
	}

	c.logger.Debug().
		Str("language", string(lang)).
		Dur("duration", time.Since(start)).
		Msg("code executed")

	return toRunOutput(decoded), nil
}

func toRunOutput(resp pistonResponse) RunOutput {
	// A failed compile never reaches the run stage.
	if resp.Compile != nil && resp.Compile.Code != nil && *resp.Compile.Code != 0 {
		return RunOutput{
			Stdout: resp.Compile.Stdout,
			Stderr: resp.Compile.Stderr,
			Exit:   *resp.Compile.Code,
		}
	}

	out := RunOutput{
		Stdout: resp.Run.Stdout,
		Stderr: resp.Run.Stderr,
	}
	if resp.Run.Code != nil {
		out.Exit = *resp.Run.Code
	} else if resp.Run.Signal != "" {
		out.Exit = -1
	}

	return out
}
