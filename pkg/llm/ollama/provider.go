package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"veritus-be/pkg/llm"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements Provider
var _ llm.Provider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434" // Default
	}
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (o *OllamaProvider) buildRequest(systemPrompt, userPrompt string, stream bool, options *llm.Options) ollamaGenerateRequest {
	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := ollamaGenerateRequest{
		Model:  model,
		System: systemPrompt,
		Prompt: userPrompt,
		Stream: stream,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
			TopP:        options.TopP,
		},
	}
	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}
	return reqPayload
}

func (o *OllamaProvider) post(ctx context.Context, reqPayload ollamaGenerateRequest) (*http.Response, error) {
	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, opts ...llm.Option) (string, error) {
	options := llm.BuildOptions(opts...)

	resp, err := o.post(ctx, o.buildRequest(systemPrompt, userPrompt, false, options))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed ollamaGenerateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return parsed.Response, nil
}

// Stream reads the NDJSON lines Ollama emits and forwards each delta as a
// fragment. The returned channel is always closed when the stream ends.
func (o *OllamaProvider) Stream(ctx context.Context, systemPrompt, userPrompt string, opts ...llm.Option) (<-chan llm.Fragment, error) {
	options := llm.BuildOptions(opts...)

	resp, err := o.post(ctx, o.buildRequest(systemPrompt, userPrompt, true, options))
	if err != nil {
		return nil, err
	}

	out := make(chan llm.Fragment)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var chunk ollamaGenerateResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				o.emit(ctx, out, llm.Fragment{Err: fmt.Errorf("decode stream chunk: %w", err)})
				return
			}

			if chunk.Response != "" {
				if !o.emit(ctx, out, llm.Fragment{Text: chunk.Response}) {
					return
				}
			}
			if chunk.Done {
				o.emit(ctx, out, llm.Fragment{Done: true})
				return
			}
		}

		if err := scanner.Err(); err != nil {
			o.emit(ctx, out, llm.Fragment{Err: fmt.Errorf("read stream: %w", err)})
			return
		}
		// Stream ended without a done marker
		o.emit(ctx, out, llm.Fragment{Err: fmt.Errorf("ollama stream ended unexpectedly")})
	}()
	return out, nil
}

func (o *OllamaProvider) emit(ctx context.Context, out chan<- llm.Fragment, f llm.Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
