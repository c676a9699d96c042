package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3:latest"
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type ollamaMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatReq struct {
	Model    string         `json:"model"`
	Messages []ollamaMsg    `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResp struct {
	Message ollamaMsg `json:"message"`
	Error   string    `json:"error,omitempty"`
}

type ollamaStreamResp struct {
	Message ollamaMsg `json:"message"`
	Done    bool      `json:"done"`
	Error   string    `json:"error,omitempty"`
}

func (p *OllamaProvider) buildRequest(ctx context.Context, messages []Message, stream bool, opts Options) (*http.Request, error) {
	reqBody := ollamaChatReq{
		Model:  p.Model,
		Stream: stream,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, ollamaMsg{Role: m.Role, Content: m.Content})
	}
	if opts.Temperature > 0 || opts.MaxTokens > 0 {
		reqBody.Options = map[string]any{}
		if opts.Temperature > 0 {
			reqBody.Options["temperature"] = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			reqBody.Options["num_predict"] = opts.MaxTokens
		}
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/chat", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (p *OllamaProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	return p.ChatWithOptions(ctx, messages, Options{})
}

func (p *OllamaProvider) ChatWithOptions(ctx context.Context, messages []Message, opts Options) (string, error) {
	if p.Client == nil {
		return "", errors.New("ollama: http client is nil")
	}

	req, err := p.buildRequest(ctx, messages, false, opts)
	if err != nil {
		return "", err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama: status %d", resp.StatusCode)
	}

	var decoded ollamaChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != "" {
		return "", errors.New(decoded.Error)
	}
	return decoded.Message.Content, nil
}

// StreamChat streams assistant content chunks. It returns immediately with
// two channels; both will be closed when streaming ends.
func (p *OllamaProvider) StreamChat(ctx context.Context, messages []Message) (<-chan string, <-chan error) {
	chunks := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		if p.Client == nil {
			errs <- errors.New("ollama: http client is nil")
			return
		}

		req, err := p.buildRequest(ctx, messages, true, Options{})
		if err != nil {
			errs <- err
			return
		}

		// Streaming can run long; let ctx control the deadline instead.
		if p.Client.Timeout < 30*time.Second {
			p.Client.Timeout = 0
		}

		resp, err := p.Client.Do(req)
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errs <- fmt.Errorf("ollama: status %d", resp.StatusCode)
			return
		}

		sc := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		sc.Buffer(buf, 2*1024*1024)

		for sc.Scan() {
			line := sc.Bytes()
			if len(line) == 0 {
				continue
			}

			var decoded ollamaStreamResp
			if err := json.Unmarshal(line, &decoded); err != nil {
				errs <- err
				return
			}
			if decoded.Error != "" {
				errs <- errors.New(decoded.Error)
				return
			}

			if decoded.Message.Content != "" {
				chunks <- decoded.Message.Content
			}

			if decoded.Done {
				return
			}
		}

		if err := sc.Err(); err != nil {
			errs <- err
			return
		}
	}()

	return chunks, errs
}
