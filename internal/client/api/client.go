package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/zapsync/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ErrUnauthorized возвращается, если backend отклонил токен
var ErrUnauthorized = errors.New("unauthorized")

// ClientAPI определяет операции backend API, которые использует клиент
type ClientAPI interface {
	// SyncDocument отправляет полное состояние CRDT документа
	SyncDocument(ctx context.Context, docType, id string, update []byte) error

	// FetchDocument получает состояние CRDT документа с сервера
	FetchDocument(ctx context.Context, docType, id string) ([]byte, error)

	// ReplayMutation воспроизводит одну офлайн-мутацию
	ReplayMutation(ctx context.Context, req api.MutationRequest) (*api.MutationResponse, error)

	// Health проверяет доступность backend
	Health(ctx context.Context) error
}

// TokenSource возвращает bearer токен текущей сессии.
// Пустая строка означает анонимный запрос.
type TokenSource func(ctx context.Context) (string, error)

// StatusError ошибка HTTP статуса ответа
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с backend
type Client struct {
	httpClient *http.Client
	token      TokenSource
	baseURL    string
}

var _ ClientAPI = (*Client)(nil)

// Option настраивает Client
type Option func(*Client)

// WithTokenSource задает источник bearer токена
func WithTokenSource(token TokenSource) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout задает таймаут HTTP запросов
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newLoggingTransport(http.DefaultTransport, logger),
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SyncDocument отправляет бинарный update документа.
// Тело ответа не используется, важен только статус.
func (c *Client) SyncDocument(ctx context.Context, docType, id string, update []byte) error {
	path := api.PathCRDTSync + "?" + documentQuery(docType, id)

	resp, err := c.send(ctx, http.MethodPost, path, api.ContentTypeBin, bytes.NewReader(update))
	if err != nil {
		return fmt.Errorf("sync document request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// FetchDocument получает состояние документа с сервера
func (c *Client) FetchDocument(ctx context.Context, docType, id string) ([]byte, error) {
	path := api.PathCRDTState + "?" + documentQuery(docType, id)

	resp, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch document request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// ReplayMutation воспроизводит одну офлайн-мутацию
func (c *Client) ReplayMutation(ctx context.Context, req api.MutationRequest) (*api.MutationResponse, error) {
	var resp api.MutationResponse
	if err := c.doRequest(ctx, http.MethodPost, api.PathMutations, req, &resp); err != nil {
		return nil, fmt.Errorf("replay mutation request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность backend
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodHead, api.PathHealth, "", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// HealthURL возвращает полный адрес health endpoint
func (c *Client) HealthURL() string {
	return c.baseURL + api.PathHealth
}

func documentQuery(docType, id string) string {
	q := url.Values{}
	q.Set("type", docType)
	q.Set("id", id)
	return q.Encode()
}

// doRequest выполняет JSON запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, contentType, bodyReader)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// send выполняет запрос и проверяет статус.
// При успехе вызывающий обязан закрыть тело ответа.
func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() {
			_ = resp.Body.Close()
		}()
		return nil, statusError(resp)
	}

	return resp, nil
}

func statusError(resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	statusErr := &StatusError{StatusCode: resp.StatusCode}
	var errResp api.ErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err == nil {
		statusErr.Message = errResp.Message
		if statusErr.Message == "" {
			statusErr.Message = errResp.Error
		}
	} else {
		statusErr.Message = strings.TrimSpace(string(respBody))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", ErrUnauthorized, statusErr)
	}
	return statusErr
}
