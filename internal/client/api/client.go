// Package api is the HTTP client for the audiomagister server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

// ErrUnauthorized is returned for 401 responses
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx server response
type Error struct {
	Detail     string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
}

// Unwrap lets callers match 401 responses with errors.Is(err, ErrUnauthorized)
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Authorization переносим только в пределах того же хоста
				if len(via) > 0 && req.URL.Host == via[0].URL.Host &&
					via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	var resp api.UserResponse
	if err := c.do(ctx, http.MethodPost, "/register/", "", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Token обменивает email и пароль на bearer токен (OAuth2 password form)
func (c *Client) Token(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	form := url.Values{
		"username": {email},
		"password": {password},
	}

	var resp api.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/token", "", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), &resp); err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает пользователя, которому принадлежит токен
func (c *Client) Me(ctx context.Context, token string) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users/me", token, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// Upload отправляет аудиофайл как multipart поле "file"
func (c *Client) Upload(ctx context.Context, token, filename string, content io.Reader) (*api.AudioFileResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	var resp api.AudioFileResponse
	if err := c.do(ctx, http.MethodPost, "/uploadfile/", token, mw.FormDataContentType(), pr, &resp); err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	return &resp, nil
}

// ListFiles возвращает загрузки текущего пользователя
func (c *Client) ListFiles(ctx context.Context, token string) (*api.AudioFileListResponse, error) {
	var resp api.AudioFileListResponse
	if err := c.do(ctx, http.MethodGet, "/files/", token, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	return &resp, nil
}

// FileURL возвращает публичную ссылку на файл
func (c *Client) FileURL(ctx context.Context, name string) (*api.FileURLResponse, error) {
	var resp api.FileURLResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(name), "", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("file url request failed: %w", err)
	}
	return &resp, nil
}

// do выполняет HTTP запрос и декодирует JSON ответ в result
func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Detail != "" {
			apiErr.Detail = errResp.Detail
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
