package auth

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-inventory/internal/resilience"
)

var (
	// ErrAdminNotConfigured is returned when the admin API base URL or key is missing.
	ErrAdminNotConfigured = errors.New("auth: admin api not configured")
	// ErrUserExists is returned when the platform already has a user with the email.
	ErrUserExists = errors.New("auth: user already exists")
)

// AdminError carries a non-success response from the admin API.
type AdminError struct {
	StatusCode int
	Message    string
}

func (e *AdminError) Error() string {
	return fmt.Sprintf("auth: admin api responded %d: %s", e.StatusCode, e.Message)
}

// User is the subset of the platform user record the service relies on.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminClient provisions users through the auth platform's admin API using
// the service role key.
type AdminClient struct {
	BaseURL    string
	ServiceKey string
	HTTP       resilience.HTTPClient
}

// NewAdminClient builds a client whose transport is traced with otelhttp.
func NewAdminClient(baseURL, serviceKey string, timeout time.Duration, retry resilience.HTTPClient) *AdminClient {
	retry.Client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	if retry.Timeout <= 0 {
		retry.Timeout = timeout
	}
	if retry.Breaker != nil {
		retry.Breaker = retry.Breaker.WithTarget("auth-admin")
	}
	return &AdminClient{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ServiceKey: strings.TrimSpace(serviceKey),
		HTTP:       retry,
	}
}

type createUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

// CreateUser registers a confirmed user with the given credentials.
func (c *AdminClient) CreateUser(ctx context.Context, email, password string) (User, error) {
	payload, err := json.Marshal(createUserRequest{Email: email, Password: password, EmailConfirm: true})
	if err != nil {
		return User{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/admin/users", payload)
	if err != nil {
		return User{}, err
	}
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return User{}, fmt.Errorf("auth: create user: %w", err)
	}
	defer resp.Body.Close()
	if err := checkResponse(resp); err != nil {
		return User{}, err
	}
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("auth: decode user: %w", err)
	}
	if user.ID == "" {
		return User{}, errors.New("auth: admin api returned user without id")
	}
	return user, nil
}

// DeleteUser removes a platform user. Missing users are not an error.
func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/auth/v1/admin/users/"+userID, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("auth: delete user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkResponse(resp)
}

func (c *AdminClient) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	if c == nil || c.BaseURL == "" || c.ServiceKey == "" {
		return nil, ErrAdminNotConfigured
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Code    string `json:"error_code"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)
	message := body.Msg
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if resp.StatusCode == http.StatusUnprocessableEntity || body.Code == "email_exists" {
		if body.Code == "email_exists" || strings.Contains(strings.ToLower(message), "already") {
			return ErrUserExists
		}
	}
	return &AdminError{StatusCode: resp.StatusCode, Message: message}
}
