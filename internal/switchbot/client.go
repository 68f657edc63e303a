package switchbot

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the public SwitchBot cloud endpoint.
	DefaultBaseURL = "https://api.switch-bot.com"
	// DefaultTimeout bounds a single request round trip.
	DefaultTimeout = 30 * time.Second
)

// Client represents a SwitchBot API v1.1 client
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	secret     string
	log        logr.Logger
	now        func() time.Time
	newNonce   func() string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(log logr.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithClock replaces the time source used for the t header
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithNonce replaces the nonce generator
func WithNonce(newNonce func() string) Option {
	return func(c *Client) { c.newNonce = newNonce }
}

// NewClient creates a new SwitchBot API client
func NewClient(token, secret string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:  DefaultBaseURL,
		token:    token,
		secret:   secret,
		log:      logr.Discard(),
		now:      time.Now,
		newNonce: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetDevices retrieves physical devices and infrared remotes
func (c *Client) GetDevices(ctx context.Context) (*DevicesBody, error) {
	var body DevicesBody
	if err := c.do(ctx, http.MethodGet, "/v1.1/devices", nil, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// GetDeviceStatus retrieves the live status of a physical device
func (c *Client) GetDeviceStatus(ctx context.Context, deviceID string) (map[string]any, error) {
	var status map[string]any
	path := fmt.Sprintf("/v1.1/devices/%s/status", url.PathEscape(deviceID))
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// SendCommand sends a command to a device. An empty parameter is sent as
// DefaultParameter and an empty commandType as CommandTypeCommand.
func (c *Client) SendCommand(ctx context.Context, deviceID, command, parameter string, commandType CommandType) (map[string]any, error) {
	if parameter == "" {
		parameter = DefaultParameter
	}
	if commandType == "" {
		commandType = CommandTypeCommand
	}
	reqBody := CommandRequest{
		Command:     command,
		Parameter:   parameter,
		CommandType: commandType,
	}

	var result map[string]any
	path := fmt.Sprintf("/v1.1/devices/%s/commands", url.PathEscape(deviceID))
	if err := c.do(ctx, http.MethodPost, path, reqBody, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetScenes retrieves the manual scenes of the account
func (c *Client) GetScenes(ctx context.Context) ([]Scene, error) {
	var scenes []Scene
	if err := c.do(ctx, http.MethodGet, "/v1.1/scenes", nil, &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// ExecuteScene runs a manual scene
func (c *Client) ExecuteScene(ctx context.Context, sceneID string) (map[string]any, error) {
	var result map[string]any
	path := fmt.Sprintf("/v1.1/scenes/%s/execute", url.PathEscape(sceneID))
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// do performs one signed request and decodes the envelope body into out.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.V(1).Info("request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if env.StatusCode != StatusSuccess {
		return &APIError{Code: env.StatusCode, Message: env.Message}
	}

	if len(env.Body) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Body, out); err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}
	return nil
}

// setHeaders sets the authentication headers. Every call draws a new t and nonce.
func (c *Client) setHeaders(req *http.Request) {
	t := strconv.FormatInt(c.now().UnixMilli(), 10)
	nonce := c.newNonce()

	req.Header.Set("Authorization", c.token)
	req.Header.Set("sign", sign(c.token, c.secret, t, nonce))
	req.Header.Set("t", t)
	req.Header.Set("nonce", nonce)
	req.Header.Set("Content-Type", "application/json")
}

// sign returns base64(HMAC-SHA256(secret, token+t+nonce)).
func sign(token, secret, t, nonce string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token + t + nonce))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
