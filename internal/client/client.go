package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"tapo-cli/internal/auth"
	"tapo-cli/pkg/models"
)

// TapoClient talks to a single camera's local control endpoint.
type TapoClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	stok string          // session token from the login handshake
	ctx  context.Context // optional, applied to every request
}

type ClientConfig struct {
	Host     string // IP/hostname, or a full base URL
	Username string // almost always "admin"
	Password string // TP-Link cloud account password
}

// loginPayload matches the JSON body the camera expects on POST /
type loginPayload struct {
	Method string      `json:"method"`
	Params loginParams `json:"params"`
}

type loginParams struct {
	Hashed   bool   `json:"hashed"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// controlRequest is the body for every post-login call to /stok=<token>/ds
type controlRequest struct {
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

func New(cfg ClientConfig) *TapoClient {
	if cfg.Username == "" {
		cfg.Username = "admin"
	}

	base := cfg.Host
	if !strings.Contains(base, "://") {
		// Cameras only expose HTTPS on the LAN interface.
		base = "https://" + base
	}

	r := resty.New()
	r.SetBaseURL(base)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	// Tapo cameras ship self-signed certificates; verification is impossible
	// without pinning each device individually.
	r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

	return &TapoClient{
		HTTP:   r,
		Config: cfg,
	}
}

// WithContext sets the context applied to every request this client makes.
func (c *TapoClient) WithContext(ctx context.Context) *TapoClient {
	c.ctx = ctx
	return c
}

// r builds a request, attaching the client context when one is set.
func (c *TapoClient) r() *resty.Request {
	req := c.HTTP.R()
	if c.ctx != nil {
		req.SetContext(c.ctx)
	}
	return req
}

// Login performs the stok handshake and stores the session token for
// subsequent control calls. Returns the token so callers can inspect it.
func (c *TapoClient) Login() (string, error) {
	payload := loginPayload{
		Method: "login",
		Params: loginParams{
			Hashed:   true,
			Username: c.Config.Username,
			Password: auth.CloudPassword(c.Config.Password),
		},
	}

	resp, err := c.r().
		SetBody(payload).
		SetResult(&models.LoginResponse{}).
		Post("/")

	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", fmt.Errorf("login failed: %s", resp.String())
	}

	loginResult, ok := resp.Result().(*models.LoginResponse)
	if !ok {
		return "", errors.New("failed to parse login response")
	}

	if loginResult.ErrorCode != 0 {
		return "", fmt.Errorf("login rejected by device (error_code %d)", loginResult.ErrorCode)
	}

	if loginResult.Result.Stok == "" {
		return "", errors.New("login successful but no stok returned")
	}

	c.stok = loginResult.Result.Stok
	return c.stok, nil
}

// control issues a single post-login request, logging in first if no
// session is held yet. result may be nil when only the error code matters.
func (c *TapoClient) control(method string, params interface{}, result interface{}) error {
	if c.stok == "" {
		if _, err := c.Login(); err != nil {
			return err
		}
	}

	if result == nil {
		result = &models.ControlResponse{}
	}

	resp, err := c.r().
		SetBody(controlRequest{Method: method, Params: params}).
		SetResult(result).
		Post(c.controlPath())

	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("%s failed: %s", method, resp.String())
	}

	if env, ok := resp.Result().(*models.ControlResponse); ok && env.ErrorCode != 0 {
		return fmt.Errorf("%s rejected by device (error_code %d)", method, env.ErrorCode)
	}

	return nil
}

func (c *TapoClient) controlPath() string {
	return fmt.Sprintf("/stok=%s/ds", c.stok)
}
