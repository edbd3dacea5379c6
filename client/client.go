package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/zingerfi/zingerfi-server/types"
)

// FunctionError is a non-2xx answer from a named function or API endpoint
type FunctionError struct {
	Status  int
	Kind    types.ErrorKind
	Message string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// IsKind reports whether err is a FunctionError of the given kind
func IsKind(err error, kind types.ErrorKind) bool {
	var fe *FunctionError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// Client talks to a ZingerFi server as one authenticated identity
type Client struct {
	rc *resty.Client
}

func New(baseURL, token string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(token).
		SetTimeout(time.Second * 30)
	return &Client{rc: rc}
}

// GetClient exposes the underlying resty client (tests hook httpmock on it)
func (c *Client) GetClient() *resty.Client {
	return c.rc
}

// Invoke calls the named function POST /functions/v1/<name>
func (c *Client) Invoke(ctx context.Context, name string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, "/functions/v1/"+name, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var apiErr types.OutputError
	req := c.rc.R().SetContext(ctx).SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	response, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if response.IsError() {
		kind := apiErr.Kind
		if kind == "" {
			kind = types.KindFromStatus(response.StatusCode())
		}
		message := apiErr.Error
		if message == "" {
			message = http.StatusText(response.StatusCode())
		}
		return &FunctionError{Status: response.StatusCode(), Kind: kind, Message: message}
	}
	return nil
}
