package intake

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-leadform/pkg/lead"
)

// DefaultRemoteTimeout bounds a single forward when no timeout is configured.
const DefaultRemoteTimeout = 10 * time.Second

// RemoteError describes a non-2xx answer from the remote intake. Fields holds
// per-path messages when the remote returned them.
type RemoteError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *RemoteError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("intake: remote returned %d: %s", e.Status, msg)
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fmt.Sprintf("intake: remote returned %d: %s (%s)", e.Status, msg, strings.Join(keys, ", "))
}

type remotePayload struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// Remote forwards leads as JSON to an HTTP endpoint.
type Remote struct {
	client *resty.Client
	url    string
}

// RemoteOption configures a Remote.
type RemoteOption func(*resty.Client)

// WithRemoteTimeout bounds each request.
func WithRemoteTimeout(timeout time.Duration) RemoteOption {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// WithRemoteHeader sets a header on every request, such as an API key.
func WithRemoteHeader(name, value string) RemoteOption {
	return func(c *resty.Client) {
		if strings.TrimSpace(name) != "" {
			c.SetHeader(name, value)
		}
	}
}

// NewRemote builds a forwarder posting to url.
func NewRemote(url string, options ...RemoteOption) (*Remote, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("intake: remote url is required")
	}
	client := resty.New().
		SetTimeout(DefaultRemoteTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(client)
	}
	return &Remote{client: client, url: url}, nil
}

// Submit posts the lead. Any non-2xx status is returned as *RemoteError.
func (r *Remote) Submit(ctx context.Context, l lead.Lead) error {
	var failure remotePayload
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(l).
		SetError(&failure).
		Post(r.url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("intake: forward lead %s: %w", l.ID, err)
	}
	if !resp.IsError() {
		return nil
	}
	message := failure.Message
	if message == "" {
		message = failure.Error
	}
	return &RemoteError{
		Status:  resp.StatusCode(),
		Message: message,
		Fields:  failure.Errors,
	}
}
