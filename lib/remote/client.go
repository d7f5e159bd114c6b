// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package remote is an HTTP client for a container server. It
// implements container.RemoteStore: archives are uploaded as a
// multipart form and downloaded by UUID, both authenticated with an
// API token.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/scidatacontainer/scidatacontainer/lib/codec"
)

// DefaultTimeout bounds a single upload or download.
const DefaultTimeout = 5 * time.Minute

// maxErrorBody caps the response body kept in a TransportError.
const maxErrorBody = 512

var (
	// ErrTransport is wrapped by every TransportError.
	ErrTransport = errors.New("remote: transport error")

	// ErrMissingServer is returned by New when no server URL is set.
	ErrMissingServer = errors.New("remote: server URL is missing")

	// ErrMissingKey is returned by New when no API key is set.
	ErrMissingKey = errors.New("remote: server API key is missing")
)

// TransportError reports a failed request or a non-success response.
// StatusCode is zero when no response was received.
type TransportError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	var builder strings.Builder
	builder.WriteString("remote: ")
	builder.WriteString(e.Operation)
	if e.StatusCode != 0 {
		fmt.Fprintf(&builder, ": %s", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&builder, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&builder, "; body: %s", e.Body)
	}
	return builder.String()
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// Config configures a Client.
type Config struct {
	// Server is the base URL, e.g. "https://data.example.org".
	Server string

	// Key is the API token sent as "Authorization: Token <key>".
	Key string

	// Timeout bounds each request. Zero selects DefaultTimeout.
	Timeout time.Duration

	// HTTPClient replaces the underlying transport client. Tests use
	// it to inject httptest clients.
	HTTPClient *http.Client

	// Logger receives request events. Nil selects slog.Default().
	Logger *slog.Logger
}

// Client talks to one container server.
type Client struct {
	server string
	http   *resty.Client
	logger *slog.Logger
}

// New validates config and returns a Client. No request is made.
func New(config Config) (*Client, error) {
	server := strings.TrimRight(strings.TrimSpace(config.Server), "/")
	if server == "" {
		return nil, ErrMissingServer
	}
	if config.Key == "" {
		return nil, ErrMissingKey
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var client *resty.Client
	if config.HTTPClient != nil {
		client = resty.NewWithClient(config.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetTimeout(timeout).
		SetBaseURL(server).
		SetHeader("Authorization", "Token "+config.Key)

	return &Client{server: server, http: client, logger: logger}, nil
}

// Server returns the normalized base URL.
func (c *Client) Server() string {
	return c.server
}

// Upload posts data as the multipart field "uploadfile". It returns
// the identifier from a JSON response carrying "uuid" or "id", or ""
// when the server does not echo one.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	response, err := c.http.R().
		SetContext(ctx).
		SetFileReader("uploadfile", name, bytes.NewReader(data)).
		Post("/api/upload/")
	if err != nil {
		return "", &TransportError{Operation: "upload " + name, Err: err}
	}
	if response.IsError() {
		return "", responseError("upload "+name, response)
	}
	c.logger.Info("container uploaded",
		"server", c.server,
		"name", name,
		"size", len(data),
		"status", response.StatusCode(),
	)
	return responseID(response.Body()), nil
}

// Download fetches the archive bytes for id.
func (c *Client) Download(ctx context.Context, id string) ([]byte, error) {
	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("uuid", id).
		Get("/api/download/")
	if err != nil {
		return nil, &TransportError{Operation: "download " + id, Err: err}
	}
	if response.IsError() {
		return nil, responseError("download "+id, response)
	}
	body := response.Body()
	c.logger.Info("container downloaded", "server", c.server, "uuid", id, "size", len(body))
	return body, nil
}

func responseError(operation string, response *resty.Response) error {
	body := strings.TrimSpace(response.String())
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return &TransportError{
		Operation:  operation,
		StatusCode: response.StatusCode(),
		Status:     response.Status(),
		Body:       body,
	}
}

func responseID(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	value, err := codec.UnmarshalJSON(body)
	if err != nil {
		return ""
	}
	object, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"uuid", "id"} {
		if id, ok := object[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}
