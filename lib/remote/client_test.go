// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scidatacontainer/scidatacontainer/lib/container"
)

var _ container.RemoteStore = (*Client)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := New(Config{
		Server:     server.URL + "/",
		Key:        "secret",
		HTTPClient: server.Client(),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRequiresServerAndKey(t *testing.T) {
	if _, err := New(Config{Key: "k"}); !errors.Is(err, ErrMissingServer) {
		t.Errorf("New without server = %v, want ErrMissingServer", err)
	}
	if _, err := New(Config{Server: "https://example.org"}); !errors.Is(err, ErrMissingKey) {
		t.Errorf("New without key = %v, want ErrMissingKey", err)
	}
	client, err := New(Config{Server: " https://example.org// ", Key: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if client.Server() != "https://example.org" {
		t.Errorf("Server() = %q", client.Server())
	}
}

func TestUpload(t *testing.T) {
	var (
		gotAuth  string
		gotName  string
		gotBytes string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload/" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("uploadfile")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName, gotBytes = header.Filename, string(data)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"uuid": "7d0a1c8e-0000-4000-8000-000000000001"}`)
	}))
	defer server.Close()

	id, err := newClient(t, server).Upload(context.Background(), "run.zdc", []byte("archive"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != "7d0a1c8e-0000-4000-8000-000000000001" {
		t.Errorf("id = %q", id)
	}
	if gotAuth != "Token secret" {
		t.Errorf("Authorization = %q, want Token secret", gotAuth)
	}
	if gotName != "run.zdc" || gotBytes != "archive" {
		t.Errorf("uploaded %q = %q", gotName, gotBytes)
	}
}

func TestUploadWithoutIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "stored")
	}))
	defer server.Close()

	id, err := newClient(t, server).Upload(context.Background(), "run.zdc", []byte("archive"))
	if err != nil || id != "" {
		t.Errorf("Upload = %q, %v; want empty id", id, err)
	}
}

func TestUploadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "container already exists", http.StatusConflict)
	}))
	defer server.Close()

	_, err := newClient(t, server).Upload(context.Background(), "run.zdc", []byte("archive"))
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Upload = %v, want ErrTransport", err)
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error %T is not a *TransportError", err)
	}
	if transportErr.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want 409", transportErr.StatusCode)
	}
	if !strings.Contains(transportErr.Body, "already exists") {
		t.Errorf("Body = %q", transportErr.Body)
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/download/" || r.URL.Query().Get("uuid") != "abc" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Token secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		io.WriteString(w, "archive bytes")
	}))
	defer server.Close()

	client := newClient(t, server)
	data, err := client.Download(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "archive bytes" {
		t.Errorf("data = %q", data)
	}

	if _, err := client.Download(context.Background(), "missing"); !errors.Is(err, ErrTransport) {
		t.Errorf("Download(missing) = %v, want ErrTransport", err)
	}
}

func TestContainerRoundTripThroughServer(t *testing.T) {
	stored := map[string][]byte{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			file, header, err := r.FormFile("uploadfile")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer file.Close()
			data, _ := io.ReadAll(file)
			id := strings.TrimSuffix(header.Filename, ".zdc")
			stored[id] = data
		case http.MethodGet:
			data, ok := stored[r.URL.Query().Get("uuid")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Write(data)
		}
	}))
	defer server.Close()

	options := container.Options{Logger: discardLogger()}
	c, err := container.New(map[string]any{
		container.ContentPath: map[string]any{"containerType": map[string]any{"name": "scan"}},
		container.MetaPath:    map[string]any{"title": "Remote run"},
		"data/values.txt":     "1 2 3",
	}, options)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Freeze(); err != nil {
		t.Fatal(err)
	}

	client := newClient(t, server)
	id, err := c.Upload(context.Background(), client)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != c.UUID() {
		t.Errorf("id = %q, want container uuid %q", id, c.UUID())
	}
	downloaded, err := container.Download(context.Background(), client, id, options)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if downloaded.Hash() != c.Hash() || !downloaded.Static() {
		t.Errorf("downloaded hash=%s static=%v, want %s static", downloaded.Hash(), downloaded.Static(), c.Hash())
	}
}
