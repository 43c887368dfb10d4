package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientRun(t *testing.T) {
	var receivedUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "Travelwire/1.0")

	data, err := client.Run(context.Background(), server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(string(data), "ok") {
		t.Errorf("Unexpected body: %s", data)
	}
	if receivedUserAgent != "Travelwire/1.0" {
		t.Errorf("Expected User-Agent header, got '%s'", receivedUserAgent)
	}
}

func TestClientRunHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "Travelwire/1.0")

	if _, err := client.Run(context.Background(), server.URL, 5*time.Second); err == nil {
		t.Error("Expected error for 503 response")
	}
}

func TestClientRunRejectsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "Travelwire/1.0")

	if _, err := client.Run(context.Background(), server.URL, 5*time.Second); err == nil {
		t.Error("Expected error for non-HTML content type")
	}
}

func TestClientRunAcceptsFeedContentTypes(t *testing.T) {
	for _, contentType := range []string{"application/rss+xml", "application/atom+xml", "text/xml"} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			w.Write([]byte("<rss></rss>"))
		}))

		client := NewClient(server.Client(), "Travelwire/1.0")
		if _, err := client.Run(context.Background(), server.URL, 5*time.Second); err != nil {
			t.Errorf("Expected %s to be accepted: %v", contentType, err)
		}
		server.Close()
	}
}

func TestClientRunTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "Travelwire/1.0")

	if _, err := client.Run(context.Background(), server.URL, 20*time.Millisecond); err == nil {
		t.Error("Expected timeout error")
	}
}

func TestClientRunCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.Client(), "Travelwire/1.0")
	if _, err := client.Run(ctx, server.URL, 5*time.Second); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
