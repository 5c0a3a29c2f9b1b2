// internal/openai/files_test.go
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadFileMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/files" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		contentType := r.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
			t.Errorf("expected multipart content type with boundary, got %q", contentType)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("purpose"); got != "assistants" {
			t.Errorf("expected purpose assistants, got %q", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "notes.txt" {
			t.Errorf("expected filename notes.txt, got %q", header.Filename)
		}
		if got := header.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
			t.Errorf("expected text/plain part, got %q", got)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "hello" {
			t.Errorf("expected content hello, got %q", content)
		}

		json.NewEncoder(w).Encode(File{ID: "file_1", Filename: "notes.txt", Bytes: 5, Purpose: "assistants"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	f, err := client.UploadFile(context.Background(), "notes.txt", []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != "file_1" {
		t.Errorf("expected file_1, got %s", f.ID)
	}
}

func TestUploadFileUnknownExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if got := header.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("expected octet-stream fallback, got %q", got)
		}
		json.NewEncoder(w).Encode(File{ID: "file_1"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.UploadFile(context.Background(), "data.weird", []byte{0x01}); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/files/file_1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "file_1", "object": "file", "deleted": true})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.DeleteFile(context.Background(), "file_1"); err != nil {
		t.Fatal(err)
	}
}

// pagedFileServer serves n files in pages of pageLimit, honoring the
// limit and after query parameters.
func pagedFileServer(t *testing.T, n int) *httptest.Server {
	t.Helper()
	files := make([]File, n)
	for i := range files {
		files[i] = File{ID: fmt.Sprintf("file_%03d", i), Filename: fmt.Sprintf("doc-%03d.txt", i)}
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("expected limit 100, got %q", got)
		}
		start := 0
		if after := r.URL.Query().Get("after"); after != "" {
			for i, f := range files {
				if f.ID == after {
					start = i + 1
				}
			}
		}
		end := start + pageLimit
		if end > len(files) {
			end = len(files)
		}
		resp := map[string]any{
			"object":   "list",
			"data":     files[start:end],
			"has_more": end < len(files),
		}
		if end > start {
			resp["last_id"] = files[end-1].ID
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestListFilesPagination(t *testing.T) {
	server := pagedFileServer(t, 250)
	defer server.Close()

	client := newTestClient(server.URL)
	files, err := client.ListFiles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 250 {
		t.Fatalf("expected 250 files, got %d", len(files))
	}
	for i, f := range files {
		if f.ID != fmt.Sprintf("file_%03d", i) {
			t.Fatalf("file %d out of order: %s", i, f.ID)
		}
	}
}

func TestFindFileByName(t *testing.T) {
	server := pagedFileServer(t, 150)
	defer server.Close()

	client := newTestClient(server.URL)

	// A match on the second page
	f, err := client.FindFileByName(context.Background(), "doc-120.txt")
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.ID != "file_120" {
		t.Errorf("expected file_120, got %+v", f)
	}

	// No match
	f, err = client.FindFileByName(context.Background(), "missing.txt")
	if err != nil {
		t.Fatal(err)
	}
	if f != nil {
		t.Errorf("expected nil for absent filename, got %+v", f)
	}
}
