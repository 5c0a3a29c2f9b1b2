// internal/openai/files.go
package openai

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
)

// GetFile fetches a file's metadata by id.
func (c *Client) GetFile(ctx context.Context, id string) (*File, error) {
	var f File
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/files/" + url.PathEscape(id),
	}, &f)
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}
	return &f, nil
}

// UploadFile posts file content as a multipart form with the assistants
// purpose tag. The part's MIME type is guessed from the filename
// extension, falling back to application/octet-stream.
func (c *Client) UploadFile(ctx context.Context, filename string, data []byte) (*File, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("purpose", FilePurposeAssistants); err != nil {
		return nil, fmt.Errorf("write purpose field: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeTypeFor(filename))
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write file content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	var f File
	err = c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    "/files",
		raw:         buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, &f)
	if err != nil {
		return nil, fmt.Errorf("upload file %s: %w", filename, err)
	}
	return &f, nil
}

// DeleteFile removes the file's permanent record. Attachment state is
// the caller's responsibility; detach first for a clean delete.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	var resp deleteResponse
	err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "/files/" + url.PathEscape(id),
	}, &resp)
	if err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	return nil
}

// ListFiles returns every uploaded file, walking cursor pagination.
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	files, err := collectPages(func(after string) (*list[File], error) {
		var page list[File]
		err := c.do(ctx, request{
			method:   http.MethodGet,
			endpoint: "/files",
			query:    pageQuery(after),
		}, &page)
		if err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// FindFileByName pages through the file listing looking for an exact
// filename match. Returns nil when no file carries that name.
func (c *Client) FindFileByName(ctx context.Context, filename string) (*File, error) {
	files, err := c.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].Filename == filename {
			return &files[i], nil
		}
	}
	return nil, nil
}

func pageQuery(after string) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageLimit))
	if after != "" {
		q.Set("after", after)
	}
	return q
}

func mimeTypeFor(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
