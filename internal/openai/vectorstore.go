// internal/openai/vectorstore.go
package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateVectorStore creates a named vector store.
func (c *Client) CreateVectorStore(ctx context.Context, name string) (*VectorStore, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	var vs VectorStore
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/vector_stores",
		body:     body,
		beta:     true,
	}, &vs)
	if err != nil {
		return nil, fmt.Errorf("create vector store %q: %w", name, err)
	}
	return &vs, nil
}

// GetVectorStore fetches a vector store by id.
func (c *Client) GetVectorStore(ctx context.Context, id string) (*VectorStore, error) {
	var vs VectorStore
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/vector_stores/" + url.PathEscape(id),
		beta:     true,
	}, &vs)
	if err != nil {
		return nil, fmt.Errorf("get vector store %s: %w", id, err)
	}
	return &vs, nil
}

// DeleteVectorStore deletes a vector store. Files attached to it keep
// their own records.
func (c *Client) DeleteVectorStore(ctx context.Context, id string) error {
	var resp deleteResponse
	err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "/vector_stores/" + url.PathEscape(id),
		beta:     true,
	}, &resp)
	if err != nil {
		return fmt.Errorf("delete vector store %s: %w", id, err)
	}
	return nil
}

// ListVectorStores returns every vector store, walking cursor pagination.
func (c *Client) ListVectorStores(ctx context.Context) ([]VectorStore, error) {
	stores, err := collectPages(func(after string) (*list[VectorStore], error) {
		var page list[VectorStore]
		err := c.do(ctx, request{
			method:   http.MethodGet,
			endpoint: "/vector_stores",
			query:    pageQuery(after),
			beta:     true,
		}, &page)
		if err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vector stores: %w", err)
	}
	return stores, nil
}

// AttachStoreFile registers an existing file against a vector store and
// returns the attachment record. The initial status is typically
// in_progress; callers do not poll for completion.
func (c *Client) AttachStoreFile(ctx context.Context, storeID, fileID string) (*VectorStoreFile, error) {
	body := struct {
		FileID string `json:"file_id"`
	}{FileID: fileID}
	var vsf VectorStoreFile
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/vector_stores/" + url.PathEscape(storeID) + "/files",
		body:     body,
		beta:     true,
	}, &vsf)
	if err != nil {
		return nil, fmt.Errorf("attach file %s to vector store %s: %w", fileID, storeID, err)
	}
	return &vsf, nil
}

// DetachStoreFile removes the attachment record only; the file itself
// is not deleted.
func (c *Client) DetachStoreFile(ctx context.Context, storeID, fileID string) error {
	var resp deleteResponse
	err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "/vector_stores/" + url.PathEscape(storeID) + "/files/" + url.PathEscape(fileID),
		beta:     true,
	}, &resp)
	if err != nil {
		return fmt.Errorf("detach file %s from vector store %s: %w", fileID, storeID, err)
	}
	return nil
}

// ListStoreFiles returns every attachment record for a store, walking
// cursor pagination.
func (c *Client) ListStoreFiles(ctx context.Context, storeID string) ([]VectorStoreFile, error) {
	files, err := collectPages(func(after string) (*list[VectorStoreFile], error) {
		var page list[VectorStoreFile]
		err := c.do(ctx, request{
			method:   http.MethodGet,
			endpoint: "/vector_stores/" + url.PathEscape(storeID) + "/files",
			query:    pageQuery(after),
			beta:     true,
		}, &page)
		if err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vector store %s files: %w", storeID, err)
	}
	return files, nil
}
