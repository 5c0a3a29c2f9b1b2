// internal/openai/assistant.go
package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
)

// CreateAssistantParams are the fields for creating an assistant.
type CreateAssistantParams struct {
	Name         string
	Model        string
	Description  string
	Instructions string
}

// UpdateAssistantParams are the fields for a partial assistant update.
// Nil fields are left untouched on the remote record. A non-nil empty
// CodeFileIDs clears the code interpreter file list; nil leaves it alone.
type UpdateAssistantParams struct {
	Name           *string
	Description    *string
	Instructions   *string
	Model          *string
	VectorStoreIDs []string
	CodeFileIDs    []string
}

// CreateAssistant creates an assistant with both the code interpreter
// and file search tools enabled. Vector store creation is the
// orchestrator's job, not done here.
func (c *Client) CreateAssistant(ctx context.Context, params CreateAssistantParams) (*Assistant, error) {
	body := map[string]any{
		"name":  params.Name,
		"model": params.Model,
		"tools": []Tool{
			{Type: ToolTypeCodeInterpreter},
			{Type: ToolTypeFileSearch},
		},
	}
	if params.Description != "" {
		body["description"] = params.Description
	}
	if params.Instructions != "" {
		body["instructions"] = params.Instructions
	}

	var a Assistant
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/assistants",
		body:     body,
		beta:     true,
	}, &a)
	if err != nil {
		return nil, fmt.Errorf("create assistant %q: %w", params.Name, err)
	}
	return &a, nil
}

// UpdateAssistant patches only the fields the caller provided. Tool
// resources are merged per tool type: naming only code_interpreter (or
// only file_search) leaves the sibling tool's resources unchanged
// instead of overwriting them with an empty list.
func (c *Client) UpdateAssistant(ctx context.Context, id string, params UpdateAssistantParams) (*Assistant, error) {
	body := map[string]any{}
	if params.Name != nil {
		body["name"] = *params.Name
	}
	if params.Description != nil {
		body["description"] = *params.Description
	}
	if params.Instructions != nil {
		body["instructions"] = *params.Instructions
	}
	if params.Model != nil {
		body["model"] = *params.Model
	}

	resources := map[string]any{}
	if params.CodeFileIDs != nil {
		resources["code_interpreter"] = map[string]any{"file_ids": params.CodeFileIDs}
	}
	if params.VectorStoreIDs != nil {
		resources["file_search"] = map[string]any{"vector_store_ids": params.VectorStoreIDs}
	}
	if len(resources) > 0 {
		body["tool_resources"] = resources
	}

	var a Assistant
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/assistants/" + url.PathEscape(id),
		body:     body,
		beta:     true,
	}, &a)
	if err != nil {
		return nil, fmt.Errorf("update assistant %s: %w", id, err)
	}
	return &a, nil
}

// GetAssistant fetches an assistant by id.
func (c *Client) GetAssistant(ctx context.Context, id string) (*Assistant, error) {
	var a Assistant
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/assistants/" + url.PathEscape(id),
		beta:     true,
	}, &a)
	if err != nil {
		return nil, fmt.Errorf("get assistant %s: %w", id, err)
	}
	return &a, nil
}

// DeleteAssistant deletes the assistant record. Attached files and any
// linked vector store survive; purging them first is the orchestrator's
// job.
func (c *Client) DeleteAssistant(ctx context.Context, id string) error {
	var resp deleteResponse
	err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "/assistants/" + url.PathEscape(id),
		beta:     true,
	}, &resp)
	if err != nil {
		return fmt.Errorf("delete assistant %s: %w", id, err)
	}
	return nil
}

// ListAssistants returns every assistant, walking cursor pagination.
func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	assistants, err := collectPages(func(after string) (*list[Assistant], error) {
		var page list[Assistant]
		err := c.do(ctx, request{
			method:   http.MethodGet,
			endpoint: "/assistants",
			query:    pageQuery(after),
			beta:     true,
		}, &page)
		if err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	return assistants, nil
}

// AttachCodeFile adds a file id to the assistant's code interpreter
// list and pushes the full replacement list. Attaching an id already in
// the list is a no-op: the assistant is returned unchanged and no
// mutation call is made.
func (c *Client) AttachCodeFile(ctx context.Context, a *Assistant, fileID string) (*Assistant, error) {
	ids := CodeFileIDs(a)
	if slices.Contains(ids, fileID) {
		return a, nil
	}
	return c.UpdateAssistant(ctx, a.ID, UpdateAssistantParams{
		CodeFileIDs: append(slices.Clone(ids), fileID),
	})
}

// DetachCodeFile removes a file id from the assistant's code
// interpreter list. Detaching an absent id is a no-op.
func (c *Client) DetachCodeFile(ctx context.Context, a *Assistant, fileID string) (*Assistant, error) {
	ids := CodeFileIDs(a)
	if !slices.Contains(ids, fileID) {
		return a, nil
	}
	kept := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != fileID {
			kept = append(kept, id)
		}
	}
	return c.UpdateAssistant(ctx, a.ID, UpdateAssistantParams{CodeFileIDs: kept})
}

// CodeFileIDs returns the assistant's code interpreter file id list, or
// nil when the tool has no resources configured.
func CodeFileIDs(a *Assistant) []string {
	if a.ToolResources == nil || a.ToolResources.CodeInterpreter == nil {
		return nil
	}
	return a.ToolResources.CodeInterpreter.FileIDs
}

// VectorStoreID extracts the assistant's single vector store id.
// Returns "" when file search is disabled or has no store configured.
// The API models this as a list, but every operation here assumes at
// most one store; an assistant carrying more is rejected outright
// rather than silently using the first entry.
func VectorStoreID(a *Assistant) (string, error) {
	if a.ToolResources == nil || a.ToolResources.FileSearch == nil {
		return "", nil
	}
	ids := a.ToolResources.FileSearch.VectorStoreIDs
	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("assistant %s has %d vector stores; expected at most one", a.ID, len(ids))
	}
}
