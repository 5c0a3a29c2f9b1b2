// internal/manager/manager.go

// Package manager orchestrates the assistant, file and vector store
// clients, keeping the three remote resource types consistent with each
// other across multi-step operations.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hn12404988/gpt-files/internal/convert"
	"github.com/hn12404988/gpt-files/internal/openai"
)

// FileAPI is the file endpoint surface the manager depends on.
type FileAPI interface {
	GetFile(ctx context.Context, id string) (*openai.File, error)
	UploadFile(ctx context.Context, filename string, data []byte) (*openai.File, error)
	DeleteFile(ctx context.Context, id string) error
	ListFiles(ctx context.Context) ([]openai.File, error)
	FindFileByName(ctx context.Context, filename string) (*openai.File, error)
}

// AssistantAPI is the assistant endpoint surface the manager depends on.
type AssistantAPI interface {
	CreateAssistant(ctx context.Context, params openai.CreateAssistantParams) (*openai.Assistant, error)
	GetAssistant(ctx context.Context, id string) (*openai.Assistant, error)
	UpdateAssistant(ctx context.Context, id string, params openai.UpdateAssistantParams) (*openai.Assistant, error)
	DeleteAssistant(ctx context.Context, id string) error
	ListAssistants(ctx context.Context) ([]openai.Assistant, error)
	AttachCodeFile(ctx context.Context, a *openai.Assistant, fileID string) (*openai.Assistant, error)
	DetachCodeFile(ctx context.Context, a *openai.Assistant, fileID string) (*openai.Assistant, error)
}

// VectorStoreAPI is the vector store endpoint surface the manager
// depends on.
type VectorStoreAPI interface {
	CreateVectorStore(ctx context.Context, name string) (*openai.VectorStore, error)
	GetVectorStore(ctx context.Context, id string) (*openai.VectorStore, error)
	DeleteVectorStore(ctx context.Context, id string) error
	ListVectorStores(ctx context.Context) ([]openai.VectorStore, error)
	AttachStoreFile(ctx context.Context, storeID, fileID string) (*openai.VectorStoreFile, error)
	DetachStoreFile(ctx context.Context, storeID, fileID string) error
	ListStoreFiles(ctx context.Context, storeID string) ([]openai.VectorStoreFile, error)
}

// Manager composes the three resource clients into compound operations.
// All network calls are issued strictly sequentially.
type Manager struct {
	files      FileAPI
	assistants AssistantAPI
	stores     VectorStoreAPI
	tokens     *convert.TokenEstimator
	log        *slog.Logger
}

// New creates a Manager. tokens may be nil, in which case uploads skip
// token estimation.
func New(files FileAPI, assistants AssistantAPI, stores VectorStoreAPI, tokens *convert.TokenEstimator, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		files:      files,
		assistants: assistants,
		stores:     stores,
		tokens:     tokens,
		log:        log,
	}
}

// CreateOptions are the inputs for creating an assistant.
type CreateOptions struct {
	Name         string
	Model        string
	Description  string
	Instructions string
	WithStore    bool
}

// CreateAssistant creates an assistant and, when requested, a vector
// store named after it, linked into the assistant's tool resources.
func (m *Manager) CreateAssistant(ctx context.Context, opts CreateOptions) (*openai.Assistant, error) {
	a, err := m.assistants.CreateAssistant(ctx, openai.CreateAssistantParams{
		Name:         opts.Name,
		Model:        opts.Model,
		Description:  opts.Description,
		Instructions: opts.Instructions,
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("created assistant", "assistant", a.ID, "name", a.Name)

	if opts.WithStore {
		vs, err := m.stores.CreateVectorStore(ctx, storeNameFor(a))
		if err != nil {
			return nil, err
		}
		a, err = m.assistants.UpdateAssistant(ctx, a.ID, openai.UpdateAssistantParams{
			VectorStoreIDs: []string{vs.ID},
		})
		if err != nil {
			return nil, err
		}
		m.log.Info("linked vector store", "assistant", a.ID, "store", vs.ID)
	}
	return a, nil
}

// DetachResult reports which destinations a detach touched.
type DetachResult struct {
	VectorStore bool
	Code        bool

	// Assistant is the post-detach assistant record.
	Assistant *openai.Assistant
}

// DetachFile removes every reference to the file: the vector store
// attachment and/or the code interpreter list entry, whichever exist.
// A failure on one destination is logged and does not prevent
// attempting the other; the joined errors are returned alongside
// whatever succeeded.
func (m *Manager) DetachFile(ctx context.Context, assistantID, fileID string) (*DetachResult, error) {
	a, err := m.assistants.GetAssistant(ctx, assistantID)
	if err != nil {
		return nil, err
	}
	return m.detachAll(ctx, a, fileID)
}

func (m *Manager) detachAll(ctx context.Context, a *openai.Assistant, fileID string) (*DetachResult, error) {
	storeID, err := openai.VectorStoreID(a)
	if err != nil {
		return nil, err
	}

	result := &DetachResult{Assistant: a}
	var errs []error

	if storeID != "" {
		attachments, err := m.stores.ListStoreFiles(ctx, storeID)
		if err != nil {
			m.log.Warn("list vector store files failed", "store", storeID, "error", err)
			errs = append(errs, err)
		} else if attachmentExists(attachments, fileID) {
			if err := m.stores.DetachStoreFile(ctx, storeID, fileID); err != nil {
				m.log.Warn("detach from vector store failed", "file", fileID, "store", storeID, "error", err)
				errs = append(errs, err)
			} else {
				result.VectorStore = true
			}
		}
	}

	if slices.Contains(openai.CodeFileIDs(a), fileID) {
		updated, err := m.assistants.DetachCodeFile(ctx, a, fileID)
		if err != nil {
			m.log.Warn("detach from code interpreter failed", "file", fileID, "assistant", a.ID, "error", err)
			errs = append(errs, err)
		} else {
			result.Code = true
			result.Assistant = updated
		}
	}

	return result, errors.Join(errs...)
}

// DeleteFile detaches the file from every destination, then deletes the
// permanent record. When a detach fails the delete is not attempted, so
// a dangling reference is never left behind.
func (m *Manager) DeleteFile(ctx context.Context, assistantID, fileID string) error {
	a, err := m.assistants.GetAssistant(ctx, assistantID)
	if err != nil {
		return err
	}
	_, err = m.removeFile(ctx, a, fileID)
	return err
}

// removeFile detaches fileID everywhere and deletes it, returning the
// post-detach assistant.
func (m *Manager) removeFile(ctx context.Context, a *openai.Assistant, fileID string) (*openai.Assistant, error) {
	result, err := m.detachAll(ctx, a, fileID)
	if err != nil {
		return nil, fmt.Errorf("detach file %s: %w", fileID, err)
	}
	if err := m.files.DeleteFile(ctx, fileID); err != nil {
		return nil, err
	}
	m.log.Info("deleted file", "file", fileID,
		"detached_store", result.VectorStore,
		"detached_code", result.Code,
	)
	return result.Assistant, nil
}

// DeleteAssistant deletes the assistant. With purge set, every file
// referenced by its vector store or code interpreter list is deleted
// first, along with the store itself; a purge failure aborts before the
// assistant record is touched.
func (m *Manager) DeleteAssistant(ctx context.Context, id string, purge bool) error {
	a, err := m.assistants.GetAssistant(ctx, id)
	if err != nil {
		return err
	}

	if purge {
		storeID, err := openai.VectorStoreID(a)
		if err != nil {
			return err
		}
		deleted := make(map[string]bool)
		if storeID != "" {
			attachments, err := m.stores.ListStoreFiles(ctx, storeID)
			if err != nil {
				return err
			}
			for _, att := range attachments {
				if deleted[att.ID] {
					continue
				}
				if err := m.files.DeleteFile(ctx, att.ID); err != nil {
					return fmt.Errorf("purge store file: %w", err)
				}
				deleted[att.ID] = true
			}
			if err := m.stores.DeleteVectorStore(ctx, storeID); err != nil {
				return err
			}
			m.log.Info("purged vector store", "store", storeID, "files", len(attachments))
		}
		for _, fileID := range openai.CodeFileIDs(a) {
			if deleted[fileID] {
				continue
			}
			if err := m.files.DeleteFile(ctx, fileID); err != nil {
				return fmt.Errorf("purge code file: %w", err)
			}
			deleted[fileID] = true
		}
	}

	if err := m.assistants.DeleteAssistant(ctx, a.ID); err != nil {
		return err
	}
	m.log.Info("deleted assistant", "assistant", a.ID)
	return nil
}

// ensureVectorStore returns the assistant's store id, creating and
// linking a store named after the assistant when it has none yet.
func (m *Manager) ensureVectorStore(ctx context.Context, a *openai.Assistant) (string, *openai.Assistant, error) {
	storeID, err := openai.VectorStoreID(a)
	if err != nil {
		return "", nil, err
	}
	if storeID != "" {
		return storeID, a, nil
	}

	vs, err := m.stores.CreateVectorStore(ctx, storeNameFor(a))
	if err != nil {
		return "", nil, err
	}
	updated, err := m.assistants.UpdateAssistant(ctx, a.ID, openai.UpdateAssistantParams{
		VectorStoreIDs: []string{vs.ID},
	})
	if err != nil {
		return "", nil, err
	}
	m.log.Info("created vector store", "store", vs.ID, "assistant", a.ID)
	return vs.ID, updated, nil
}

func storeNameFor(a *openai.Assistant) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

func attachmentExists(attachments []openai.VectorStoreFile, fileID string) bool {
	for _, att := range attachments {
		if att.ID == fileID {
			return true
		}
	}
	return false
}
