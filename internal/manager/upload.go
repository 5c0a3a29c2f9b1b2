// internal/manager/upload.go
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hn12404988/gpt-files/internal/convert"
	"github.com/hn12404988/gpt-files/internal/openai"
)

// Destination selects where an uploaded file gets attached.
type Destination string

const (
	// DestinationVectorStore attaches via the assistant's vector store,
	// lazily creating the store on first use.
	DestinationVectorStore Destination = "vector-store"
	// DestinationCode attaches to the code interpreter file list.
	DestinationCode Destination = "code"
)

// ParseDestination validates a destination flag value.
func ParseDestination(s string) (Destination, error) {
	switch Destination(s) {
	case DestinationVectorStore, DestinationCode:
		return Destination(s), nil
	}
	return "", fmt.Errorf("unknown destination %q (want %q or %q)", s, DestinationVectorStore, DestinationCode)
}

// ErrFileExists signals a remote filename collision without overwrite
// permission. Nothing has been uploaded when it is returned.
var ErrFileExists = errors.New("file already exists")

// UploadOptions are the inputs for a single file upload.
type UploadOptions struct {
	AssistantID string
	Path        string

	// Name overrides the uploaded filename; defaults to the local
	// basename.
	Name        string
	Overwrite   bool
	Destination Destination
	ConvertHTML bool
}

// UploadResult describes a completed upload.
type UploadResult struct {
	File          *openai.File
	Attachment    *openai.VectorStoreFile
	VectorStoreID string

	// Tokens is the approximate token count of the uploaded content,
	// 0 when not estimated.
	Tokens int
}

// UploadFile uploads one local file and attaches it to the chosen
// destination. A name collision without overwrite fails before any
// upload; with overwrite the stale file is detached everywhere and
// deleted first. Any step's failure aborts the whole operation; single
// file uploads do not roll back.
func (m *Manager) UploadFile(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	name, data, err := m.prepareLocal(opts.Path, opts.Name, opts.ConvertHTML)
	if err != nil {
		return nil, err
	}

	a, err := m.assistants.GetAssistant(ctx, opts.AssistantID)
	if err != nil {
		return nil, err
	}

	existing, err := m.files.FindFileByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !opts.Overwrite {
			return nil, fmt.Errorf("%w: %s (%s)", ErrFileExists, name, existing.ID)
		}
		a, err = m.removeFile(ctx, a, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("replace file %s: %w", name, err)
		}
	}

	result := &UploadResult{Tokens: m.estimateTokens(name, data)}

	f, err := m.files.UploadFile(ctx, name, data)
	if err != nil {
		return nil, err
	}
	result.File = f

	if opts.Destination == DestinationCode {
		if _, err := m.assistants.AttachCodeFile(ctx, a, f.ID); err != nil {
			return nil, err
		}
	} else {
		storeID, _, err := m.ensureVectorStore(ctx, a)
		if err != nil {
			return nil, err
		}
		att, err := m.stores.AttachStoreFile(ctx, storeID, f.ID)
		if err != nil {
			return nil, err
		}
		result.Attachment = att
		result.VectorStoreID = storeID
	}

	m.log.Info("uploaded file", "file", f.ID, "name", name, "destination", string(opts.Destination))
	return result, nil
}

// UploadDirOptions are the inputs for a bulk directory upload.
type UploadDirOptions struct {
	AssistantID string
	Dir         string
	Overwrite   bool
	Destination Destination
	ConvertHTML bool
}

// UploadDirResult describes a completed directory upload.
type UploadDirResult struct {
	Uploaded []openai.File

	// Replaced lists the ids of pre-existing files deleted because a
	// new upload shadowed their name (overwrite only).
	Replaced []string
	Tokens   int
}

// UploadDir uploads every regular non-dotfile directly inside dir,
// attaching each to the chosen destination as it succeeds. On any
// mid-loop failure all uploads of this run are rolled back in reverse
// order (detach before delete, the code interpreter list restored to
// its pre-operation value) and the original error is returned. With
// overwrite set, a successful run ends with a second pass deleting the
// pre-existing files shadowed by new uploads.
func (m *Manager) UploadDir(ctx context.Context, opts UploadDirOptions) (*UploadDirResult, error) {
	locals, err := listLocalFiles(opts.Dir, opts.ConvertHTML)
	if err != nil {
		return nil, err
	}
	if len(locals) == 0 {
		return &UploadDirResult{}, nil
	}

	remote, err := m.files.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	remoteByName := make(map[string]openai.File, len(remote))
	for _, f := range remote {
		remoteByName[f.Filename] = f
	}

	if !opts.Overwrite {
		for _, lf := range locals {
			if existing, ok := remoteByName[lf.name]; ok {
				return nil, fmt.Errorf("%w: %s (%s)", ErrFileExists, lf.name, existing.ID)
			}
		}
	}

	a, err := m.assistants.GetAssistant(ctx, opts.AssistantID)
	if err != nil {
		return nil, err
	}

	var storeID string
	if opts.Destination != DestinationCode {
		storeID, a, err = m.ensureVectorStore(ctx, a)
		if err != nil {
			return nil, err
		}
	}

	comp := newCompensation(m.log)
	result := &UploadDirResult{}
	for _, lf := range locals {
		name, data, err := m.prepareLocal(lf.path, "", opts.ConvertHTML)
		if err != nil {
			return nil, m.rollback(comp, err)
		}
		result.Tokens += m.estimateTokens(name, data)

		f, err := m.files.UploadFile(ctx, name, data)
		if err != nil {
			return nil, m.rollback(comp, err)
		}
		fileID := f.ID
		comp.add("delete file "+fileID, func() error {
			return m.files.DeleteFile(ctx, fileID)
		})

		if opts.Destination == DestinationCode {
			// Non-nil so the restore sends an explicit clear when the
			// list started out empty; a nil update leaves it untouched.
			before := slices.Clone(openai.CodeFileIDs(a))
			if before == nil {
				before = []string{}
			}
			updated, err := m.assistants.AttachCodeFile(ctx, a, fileID)
			if err != nil {
				return nil, m.rollback(comp, err)
			}
			a = updated
			assistantID := a.ID
			comp.add("restore code interpreter file list", func() error {
				_, err := m.assistants.UpdateAssistant(ctx, assistantID, openai.UpdateAssistantParams{
					CodeFileIDs: before,
				})
				return err
			})
		} else {
			if _, err := m.stores.AttachStoreFile(ctx, storeID, fileID); err != nil {
				return nil, m.rollback(comp, err)
			}
			comp.add("detach file "+fileID+" from vector store", func() error {
				return m.stores.DetachStoreFile(ctx, storeID, fileID)
			})
		}

		result.Uploaded = append(result.Uploaded, *f)
		m.log.Info("uploaded file", "file", fileID, "name", name)
	}

	if opts.Overwrite {
		for _, lf := range locals {
			stale, ok := remoteByName[lf.name]
			if !ok {
				continue
			}
			a, err = m.removeFile(ctx, a, stale.ID)
			if err != nil {
				return result, fmt.Errorf("remove replaced file %s: %w", lf.name, err)
			}
			result.Replaced = append(result.Replaced, stale.ID)
		}
	}

	return result, nil
}

// rollback runs the compensation list and returns the original error.
// Undo failures are logged, never masking the cause.
func (m *Manager) rollback(comp *compensation, cause error) error {
	m.log.Warn("directory upload failed, rolling back", "error", cause)
	if err := comp.run(); err != nil {
		m.log.Warn("rollback incomplete", "error", err)
	}
	return cause
}

type localFile struct {
	path string
	name string
}

// listLocalFiles enumerates the regular, non-dotfile entries directly
// inside dir. Names reflect any HTML-to-markdown renaming so collision
// checks see the final uploaded names.
func listLocalFiles(dir string, convertHTML bool) ([]localFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var locals []localFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if convertHTML && convert.IsConvertible(name) {
			name = convert.MarkdownName(name)
		}
		locals = append(locals, localFile{
			path: filepath.Join(dir, entry.Name()),
			name: name,
		})
	}
	return locals, nil
}

// prepareLocal reads a local file and applies upload preprocessing,
// returning the final uploaded name and content.
func (m *Manager) prepareLocal(path, nameOverride string, convertHTML bool) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := nameOverride
	if name == "" {
		name = filepath.Base(path)
	}
	if convertHTML && convert.IsConvertible(name) {
		converted, err := convert.HTMLToMarkdown(data)
		if err != nil {
			return "", nil, fmt.Errorf("convert %s: %w", name, err)
		}
		data = converted
		name = convert.MarkdownName(name)
	}
	return name, data, nil
}

// estimateTokens reports the approximate token count of text content,
// 0 for binary data or when no estimator is configured.
func (m *Manager) estimateTokens(name string, data []byte) int {
	if m.tokens == nil || !convert.IsText(data) {
		return 0
	}
	n := m.tokens.Estimate(data)
	m.log.Debug("estimated tokens", "name", name, "tokens", n)
	return n
}
