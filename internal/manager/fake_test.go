// internal/manager/fake_test.go
package manager

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hn12404988/gpt-files/internal/openai"
)

// fakeAPI is an in-memory stand-in for the three resource clients, with
// injectable failures for exercising rollback and best-effort paths.
type fakeAPI struct {
	files       map[string]*openai.File
	assistants  map[string]*openai.Assistant
	stores      map[string]*openai.VectorStore
	attachments map[string]map[string]*openai.VectorStoreFile

	nextID int

	uploadCalls int
	deleteCalls int
	updateCalls int

	failUploadAt    int // fail the Nth UploadFile call (1-based)
	failDeleteAt    int // fail the Nth DeleteFile call (1-based)
	failDetachStore bool
	failDetachCode  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		files:       make(map[string]*openai.File),
		assistants:  make(map[string]*openai.Assistant),
		stores:      make(map[string]*openai.VectorStore),
		attachments: make(map[string]map[string]*openai.VectorStoreFile),
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s_%03d", prefix, f.nextID)
}

func copyAssistant(a *openai.Assistant) *openai.Assistant {
	cp := *a
	if a.ToolResources != nil {
		tr := *a.ToolResources
		if tr.CodeInterpreter != nil {
			ci := *tr.CodeInterpreter
			ci.FileIDs = slices.Clone(ci.FileIDs)
			tr.CodeInterpreter = &ci
		}
		if tr.FileSearch != nil {
			fs := *tr.FileSearch
			fs.VectorStoreIDs = slices.Clone(fs.VectorStoreIDs)
			tr.FileSearch = &fs
		}
		cp.ToolResources = &tr
	}
	return &cp
}

// --- FileAPI

func (f *fakeAPI) GetFile(_ context.Context, id string) (*openai.File, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	cp := *file
	return &cp, nil
}

func (f *fakeAPI) UploadFile(_ context.Context, filename string, data []byte) (*openai.File, error) {
	f.uploadCalls++
	if f.failUploadAt > 0 && f.uploadCalls == f.failUploadAt {
		return nil, fmt.Errorf("injected upload failure")
	}
	file := &openai.File{
		ID:       f.id("file"),
		Filename: filename,
		Bytes:    int64(len(data)),
		Purpose:  openai.FilePurposeAssistants,
	}
	f.files[file.ID] = file
	cp := *file
	return &cp, nil
}

func (f *fakeAPI) DeleteFile(_ context.Context, id string) error {
	f.deleteCalls++
	if f.failDeleteAt > 0 && f.deleteCalls == f.failDeleteAt {
		return fmt.Errorf("injected delete failure")
	}
	if _, ok := f.files[id]; !ok {
		return fmt.Errorf("file not found: %s", id)
	}
	delete(f.files, id)
	return nil
}

func (f *fakeAPI) ListFiles(_ context.Context) ([]openai.File, error) {
	out := make([]openai.File, 0, len(f.files))
	for _, file := range f.files {
		out = append(out, *file)
	}
	slices.SortFunc(out, func(a, b openai.File) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeAPI) FindFileByName(ctx context.Context, filename string) (*openai.File, error) {
	files, _ := f.ListFiles(ctx)
	for i := range files {
		if files[i].Filename == filename {
			return &files[i], nil
		}
	}
	return nil, nil
}

// --- AssistantAPI

func (f *fakeAPI) CreateAssistant(_ context.Context, params openai.CreateAssistantParams) (*openai.Assistant, error) {
	a := &openai.Assistant{
		ID:           f.id("asst"),
		Name:         params.Name,
		Model:        params.Model,
		Description:  params.Description,
		Instructions: params.Instructions,
		Tools: []openai.Tool{
			{Type: openai.ToolTypeCodeInterpreter},
			{Type: openai.ToolTypeFileSearch},
		},
	}
	f.assistants[a.ID] = a
	return copyAssistant(a), nil
}

func (f *fakeAPI) GetAssistant(_ context.Context, id string) (*openai.Assistant, error) {
	a, ok := f.assistants[id]
	if !ok {
		return nil, fmt.Errorf("assistant not found: %s", id)
	}
	return copyAssistant(a), nil
}

func (f *fakeAPI) UpdateAssistant(_ context.Context, id string, params openai.UpdateAssistantParams) (*openai.Assistant, error) {
	f.updateCalls++
	a, ok := f.assistants[id]
	if !ok {
		return nil, fmt.Errorf("assistant not found: %s", id)
	}
	if params.Name != nil {
		a.Name = *params.Name
	}
	if params.Description != nil {
		a.Description = *params.Description
	}
	if params.Instructions != nil {
		a.Instructions = *params.Instructions
	}
	if params.Model != nil {
		a.Model = *params.Model
	}
	if params.CodeFileIDs != nil {
		if a.ToolResources == nil {
			a.ToolResources = &openai.ToolResources{}
		}
		a.ToolResources.CodeInterpreter = &openai.CodeInterpreterResources{
			FileIDs: slices.Clone(params.CodeFileIDs),
		}
	}
	if params.VectorStoreIDs != nil {
		if a.ToolResources == nil {
			a.ToolResources = &openai.ToolResources{}
		}
		a.ToolResources.FileSearch = &openai.FileSearchResources{
			VectorStoreIDs: slices.Clone(params.VectorStoreIDs),
		}
	}
	return copyAssistant(a), nil
}

func (f *fakeAPI) DeleteAssistant(_ context.Context, id string) error {
	if _, ok := f.assistants[id]; !ok {
		return fmt.Errorf("assistant not found: %s", id)
	}
	delete(f.assistants, id)
	return nil
}

func (f *fakeAPI) ListAssistants(_ context.Context) ([]openai.Assistant, error) {
	out := make([]openai.Assistant, 0, len(f.assistants))
	for _, a := range f.assistants {
		out = append(out, *copyAssistant(a))
	}
	slices.SortFunc(out, func(a, b openai.Assistant) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeAPI) AttachCodeFile(ctx context.Context, a *openai.Assistant, fileID string) (*openai.Assistant, error) {
	ids := openai.CodeFileIDs(a)
	if slices.Contains(ids, fileID) {
		return a, nil
	}
	return f.UpdateAssistant(ctx, a.ID, openai.UpdateAssistantParams{
		CodeFileIDs: append(slices.Clone(ids), fileID),
	})
}

func (f *fakeAPI) DetachCodeFile(ctx context.Context, a *openai.Assistant, fileID string) (*openai.Assistant, error) {
	if f.failDetachCode {
		return nil, fmt.Errorf("injected code detach failure")
	}
	ids := openai.CodeFileIDs(a)
	if !slices.Contains(ids, fileID) {
		return a, nil
	}
	kept := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != fileID {
			kept = append(kept, id)
		}
	}
	return f.UpdateAssistant(ctx, a.ID, openai.UpdateAssistantParams{CodeFileIDs: kept})
}

// --- VectorStoreAPI

func (f *fakeAPI) CreateVectorStore(_ context.Context, name string) (*openai.VectorStore, error) {
	vs := &openai.VectorStore{ID: f.id("vs"), Name: name, Status: "completed"}
	f.stores[vs.ID] = vs
	f.attachments[vs.ID] = make(map[string]*openai.VectorStoreFile)
	cp := *vs
	return &cp, nil
}

func (f *fakeAPI) GetVectorStore(_ context.Context, id string) (*openai.VectorStore, error) {
	vs, ok := f.stores[id]
	if !ok {
		return nil, fmt.Errorf("vector store not found: %s", id)
	}
	cp := *vs
	return &cp, nil
}

func (f *fakeAPI) DeleteVectorStore(_ context.Context, id string) error {
	if _, ok := f.stores[id]; !ok {
		return fmt.Errorf("vector store not found: %s", id)
	}
	delete(f.stores, id)
	delete(f.attachments, id)
	return nil
}

func (f *fakeAPI) ListVectorStores(_ context.Context) ([]openai.VectorStore, error) {
	out := make([]openai.VectorStore, 0, len(f.stores))
	for _, vs := range f.stores {
		out = append(out, *vs)
	}
	slices.SortFunc(out, func(a, b openai.VectorStore) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeAPI) AttachStoreFile(_ context.Context, storeID, fileID string) (*openai.VectorStoreFile, error) {
	atts, ok := f.attachments[storeID]
	if !ok {
		return nil, fmt.Errorf("vector store not found: %s", storeID)
	}
	att := &openai.VectorStoreFile{
		ID:            fileID,
		VectorStoreID: storeID,
		Status:        openai.VectorStoreFileInProgress,
	}
	atts[fileID] = att
	cp := *att
	return &cp, nil
}

func (f *fakeAPI) DetachStoreFile(_ context.Context, storeID, fileID string) error {
	if f.failDetachStore {
		return fmt.Errorf("injected store detach failure")
	}
	atts, ok := f.attachments[storeID]
	if !ok {
		return fmt.Errorf("vector store not found: %s", storeID)
	}
	if _, ok := atts[fileID]; !ok {
		return fmt.Errorf("file %s not attached to %s", fileID, storeID)
	}
	delete(atts, fileID)
	return nil
}

func (f *fakeAPI) ListStoreFiles(_ context.Context, storeID string) ([]openai.VectorStoreFile, error) {
	atts, ok := f.attachments[storeID]
	if !ok {
		return nil, fmt.Errorf("vector store not found: %s", storeID)
	}
	out := make([]openai.VectorStoreFile, 0, len(atts))
	for _, att := range atts {
		out = append(out, *att)
	}
	slices.SortFunc(out, func(a, b openai.VectorStoreFile) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}
