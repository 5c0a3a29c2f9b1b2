// internal/openai/types.go
package openai

// Tool type names accepted by the assistants API.
const (
	ToolTypeCodeInterpreter = "code_interpreter"
	ToolTypeFileSearch      = "file_search"
)

// FilePurposeAssistants is the purpose tag for every file this tool uploads.
const FilePurposeAssistants = "assistants"

// Tool enables a single capability on an assistant.
type Tool struct {
	Type string `json:"type"`
}

// CodeInterpreterResources holds the file ids available to the code
// interpreter sandbox.
type CodeInterpreterResources struct {
	FileIDs []string `json:"file_ids"`
}

// FileSearchResources holds the vector store ids backing file search.
// The API accepts a list but in practice at most one store is attached.
type FileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids"`
}

// ToolResources maps each tool type to its resource references. Pointer
// fields so that an update request can name only the tool it touches.
type ToolResources struct {
	CodeInterpreter *CodeInterpreterResources `json:"code_interpreter,omitempty"`
	FileSearch      *FileSearchResources      `json:"file_search,omitempty"`
}

// Assistant is a configured conversational agent resource.
type Assistant struct {
	ID            string         `json:"id"`
	Object        string         `json:"object"`
	CreatedAt     int64          `json:"created_at"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Model         string         `json:"model"`
	Instructions  string         `json:"instructions"`
	Tools         []Tool         `json:"tools"`
	ToolResources *ToolResources `json:"tool_resources,omitempty"`
}

// File is an uploaded file record. It exists independently of any
// assistant; attachment is a separate relation.
type File struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

// FileCounts breaks a vector store's files down by processing status.
type FileCounts struct {
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

// VectorStore is a managed search index holding file-derived content.
type VectorStore struct {
	ID         string     `json:"id"`
	Object     string     `json:"object"`
	Name       string     `json:"name"`
	CreatedAt  int64      `json:"created_at"`
	UsageBytes int64      `json:"usage_bytes"`
	Status     string     `json:"status"`
	FileCounts FileCounts `json:"file_counts"`
}

// Vector store file processing statuses.
const (
	VectorStoreFileInProgress = "in_progress"
	VectorStoreFileCompleted  = "completed"
	VectorStoreFileFailed     = "failed"
	VectorStoreFileCancelled  = "cancelled"
)

// VectorStoreFile is the attachment record connecting a File to a
// VectorStore. Its ID is the id of the attached file.
type VectorStoreFile struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	VectorStoreID string `json:"vector_store_id"`
	UsageBytes    int64  `json:"usage_bytes"`
	CreatedAt     int64  `json:"created_at"`
	Status        string `json:"status"`
}

// deleteResponse is the API's acknowledgement of a delete.
type deleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// list is the cursor-paginated response envelope shared by every
// collection endpoint.
type list[T any] struct {
	Object  string `json:"object"`
	Data    []T    `json:"data"`
	FirstID string `json:"first_id"`
	LastID  string `json:"last_id"`
	HasMore bool   `json:"has_more"`
}

// pageLimit is the page size used when walking paginated listings.
const pageLimit = 100

// collectPages walks cursor pagination until the server reports no more
// data, passing the last id of each page as the next cursor. Items are
// returned in server order with no duplicates or omissions.
func collectPages[T any](fetch func(after string) (*list[T], error)) ([]T, error) {
	var items []T
	after := ""
	for {
		page, err := fetch(after)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Data...)
		if !page.HasMore || page.LastID == "" {
			return items, nil
		}
		after = page.LastID
	}
}
