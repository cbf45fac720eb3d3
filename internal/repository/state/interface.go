package state

import "context"

// StateStore is the durability surface for session blobs. Each blob is
// an opaque value keyed by name; callers own serialization.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Well-known blob keys.
const (
	KeyConversations = "conversations"
	KeyUploadedFiles = "uploaded_files"
	KeyPreferences   = "preferences"
)
