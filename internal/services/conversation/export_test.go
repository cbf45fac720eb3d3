package conversation

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
)

func TestExportJSONMatchesMessageSequence(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	id, _ := svc.Create(ctx)
	require.NoError(t, svc.AddMessage(ctx, id, domain.Message{Role: domain.RoleUser, Content: "what is RAG?"}))
	require.NoError(t, svc.AddMessage(ctx, id, domain.Message{
		Role:    domain.RoleAssistant,
		Content: "Retrieval-augmented generation.",
		Sources: []domain.Source{{ChunkID: "c1", Text: "RAG combines retrieval with generation."}},
	}))

	artifact, err := svc.ExportJSON(id)
	require.NoError(t, err)

	var export ChatExport
	require.NoError(t, json.Unmarshal(artifact, &export))

	conv, _ := svc.Get(id)
	require.Len(t, export.Messages, len(conv.Messages))
	for i := range conv.Messages {
		assert.Equal(t, conv.Messages[i].ID, export.Messages[i].ID)
		assert.Equal(t, conv.Messages[i].Content, export.Messages[i].Content)
		assert.Equal(t, conv.Messages[i].Role, export.Messages[i].Role)
	}
	assert.False(t, export.ExportDate.IsZero())
}

func TestExportJSONUnknownConversation(t *testing.T) {
	svc := newTestService(t, newMemStore())

	_, err := svc.ExportJSON("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestExportHTMLRendersMarkdown(t *testing.T) {
	svc := newTestService(t, newMemStore())
	ctx := context.Background()

	id, _ := svc.Create(ctx)
	require.NoError(t, svc.AddMessage(ctx, id, domain.Message{Role: domain.RoleUser, Content: "explain **bold** claims"}))
	require.NoError(t, svc.AddMessage(ctx, id, domain.Message{
		Role:    domain.RoleAssistant,
		Content: "## Answer\n\nThey are *emphasized*.",
		Sources: []domain.Source{{ChunkID: "c9", Text: "supporting passage"}},
	}))

	artifact, err := svc.ExportHTML(id)
	require.NoError(t, err)

	page := string(artifact)
	assert.True(t, strings.Contains(page, "<strong>bold</strong>"))
	assert.True(t, strings.Contains(page, "<h2>Answer</h2>"))
	assert.True(t, strings.Contains(page, "supporting passage"))
	assert.True(t, strings.Contains(page, "<code>c9</code>"))
}
