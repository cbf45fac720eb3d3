// File: internal/services/conversation/export.go
package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
)

// ChatExport is the downloadable chat artifact.
type ChatExport struct {
	Messages   []domain.Message `json:"messages"`
	ExportDate time.Time        `json:"exportDate"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExportJSON serializes one conversation's messages in original order,
// stamped with the export time.
func (s *Service) ExportJSON(conversationID string) ([]byte, error) {
	conv, ok := s.Get(conversationID)
	if !ok {
		return nil, NewNotFoundError("export_json", conversationID)
	}

	export := ChatExport{
		Messages:   conv.Messages,
		ExportDate: s.now().UTC(),
	}
	return json.MarshalIndent(export, "", "  ")
}

// ExportHTML renders a conversation as a standalone HTML page. Message
// content is treated as markdown, the way assistant answers arrive.
func (s *Service) ExportHTML(conversationID string) ([]byte, error) {
	conv, ok := s.Get(conversationID)
	if !ok {
		return nil, NewNotFoundError("export_html", conversationID)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(conv.Title))
	buf.WriteString("<meta charset=\"utf-8\">\n</head>\n<body>\n")
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(conv.Title))

	for _, msg := range conv.Messages {
		fmt.Fprintf(&buf, "<section class=\"message %s\">\n", html.EscapeString(msg.Role))
		fmt.Fprintf(&buf, "<h2>%s</h2>\n", html.EscapeString(msg.Role))
		if err := markdown.Convert([]byte(msg.Content), &buf); err != nil {
			return nil, NewValidationError("export_html", fmt.Sprintf("could not render message %s: %v", msg.ID, err))
		}
		if len(msg.Sources) > 0 {
			buf.WriteString("<h3>Sources</h3>\n<ul>\n")
			for _, src := range msg.Sources {
				fmt.Fprintf(&buf, "<li><code>%s</code> %s</li>\n",
					html.EscapeString(src.ChunkID), html.EscapeString(src.Text))
			}
			buf.WriteString("</ul>\n")
		}
		buf.WriteString("</section>\n")
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
