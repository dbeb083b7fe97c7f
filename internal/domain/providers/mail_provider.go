package providers

import (
	"context"
	"time"
)

// Attachment is a file attached to the email a quote originated from.
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ReceivedAt  time.Time `json:"received_at"`
}

// MailProvider fetches email attachments from the external mail provider.
// It is a thin collaborator: retrieval only, no parsing.
type MailProvider interface {
	// ListAttachments lists attachment metadata for a message
	ListAttachments(ctx context.Context, messageID string) ([]Attachment, error)

	// FetchAttachment downloads one attachment's content
	FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}
