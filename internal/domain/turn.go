package domain

import (
	"os"
	"time"
)

type TurnStatus string

const (
	TurnPending  TurnStatus = "pending"
	TurnResolved TurnStatus = "resolved"
	TurnFailed   TurnStatus = "failed"
)

// Turn is one question/answer exchange. Answer is non-nil exactly when
// Status is terminal (resolved or failed).
type Turn struct {
	ID          string       `json:"id"`
	Question    string       `json:"question"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Answer      *Answer      `json:"answer,omitempty"`
	Status      TurnStatus   `json:"status"`
	AskedAt     time.Time    `json:"asked_at"`
}

func (t *Turn) Terminal() bool {
	return t.Status == TurnResolved || t.Status == TurnFailed
}

// Attachment is frozen once its turn is submitted. Data and PreviewPath
// are ephemeral: Data feeds the wire upload, PreviewPath points at a
// local temp copy kept for re-display until the turn is removed.
type Attachment struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	MIMECategory string `json:"mime_category,omitempty"`

	Data        []byte `json:"-"`
	PreviewPath string `json:"-"`
}

// ReleasePreview removes the local preview copy, if any.
func (a *Attachment) ReleasePreview() {
	if a.PreviewPath == "" {
		return
	}
	os.Remove(a.PreviewPath)
	a.PreviewPath = ""
}
