// Package conversation drives the turn lifecycle: a composed submission
// becomes a pending turn, the backend round trip completes it, and the
// result lands in history as resolved or failed. The controller is the
// only writer of session, history, and composition state.
package conversation

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/mrgilbot/gilbot/internal/history"
	"github.com/mrgilbot/gilbot/internal/resolve"
	"github.com/mrgilbot/gilbot/internal/session"
	"github.com/mrgilbot/gilbot/internal/tutorapi"
)

// failureText is the sentinel answer for any transport or envelope
// failure. The error itself is absorbed: a failed turn is terminal
// state, not an exception.
const failureText = "Sorry, something went wrong."

// Transport is the outbound round trip to the answer backend.
type Transport interface {
	Ask(ctx context.Context, req tutorapi.AskRequest) (json.RawMessage, error)
}

type Controller struct {
	mu        sync.Mutex
	sessions  *session.Manager
	history   *history.Store
	transport Transport

	// Shared composition buffer. Cleared on accepted submission and on reset.
	draftText        string
	draftAttachments []domain.Attachment

	// At most one outstanding submission at a time. Deliberate
	// backpressure: completing the round trip is what unblocks the next
	// submission.
	pendingID string
}

func New(sessions *session.Manager, hist *history.Store, transport Transport) *Controller {
	return &Controller{sessions: sessions, history: hist, transport: transport}
}

// Load replays persisted history into memory.
func (c *Controller) Load(ctx context.Context) {
	c.history.Load(ctx)
}

// Session returns the current session id, minting one if needed.
func (c *Controller) Session(ctx context.Context) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.GetOrCreate(ctx)
}

// History returns the turns in chronological order.
func (c *Controller) History() []domain.Turn {
	return c.history.Turns()
}

// SetQuestion replaces the draft question text.
func (c *Controller) SetQuestion(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draftText = text
}

// Attach adds a file to the draft. Duplicate selections by name and size
// are ignored.
func (c *Controller) Attach(att domain.Attachment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.draftAttachments {
		if existing.Name == att.Name && existing.Size == att.Size {
			return
		}
	}
	c.draftAttachments = append(c.draftAttachments, att)
}

// RemoveAttachment drops a draft attachment by name and releases its
// preview.
func (c *Controller) RemoveAttachment(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.draftAttachments[:0]
	for i := range c.draftAttachments {
		if c.draftAttachments[i].Name == name {
			c.draftAttachments[i].ReleasePreview()
			continue
		}
		kept = append(kept, c.draftAttachments[i])
	}
	c.draftAttachments = kept
}

// Draft returns the current composition buffer contents.
func (c *Controller) Draft() (string, []domain.Attachment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	atts := make([]domain.Attachment, len(c.draftAttachments))
	copy(atts, c.draftAttachments)
	return c.draftText, atts
}

// Submit accepts the current draft as a new turn and blocks until the
// turn is terminal. Rejections (missing identity, empty draft, another
// submission in flight) are sentinel errors and change no state.
// Transport failures are not errors: they complete the turn as failed.
func (c *Controller) Submit(ctx context.Context, student *domain.Student) (domain.Turn, error) {
	c.mu.Lock()

	if student == nil || (student.Name == "" && student.Email == "") {
		c.mu.Unlock()
		return domain.Turn{}, domain.ErrIdentityMissing
	}
	if c.pendingID != "" {
		c.mu.Unlock()
		return domain.Turn{}, domain.ErrSubmissionInFlight
	}
	if strings.TrimSpace(c.draftText) == "" && len(c.draftAttachments) == 0 {
		c.mu.Unlock()
		return domain.Turn{}, domain.ErrEmptySubmission
	}

	sess, err := c.sessions.GetOrCreate(ctx)
	if err != nil {
		c.mu.Unlock()
		return domain.Turn{}, err
	}

	turn := domain.Turn{
		ID:          uuid.NewString(),
		Question:    c.draftText,
		Attachments: c.draftAttachments,
		Status:      domain.TurnPending,
		AskedAt:     time.Now(),
	}

	askReq := tutorapi.AskRequest{
		Question:     turn.Question,
		SessionID:    sess.ID,
		StudentName:  student.Name,
		StudentEmail: student.Email,
	}
	// Protocol limitation, preserved on purpose: only the first selected
	// attachment travels on the wire. The rest stay on the turn.
	if len(turn.Attachments) > 0 {
		first := turn.Attachments[0]
		askReq.Image = &tutorapi.Image{Name: first.Name, Data: first.Data}
	}

	// Optimistic insert; the turn is visible as pending before the round trip.
	if err := c.history.Append(ctx, turn); err != nil {
		slog.Warn("persist pending turn", "turn_id", turn.ID, "error", err)
	}
	c.pendingID = turn.ID
	c.draftText = ""
	c.draftAttachments = nil
	c.mu.Unlock()

	patch := c.completeRoundTrip(ctx, turn.ID, askReq)

	c.mu.Lock()
	defer c.mu.Unlock()
	// A reset may have freed the slot and a newer submission claimed it;
	// only clear a marker that is still ours.
	if c.pendingID == turn.ID {
		c.pendingID = ""
	}

	updated, err := c.history.UpdateTurn(ctx, turn.ID, patch)
	if err != nil {
		// The turn can vanish if a reset landed while the request was in
		// flight; the patched copy is still returned to the caller.
		slog.Warn("finalize turn", "turn_id", turn.ID, "error", err)
		turn.Status = patch.Status
		turn.Answer = patch.Answer
		return turn, nil
	}
	return updated, nil
}

func (c *Controller) completeRoundTrip(ctx context.Context, turnID string, askReq tutorapi.AskRequest) history.Patch {
	raw, err := c.transport.Ask(ctx, askReq)
	if err != nil {
		slog.Warn("ask round trip failed", "turn_id", turnID, "error", err)
		return history.Patch{Status: domain.TurnFailed, Answer: domain.PlainAnswer(failureText)}
	}
	return history.Patch{Status: domain.TurnResolved, Answer: resolve.Resolve(raw)}
}

// Reset atomically replaces the session id with a fresh one and empties
// the history. Attachment previews held by removed turns and by the
// draft are released; no state referencing the old session id survives.
func (c *Controller) Reset(ctx context.Context) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.history.Turns()

	sess, err := c.sessions.Reset(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if err := c.history.Clear(ctx); err != nil {
		return domain.Session{}, err
	}

	for i := range removed {
		for j := range removed[i].Attachments {
			removed[i].Attachments[j].ReleasePreview()
		}
	}
	for i := range c.draftAttachments {
		c.draftAttachments[i].ReleasePreview()
	}
	c.draftText = ""
	c.draftAttachments = nil
	c.pendingID = ""

	return sess, nil
}
