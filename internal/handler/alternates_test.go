package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrgilbot/gilbot/internal/conversation"
	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/mrgilbot/gilbot/internal/history"
	"github.com/mrgilbot/gilbot/internal/session"
	"github.com/mrgilbot/gilbot/internal/storage"
	"github.com/mrgilbot/gilbot/internal/tutorapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConversation(client *tutorapi.Client) *conversation.Controller {
	mem := storage.NewMemory()
	return conversation.New(
		session.NewManager(mem, storage.SessionKey(1)),
		history.NewStore(mem, storage.HistoryKey(1)),
		client,
	)
}

func TestAlternatesTextFromAnswer(t *testing.T) {
	h := &Handler{}
	s := &domain.StructuredAnswer{
		Diagram: &domain.DiagramRef{
			Alternates: []domain.DiagramEntry{{Title: "Second", URL: "https://www.geogebra.org/m/m2"}},
		},
		Video: &domain.VideoSuggestion{
			Alternates: []domain.VideoRef{{Title: "Proof", URL: "https://khan/v2"}},
		},
		Lessons: &domain.LessonSuggestion{Alternates: []string{"Sector Area"}},
	}

	text, err := h.alternatesText(context.Background(), testConversation(nil), s)
	require.NoError(t, err)
	assert.Equal(t, "✨ More suggestions:\n\n📐 [Second](https://www.geogebra.org/m/m2)\n▶️ [Proof](https://khan/v2)\n📒 Sector Area", text)
}

func TestAlternatesTextBackendFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/alternates", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"video_alternates": [{"title": "Proof", "url": "https://khan/v2"}],
			"geogebra_alternates": [{"material_id": "m2", "url": "https://www.geogebra.org/m/m2", "title": "Second"}]
		}`))
	}))
	defer server.Close()

	h := &Handler{tutor: tutorapi.NewClient(server.URL)}
	text, err := h.alternatesText(context.Background(), testConversation(h.tutor), nil)
	require.NoError(t, err)
	assert.Contains(t, text, "📐 [Second](https://www.geogebra.org/m/m2)")
	assert.Contains(t, text, "▶️ [Proof](https://khan/v2)")
}

func TestAlternatesTextBackendEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	h := &Handler{tutor: tutorapi.NewClient(server.URL)}
	text, err := h.alternatesText(context.Background(), testConversation(h.tutor), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestAlternatesTextBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	// A transient fetch failure is an error, so the reveal handler can
	// hand the button back instead of consuming it.
	h := &Handler{tutor: tutorapi.NewClient(server.URL)}
	_, err := h.alternatesText(context.Background(), testConversation(h.tutor), nil)
	assert.Error(t, err)
}
