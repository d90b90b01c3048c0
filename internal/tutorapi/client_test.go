package tutorapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskSendsMultipartFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/api/ask", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		assert.Equal(t, "what is a rhombus?", r.FormValue("question"))
		assert.Equal(t, "sess-1", r.FormValue("session_id"))
		assert.Equal(t, "Ada Lovelace", r.FormValue("student_name"))
		assert.Equal(t, "ada@school.edu", r.FormValue("student_email"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sketch.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response": "a quadrilateral with four equal sides"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	raw, err := client.Ask(context.Background(), AskRequest{
		Question:     "what is a rhombus?",
		SessionID:    "sess-1",
		StudentName:  "Ada Lovelace",
		StudentEmail: "ada@school.edu",
		Image:        &Image{Name: "sketch.png", Data: []byte{0x89, 'P', 'N', 'G'}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `"a quadrilateral with four equal sides"`, string(raw))
}

func TestAskWithoutImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		_, _, err := r.FormFile("image")
		assert.Error(t, err)

		w.Write([]byte(`{"response": {"gpt": "ok"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	raw, err := client.Ask(context.Background(), AskRequest{Question: "q", SessionID: "s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"gpt": "ok"}`, string(raw))
}

func TestAskNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Ask(context.Background(), AskRequest{Question: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestAskMissingEnvelopeField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something_else": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Ask(context.Background(), AskRequest{Question: "q"})
	assert.Error(t, err)
}

func TestAlternates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/api/alternates", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sess-1", r.FormValue("session_id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"video_alternates": [{"title": "Proof", "video_id": "v2", "url": "https://khan/v2"}],
			"geogebra_alternates": [{"material_id": "m2", "url": "https://www.geogebra.org/m/m2", "title": "Second"}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	alternates, err := client.Alternates(context.Background(), "sess-1")
	require.NoError(t, err)

	require.Len(t, alternates.VideoAlternates, 1)
	assert.Equal(t, "Proof", alternates.VideoAlternates[0].Title)
	require.Len(t, alternates.GeoGebraAlternates, 1)
	assert.Equal(t, "m2", alternates.GeoGebraAlternates[0].MaterialID)
}
