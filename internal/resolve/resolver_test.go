package resolve

import (
	"encoding/json"
	"testing"

	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBareString(t *testing.T) {
	answer := Resolve(json.RawMessage(`"a²+b²=c²"`))

	assert.Equal(t, domain.AnswerPlain, answer.Kind)
	assert.Equal(t, "a²+b²=c²", answer.Text)
	assert.Nil(t, answer.Structured)
}

func TestResolveIsPure(t *testing.T) {
	raw := json.RawMessage(`{
		"gpt": "Area = $\\pi r^2$.",
		"lesson_found": false,
		"wolfram_link": "https://www.wolframalpha.com/input?i=circle",
		"geogebra_id": "abc123",
		"geogebra_alternates": [{"material_id": "def456", "url": "https://www.geogebra.org/m/def456", "title": "Circles"}],
		"khan_video": {"primary": {"title": "Circle area", "video_id": "v1", "url": "https://khan/v1"}, "alternates": [{"title": "Radius", "video_id": "v2", "url": "https://khan/v2"}]}
	}`)

	first := Resolve(raw)
	second := Resolve(raw)

	require.Equal(t, first, second)
}

func TestRedactionWhenLessonNotFound(t *testing.T) {
	answer := Resolve(json.RawMessage(`{"gpt": "Please see your lesson on circles for more.", "lesson_found": false}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	assert.Empty(t, answer.Structured.PrimaryText)
	assert.False(t, answer.Structured.LessonFound)
}

func TestNoRedactionWhenLessonFound(t *testing.T) {
	text := "Please see your lesson on circles for more."
	answer := Resolve(json.RawMessage(`{"gpt": "` + text + `", "lesson_found": true}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	assert.Equal(t, text, answer.Structured.PrimaryText)
}

func TestNoRedactionWhenFlagAbsent(t *testing.T) {
	text := "Please refer to your lesson on angles."
	answer := Resolve(json.RawMessage(`{"gpt": "` + text + `"}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	assert.Equal(t, text, answer.Structured.PrimaryText)
	assert.True(t, answer.Structured.LessonFound)
}

func TestRedactionKeepsSurroundingSentences(t *testing.T) {
	answer := Resolve(json.RawMessage(`{
		"gpt": "The area is $\\pi r^2$. Please refer to your lesson on circles. Keep practicing!",
		"lesson_found": false
	}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	assert.Equal(t, "The area is $\\pi r^2$. Keep practicing!", answer.Structured.PrimaryText)
}

func TestWolframCitationAppended(t *testing.T) {
	answer := Resolve(json.RawMessage(`{"gpt": "Area = πr²", "wolfram_link": "https://x"}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	assert.Equal(t, "Area = πr²\n\n[Here is an explanation from Wolfram Alpha](https://x)", answer.Structured.PrimaryText)
	assert.Equal(t, "https://x", answer.Structured.ExternalLink)
}

func TestWolframCitationAppendedAfterRedaction(t *testing.T) {
	answer := Resolve(json.RawMessage(`{
		"gpt": "Please see your lesson on circles for more.",
		"lesson_found": false,
		"wolfram_link": "https://x"
	}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	assert.Equal(t, "\n\n[Here is an explanation from Wolfram Alpha](https://x)", answer.Structured.PrimaryText)
}

func TestDiagramEmbeddable(t *testing.T) {
	answer := Resolve(json.RawMessage(`{
		"gpt": "Look at this.",
		"geogebra_id": "abc123",
		"geogebra_alternates": [
			{"material_id": "m2", "title": "Second"},
			{"material_id": "m3", "url": "https://www.geogebra.org/m/m3", "title": "Third"}
		]
	}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	diagram := answer.Structured.Diagram
	require.NotNil(t, diagram)
	assert.Equal(t, domain.DiagramEmbeddable, diagram.Kind)
	assert.Equal(t, "abc123", diagram.MaterialID)
	assert.Equal(t, "https://www.geogebra.org/m/abc123", diagram.URL)

	// Alternates keep source order; missing URLs are filled from the id.
	require.Len(t, diagram.Alternates, 2)
	assert.Equal(t, "m2", diagram.Alternates[0].MaterialID)
	assert.Equal(t, "https://www.geogebra.org/m/m2", diagram.Alternates[0].URL)
	assert.Equal(t, "Third", diagram.Alternates[1].Title)
}

func TestDiagramFallbackLink(t *testing.T) {
	answer := Resolve(json.RawMessage(`{
		"gpt": "No exact match.",
		"geogebra_fallback": "https://www.geogebra.org/math/geometry"
	}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	diagram := answer.Structured.Diagram
	require.NotNil(t, diagram)
	assert.Equal(t, domain.DiagramFallbackLink, diagram.Kind)
	assert.Empty(t, diagram.MaterialID)
	assert.Equal(t, "https://www.geogebra.org/math/geometry", diagram.URL)
}

func TestNoDiagram(t *testing.T) {
	answer := Resolve(json.RawMessage(`{"gpt": "Just text."}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	assert.Nil(t, answer.Structured.Diagram)
}

func TestVideoNestedPrimary(t *testing.T) {
	answer := Resolve(json.RawMessage(`{
		"gpt": "Watch this.",
		"khan_video": {
			"primary": {"title": "Pythagorean theorem", "video_id": "v1", "url": "https://khan/v1"},
			"alternates": [
				{"title": "Proof", "video_id": "v2", "url": "https://khan/v2"},
				{"title": "Practice", "video_id": "v3", "url": "https://khan/v3"}
			]
		}
	}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	video := answer.Structured.Video
	require.NotNil(t, video)
	assert.Equal(t, "Pythagorean theorem", video.Primary.Title)
	require.Len(t, video.Alternates, 2)
	assert.Equal(t, "Proof", video.Alternates[0].Title)
	assert.Equal(t, "Practice", video.Alternates[1].Title)
}

func TestVideoFlatPrimary(t *testing.T) {
	answer := Resolve(json.RawMessage(`{
		"gpt": "Watch this.",
		"khan_video": {"title": "Angles", "video_id": "v9", "url": "https://khan/v9"}
	}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	video := answer.Structured.Video
	require.NotNil(t, video)
	assert.Equal(t, "Angles", video.Primary.Title)
	assert.Empty(t, video.Alternates)
}

func TestLessonSuggestions(t *testing.T) {
	answer := Resolve(json.RawMessage(`{
		"gpt": "Check your notes.",
		"lesson_primary": "Circles and Arcs",
		"lesson_alternates": ["Tangent Lines", "Sector Area"]
	}`))

	require.Equal(t, domain.AnswerStructured, answer.Kind)
	lessons := answer.Structured.Lessons
	require.NotNil(t, lessons)
	assert.Equal(t, "Circles and Arcs", lessons.Primary)
	assert.Equal(t, []string{"Tangent Lines", "Sector Area"}, lessons.Alternates)
}

func TestMissingPrimaryTextDegradesToPlain(t *testing.T) {
	answer := Resolve(json.RawMessage(`{"text": "best effort text", "lesson_found": true}`))

	assert.Equal(t, domain.AnswerPlain, answer.Kind)
	assert.Equal(t, "best effort text", answer.Text)
}

func TestNoTextAtAllDegradesToPlaceholder(t *testing.T) {
	answer := Resolve(json.RawMessage(`{"lesson_found": true}`))

	assert.Equal(t, domain.AnswerPlain, answer.Kind)
	assert.Equal(t, missingTextPlaceholder, answer.Text)
}

func TestUnusableValueDegradesToPlaceholder(t *testing.T) {
	answer := Resolve(json.RawMessage(`42`))

	assert.Equal(t, domain.AnswerPlain, answer.Kind)
	assert.Equal(t, missingTextPlaceholder, answer.Text)
}
