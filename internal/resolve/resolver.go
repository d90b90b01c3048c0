// Package resolve normalizes the tutor backend's raw answer payload into
// the tagged Answer variant. Resolve is pure: same bytes in, same answer
// out, no I/O, and it never fails — malformed payloads degrade to plain
// text instead.
package resolve

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mrgilbot/gilbot/internal/domain"
)

const (
	// Shown when a structured payload carries no usable text at all.
	missingTextPlaceholder = "I couldn't read that answer. Please try asking again."

	geogebraMaterialBase = "https://www.geogebra.org/m/"
)

// lessonSentenceRe matches a whole sentence of the form
// "please see/refer to ... lesson ...", case-insensitive. The pattern is
// the contract; it is deliberately not broadened beyond what the backend
// emits.
var lessonSentenceRe = regexp.MustCompile(`(?i)[^.!?\n]*please\s+(?:see|refer\s+to)[^.!?\n]*\blesson\b[^.!?\n]*[.!?]?`)

var doubleSpaceRe = regexp.MustCompile(` {2,}`)

// Wire shape of the structured response object.
type rawAnswer struct {
	GPT                string         `json:"gpt"`
	Text               string         `json:"text"`
	Message            string         `json:"message"`
	LessonFound        *bool          `json:"lesson_found"`
	GeoGebraID         string         `json:"geogebra_id"`
	GeoGebraFallback   string         `json:"geogebra_fallback"`
	GeoGebraAlternates []rawMaterial  `json:"geogebra_alternates"`
	WolframLink        string         `json:"wolfram_link"`
	LessonPrimary      string         `json:"lesson_primary"`
	LessonAlternates   []string       `json:"lesson_alternates"`
	KhanVideo          *rawKhanVideo  `json:"khan_video"`
}

type rawMaterial struct {
	MaterialID string `json:"material_id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
}

// khan_video arrives either with a nested primary or with the primary's
// fields inlined next to alternates.
type rawKhanVideo struct {
	Primary    *rawVideo  `json:"primary"`
	Title      string     `json:"title"`
	VideoID    string     `json:"video_id"`
	URL        string     `json:"url"`
	Alternates []rawVideo `json:"alternates"`
}

type rawVideo struct {
	Title   string `json:"title"`
	VideoID string `json:"video_id"`
	URL     string `json:"url"`
}

// Resolve turns the raw `response` value into an Answer. A bare JSON
// string maps to a plain answer unchanged; an object maps to a
// structured answer; anything else degrades to plain text.
func Resolve(raw json.RawMessage) *domain.Answer {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return domain.PlainAnswer(text)
	}

	var payload rawAnswer
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.PlainAnswer(missingTextPlaceholder)
	}
	return resolveStructured(payload)
}

func resolveStructured(payload rawAnswer) *domain.Answer {
	// Missing primary text degrades the whole answer to plain text built
	// from the best available field. A degraded answer still resolves.
	if payload.GPT == "" {
		return domain.PlainAnswer(bestText(payload))
	}

	lessonFound := true
	if payload.LessonFound != nil {
		lessonFound = *payload.LessonFound
	}

	text := payload.GPT
	if !lessonFound {
		text = redactLessonSentences(text)
	}
	// Citation is appended after redaction so it can never be redacted away.
	if payload.WolframLink != "" {
		text += "\n\n[Here is an explanation from Wolfram Alpha](" + payload.WolframLink + ")"
	}

	return domain.StructuredAnswerOf(domain.StructuredAnswer{
		PrimaryText:  text,
		LessonFound:  lessonFound,
		Diagram:      resolveDiagram(payload),
		ExternalLink: payload.WolframLink,
		Video:        resolveVideo(payload.KhanVideo),
		Lessons:      resolveLessons(payload),
	})
}

func bestText(payload rawAnswer) string {
	for _, candidate := range []string{payload.Text, payload.Message} {
		if candidate != "" {
			return candidate
		}
	}
	return missingTextPlaceholder
}

func redactLessonSentences(text string) string {
	redacted := lessonSentenceRe.ReplaceAllString(text, "")
	redacted = doubleSpaceRe.ReplaceAllString(redacted, " ")
	return strings.TrimSpace(redacted)
}

// resolveDiagram tags the reference so the renderer never inspects raw
// shape: embeddable material id when present, plain outbound link
// otherwise, nothing when the payload has neither.
func resolveDiagram(payload rawAnswer) *domain.DiagramRef {
	alternates := make([]domain.DiagramEntry, 0, len(payload.GeoGebraAlternates))
	for _, alt := range payload.GeoGebraAlternates {
		url := alt.URL
		if url == "" && alt.MaterialID != "" {
			url = geogebraMaterialBase + alt.MaterialID
		}
		alternates = append(alternates, domain.DiagramEntry{
			MaterialID: alt.MaterialID,
			URL:        url,
			Title:      alt.Title,
		})
	}
	if len(alternates) == 0 {
		alternates = nil
	}

	switch {
	case payload.GeoGebraID != "":
		return &domain.DiagramRef{
			Kind:       domain.DiagramEmbeddable,
			MaterialID: payload.GeoGebraID,
			URL:        geogebraMaterialBase + payload.GeoGebraID,
			Alternates: alternates,
		}
	case payload.GeoGebraFallback != "":
		return &domain.DiagramRef{
			Kind:       domain.DiagramFallbackLink,
			URL:        payload.GeoGebraFallback,
			Alternates: alternates,
		}
	default:
		return nil
	}
}

func resolveVideo(raw *rawKhanVideo) *domain.VideoSuggestion {
	if raw == nil {
		return nil
	}

	primary := rawVideo{Title: raw.Title, VideoID: raw.VideoID, URL: raw.URL}
	if raw.Primary != nil {
		primary = *raw.Primary
	}
	if primary.Title == "" && primary.URL == "" {
		return nil
	}

	suggestion := &domain.VideoSuggestion{
		Primary: domain.VideoRef{Title: primary.Title, VideoID: primary.VideoID, URL: primary.URL},
	}
	for _, alt := range raw.Alternates {
		suggestion.Alternates = append(suggestion.Alternates, domain.VideoRef{
			Title:   alt.Title,
			VideoID: alt.VideoID,
			URL:     alt.URL,
		})
	}
	return suggestion
}

func resolveLessons(payload rawAnswer) *domain.LessonSuggestion {
	if payload.LessonPrimary == "" {
		return nil
	}
	return &domain.LessonSuggestion{
		Primary:    payload.LessonPrimary,
		Alternates: payload.LessonAlternates,
	}
}
