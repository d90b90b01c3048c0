package domain

type AnswerKind string

const (
	AnswerPlain      AnswerKind = "plain"
	AnswerStructured AnswerKind = "structured"
)

// Answer is a tagged variant: either a bare text reply or the structured
// payload carrying diagram/link/video/lesson suggestions. Downstream code
// switches on Kind and never re-inspects raw payload shape.
type Answer struct {
	Kind       AnswerKind        `json:"kind"`
	Text       string            `json:"text,omitempty"`
	Structured *StructuredAnswer `json:"structured,omitempty"`
}

func PlainAnswer(text string) *Answer {
	return &Answer{Kind: AnswerPlain, Text: text}
}

func StructuredAnswerOf(s StructuredAnswer) *Answer {
	return &Answer{Kind: AnswerStructured, Structured: &s}
}

// DisplayText returns the text body to render for either variant.
func (a *Answer) DisplayText() string {
	if a.Kind == AnswerStructured && a.Structured != nil {
		return a.Structured.PrimaryText
	}
	return a.Text
}

type StructuredAnswer struct {
	PrimaryText  string            `json:"primary_text"`
	LessonFound  bool              `json:"lesson_found"`
	Diagram      *DiagramRef       `json:"diagram,omitempty"`
	ExternalLink string            `json:"external_link,omitempty"`
	Video        *VideoSuggestion  `json:"video,omitempty"`
	Lessons      *LessonSuggestion `json:"lessons,omitempty"`
}

// HasAlternates reports whether any suggestion category carries more
// entries than its primary.
func (s *StructuredAnswer) HasAlternates() bool {
	if s.Diagram != nil && len(s.Diagram.Alternates) > 0 {
		return true
	}
	if s.Video != nil && len(s.Video.Alternates) > 0 {
		return true
	}
	if s.Lessons != nil && len(s.Lessons.Alternates) > 0 {
		return true
	}
	return false
}

type DiagramKind string

const (
	// DiagramEmbeddable carries a GeoGebra material id the renderer may
	// embed inline (or link with resolved metadata).
	DiagramEmbeddable DiagramKind = "embeddable"
	// DiagramFallbackLink carries only an opaque external URL and must be
	// rendered as a plain outbound link.
	DiagramFallbackLink DiagramKind = "fallback_link"
)

type DiagramRef struct {
	Kind       DiagramKind    `json:"kind"`
	MaterialID string         `json:"material_id,omitempty"`
	URL        string         `json:"url,omitempty"`
	Alternates []DiagramEntry `json:"alternates,omitempty"`
}

type DiagramEntry struct {
	MaterialID string `json:"material_id,omitempty"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
}

type VideoRef struct {
	Title   string `json:"title"`
	VideoID string `json:"video_id,omitempty"`
	URL     string `json:"url"`
}

type VideoSuggestion struct {
	Primary    VideoRef   `json:"primary"`
	Alternates []VideoRef `json:"alternates,omitempty"`
}

type LessonSuggestion struct {
	Primary    string   `json:"primary"`
	Alternates []string `json:"alternates,omitempty"`
}
