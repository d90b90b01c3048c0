package handler

import (
	"testing"

	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSplitWolframCitation(t *testing.T) {
	body, url := splitWolframCitation("Area = πr²\n\n[Here is an explanation from Wolfram Alpha](https://www.wolframalpha.com/input?i=circle)")
	assert.Equal(t, "Area = πr²", body)
	assert.Equal(t, "https://www.wolframalpha.com/input?i=circle", url)
}

func TestSplitWolframCitationNoMatch(t *testing.T) {
	body, url := splitWolframCitation("Just an answer with [a link](https://example.com).")
	assert.Equal(t, "Just an answer with [a link](https://example.com).", body)
	assert.Empty(t, url)
}

func TestMimeCategory(t *testing.T) {
	assert.Equal(t, "image", mimeCategory("sketch.PNG"))
	assert.Equal(t, "image", mimeCategory("photo.jpeg"))
	assert.Equal(t, "document", mimeCategory("homework.pdf"))
	assert.Equal(t, "document", mimeCategory("noext"))
}

func TestQuestionLine(t *testing.T) {
	turn := domain.Turn{
		Question: "What is a chord?",
		Attachments: []domain.Attachment{
			{Name: "circle.png"},
			{Name: "notes.pdf"},
		},
	}
	assert.Equal(t, "📎 circle.png\n📎 notes.pdf\n🙋 What is a chord?", questionLine(turn))

	assert.Equal(t, "📎 circle.png", questionLine(domain.Turn{
		Attachments: []domain.Attachment{{Name: "circle.png"}},
	}))

	assert.Empty(t, questionLine(domain.Turn{Question: "   "}))
}
