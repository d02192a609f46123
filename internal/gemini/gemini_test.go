package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("# Title\n\n"),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("Body"),
			}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("second candidate")}}},
		},
	}

	txt, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", txt)
}

func TestResponseText_Empty(t *testing.T) {
	tbl := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{}}}}}},
	}

	for i, resp := range tbl {
		_, err := responseText(resp)
		assert.ErrorIs(t, err, ErrNoCandidates, "case %d", i)
	}
}

func TestResponseText_Blocked(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
	}

	_, err := responseText(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt blocked")
}
