package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkacademy/internal/models"
)

type fakeLLM struct {
	response string
	err      error
	delay    time.Duration
	prompts  []string
}

func (f *fakeLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

func (f *fakeLLM) IsModelAvailable(context.Context) error { return nil }

func TestGetHelpWithoutProvider(t *testing.T) {
	svc := NewHelpService(nil, 0, nil)
	assert.False(t, svc.Enabled())
	assert.Equal(t, helperNapMessage, svc.GetHelp(context.Background(), HelpRequest{Topic: "robots", Type: models.HelpTip}))
}

func TestGetHelpPrompts(t *testing.T) {
	tests := []struct {
		helpType models.HelpType
		prefix   string
	}{
		{models.HelpTip, "Start with 'AI Tip:'"},
		{models.HelpExplain, "Start with 'Here's the simple version:'"},
		{models.HelpFact, "Start with 'Wow Fact:'"},
		{models.HelpSpark, "Start with 'Brain Spark:'"},
		{models.HelpType("unknown"), "Start with 'AI Tip:'"},
	}

	for _, tt := range tests {
		t.Run(string(tt.helpType), func(t *testing.T) {
			llm := &fakeLLM{response: "Wow Fact: computers count fast!"}
			svc := NewHelpService(llm, time.Second, nil)

			got := svc.GetHelp(context.Background(), HelpRequest{Topic: "What is AI?", Type: tt.helpType})
			assert.Equal(t, "Wow Fact: computers count fast!", got)

			require.Len(t, llm.prompts, 1)
			assert.Contains(t, llm.prompts[0], basePrompt)
			assert.Contains(t, llm.prompts[0], `"What is AI?"`)
			assert.Contains(t, llm.prompts[0], tt.prefix)
		})
	}
}

func TestGetHelpHintSummarizesMission(t *testing.T) {
	lesson := &models.Lesson{
		Title:       "Build the Puzzle",
		MissionType: models.MissionJigsawPuzzle,
		Mission: models.Mission{
			Prompt:       "Put the robot together",
			Pieces:       []models.MissionItem{{ID: "p1", Content: "head"}, {ID: "p2", Content: "body"}, {ID: "p3", Content: "legs"}},
			CorrectOrder: []string{"p1", "p2", "p3"},
		},
	}

	llm := &fakeLLM{response: "Hint: start at the top!"}
	svc := NewHelpService(llm, time.Second, nil)

	got := svc.GetHelp(context.Background(), HelpRequest{Topic: HintTopic(lesson), Type: models.HelpHint, Lesson: lesson})
	assert.Equal(t, "Hint: start at the top!", got)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "Start with 'Hint:'")
	assert.Contains(t, prompt, "[3 puzzle pieces]")
	assert.NotContains(t, prompt, `"head"`)
	assert.Contains(t, prompt, "Put the robot together")
}

func TestSummarizeMission(t *testing.T) {
	tests := []struct {
		name   string
		lesson *models.Lesson
		want   map[string]interface{}
	}{
		{
			name: "drag and drop items",
			lesson: &models.Lesson{MissionType: models.MissionDragDropOrder, Mission: models.Mission{
				Prompt: "Order the steps",
				Items:  []models.MissionItem{{ID: "i1", Content: "wake"}, {ID: "i2", Content: "eat"}},
			}},
			want: map[string]interface{}{"items": "[2 items]", "prompt": "Order the steps"},
		},
		{
			name: "fill in the blanks",
			lesson: &models.Lesson{MissionType: models.MissionFillInTheBlanks, Mission: models.Mission{
				Parts: []models.BlankPart{{Text: "AI can"}, {Blank: "b1", Answer: "learn"}},
			}},
			want: map[string]interface{}{"parts": "[A fill-in-the-blanks sentence]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(summarizeMission(tt.lesson)), &got))
			for key, want := range tt.want {
				assert.Equal(t, want, got[key], key)
			}
		})
	}
}

func TestGetHelpFallbacks(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		svc := NewHelpService(&fakeLLM{err: errors.New("connection refused")}, time.Second, nil)
		assert.Equal(t, helperScrambleMessage, svc.GetHelp(context.Background(), HelpRequest{Topic: "robots"}))
	})

	t.Run("timeout", func(t *testing.T) {
		svc := NewHelpService(&fakeLLM{response: "too late", delay: time.Second}, 20*time.Millisecond, nil)
		assert.Equal(t, helperScrambleMessage, svc.GetHelp(context.Background(), HelpRequest{Topic: "robots"}))
	})
}
