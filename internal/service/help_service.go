package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sparkacademy/internal/llm"
	"sparkacademy/internal/logger"
	"sparkacademy/internal/models"
)

const (
	helperNapMessage      = "Psst! The AI Helper is taking a nap. Ask your teacher for a tip instead!"
	helperScrambleMessage = "Oops! My circuits are a bit scrambled. I couldn't think of anything right now."

	basePrompt = "You are a friendly, encouraging AI robot teaching a 7-year-old about programming and AI. Your tone is simple, fun, and positive."

	defaultHelpTimeout = 20 * time.Second
)

// HelpRequest asks the AI helper about a topic. Lesson is only read for hints.
type HelpRequest struct {
	Topic  string
	Type   models.HelpType
	Lesson *models.Lesson
}

// HelpService turns help requests into prompts for the configured LLM.
// A nil LLM means the helper is switched off.
type HelpService struct {
	llm     llm.LLM
	timeout time.Duration
	log     *logger.Logger
}

func NewHelpService(client llm.LLM, timeout time.Duration, log *logger.Logger) *HelpService {
	if timeout <= 0 {
		timeout = defaultHelpTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &HelpService{llm: client, timeout: timeout, log: log}
}

// Enabled reports whether an LLM provider is configured
func (s *HelpService) Enabled() bool {
	return s.llm != nil
}

// GetHelp always returns text for the learner. Provider failures are logged
// and answered with a friendly fallback.
func (s *HelpService) GetHelp(ctx context.Context, req HelpRequest) string {
	if s.llm == nil {
		return helperNapMessage
	}

	prompt := basePrompt + "\n\n" + buildHelpPrompt(req)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.llm.GenerateResponse(ctx, prompt)
	if err != nil {
		s.log.Warn("AI helper request failed", "type", req.Type, "topic", req.Topic, "error", err)
		return helperScrambleMessage
	}
	if ctx.Err() != nil {
		return helperScrambleMessage
	}
	return text
}

// HintTopic is the topic line used when asking for a mission hint
func HintTopic(lesson *models.Lesson) string {
	return fmt.Sprintf("the mission %q", lesson.Title)
}

func buildHelpPrompt(req HelpRequest) string {
	switch req.Type {
	case models.HelpHint:
		mission := "{}"
		if req.Lesson != nil {
			mission = summarizeMission(req.Lesson)
		}
		return fmt.Sprintf("The student is stuck on a mission about %q. The mission is: %s. Give a short, encouraging hint (under 25 words) to help them solve it without giving away the answer. Start with 'Hint:'.", req.Topic, mission)
	case models.HelpExplain:
		return fmt.Sprintf("Explain the topic %q in a super simple way (under 30 words). Start with 'Here's the simple version:'.", req.Topic)
	case models.HelpFact:
		return fmt.Sprintf("Tell me a surprising \"Wow!\" fact about %q (under 30 words). Start with 'Wow Fact:'.", req.Topic)
	case models.HelpSpark:
		return fmt.Sprintf("Ask a simple, thought-provoking \"Brain Spark\" question about %q to make me think. Start with 'Brain Spark:'.", req.Topic)
	default:
		return fmt.Sprintf("Give a fun tip about %q (under 30 words). Start with 'AI Tip:'.", req.Topic)
	}
}

// summarizeMission renders the mission payload as indented JSON with the
// bulky lists replaced by short descriptions.
func summarizeMission(lesson *models.Lesson) string {
	raw, err := json.Marshal(lesson.Mission)
	if err != nil {
		return "{}"
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "{}"
	}

	m := lesson.Mission
	if len(m.Items) > 0 {
		fields["items"] = fmt.Sprintf("[%d items]", len(m.Items))
	}
	if lesson.MissionType == models.MissionJigsawPuzzle && len(m.Pieces) > 0 {
		fields["pieces"] = fmt.Sprintf("[%d puzzle pieces]", len(m.Pieces))
	}
	if lesson.MissionType == models.MissionFillInTheBlanks && len(m.Parts) > 0 {
		fields["parts"] = "[A fill-in-the-blanks sentence]"
	}

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
