package service

import (
	"fmt"
	"slices"
	"strings"

	"sparkacademy/internal/models"
)

// Answer is a learner's submission for a mission. Only the field matching
// the lesson's mission type is read.
type Answer struct {
	Choice *int              `json:"choice,omitempty"` // quiz, coding_game
	Text   string            `json:"text,omitempty"`   // q_and_a, logic_puzzle
	Order  []string          `json:"order,omitempty"`  // drag_drop_order, jigsaw_puzzle
	Blanks map[string]string `json:"blanks,omitempty"` // fill_in_the_blanks
}

// CheckAnswer reports whether answer solves the lesson's mission.
// ErrInvalidAnswer means the submission is missing or malformed, as
// opposed to wrong.
func CheckAnswer(lesson *models.Lesson, answer Answer) (bool, error) {
	m := lesson.Mission
	switch lesson.MissionType {
	case models.MissionInfo:
		return true, nil

	case models.MissionQuiz, models.MissionCodingGame:
		if answer.Choice == nil {
			return false, fmt.Errorf("%w: a choice is required", ErrInvalidAnswer)
		}
		if *answer.Choice < 0 || *answer.Choice >= len(m.Options) {
			return false, fmt.Errorf("%w: choice %d out of range", ErrInvalidAnswer, *answer.Choice)
		}
		return *answer.Choice == m.CorrectAnswerIndex, nil

	case models.MissionQnA:
		text := strings.ToLower(strings.TrimSpace(answer.Text))
		if text == "" {
			return false, fmt.Errorf("%w: an answer is required", ErrInvalidAnswer)
		}
		for _, keyword := range m.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				return true, nil
			}
		}
		return false, nil

	case models.MissionLogicPuzzle:
		text := strings.ToLower(strings.TrimSpace(answer.Text))
		if text == "" {
			return false, fmt.Errorf("%w: an answer is required", ErrInvalidAnswer)
		}
		return text == strings.ToLower(m.CorrectAnswer), nil

	case models.MissionDragDropOrder, models.MissionJigsawPuzzle:
		if len(answer.Order) == 0 {
			return false, fmt.Errorf("%w: an order is required", ErrInvalidAnswer)
		}
		return slices.Equal(answer.Order, m.CorrectOrder), nil

	case models.MissionFillInTheBlanks:
		blanks := 0
		for _, part := range m.Parts {
			if !part.IsBlank() {
				continue
			}
			blanks++
			if answer.Blanks[part.Blank] != part.Answer {
				return false, nil
			}
		}
		return blanks > 0, nil
	}

	return false, fmt.Errorf("%w: unsupported mission type %q", ErrInvalidAnswer, lesson.MissionType)
}
