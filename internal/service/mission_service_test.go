package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkacademy/internal/models"
)

func TestCheckAnswer(t *testing.T) {
	quiz := &models.Lesson{MissionType: models.MissionQuiz, Mission: models.Mission{
		Options: []string{"A cat", "A computer program", "A cloud"}, CorrectAnswerIndex: 1,
	}}
	qna := &models.Lesson{MissionType: models.MissionQnA, Mission: models.Mission{
		Keywords: []string{"Learn", "pattern"},
	}}
	puzzle := &models.Lesson{MissionType: models.MissionLogicPuzzle, Mission: models.Mission{
		CorrectAnswer: "Blue",
	}}
	order := &models.Lesson{MissionType: models.MissionDragDropOrder, Mission: models.Mission{
		CorrectOrder: []string{"i1", "i2", "i3"},
	}}
	blanks := &models.Lesson{MissionType: models.MissionFillInTheBlanks, Mission: models.Mission{
		Parts: []models.BlankPart{
			{Text: "A robot follows"},
			{Blank: "b1", Answer: "instructions"},
			{Text: "written in"},
			{Blank: "b2", Answer: "code"},
		},
	}}

	tests := []struct {
		name    string
		lesson  *models.Lesson
		answer  Answer
		want    bool
		wantErr bool
	}{
		{name: "info", lesson: &models.Lesson{MissionType: models.MissionInfo}, want: true},
		{name: "quiz correct", lesson: quiz, answer: Answer{Choice: intPtr(1)}, want: true},
		{name: "quiz wrong", lesson: quiz, answer: Answer{Choice: intPtr(0)}},
		{name: "quiz no choice", lesson: quiz, wantErr: true},
		{name: "quiz out of range", lesson: quiz, answer: Answer{Choice: intPtr(3)}, wantErr: true},
		{name: "q and a keyword", lesson: qna, answer: Answer{Text: "  It LEARNS from data "}, want: true},
		{name: "q and a miss", lesson: qna, answer: Answer{Text: "magic"}},
		{name: "q and a empty", lesson: qna, answer: Answer{Text: "   "}, wantErr: true},
		{name: "logic puzzle", lesson: puzzle, answer: Answer{Text: " blue "}, want: true},
		{name: "logic puzzle partial", lesson: puzzle, answer: Answer{Text: "blueish"}},
		{name: "order correct", lesson: order, answer: Answer{Order: []string{"i1", "i2", "i3"}}, want: true},
		{name: "order wrong", lesson: order, answer: Answer{Order: []string{"i2", "i1", "i3"}}},
		{name: "order missing", lesson: order, wantErr: true},
		{name: "blanks correct", lesson: blanks, answer: Answer{Blanks: map[string]string{"b1": "instructions", "b2": "code"}}, want: true},
		{name: "blanks one wrong", lesson: blanks, answer: Answer{Blanks: map[string]string{"b1": "instructions", "b2": "paint"}}},
		{name: "blanks empty", lesson: blanks},
		{name: "unknown type", lesson: &models.Lesson{MissionType: "dance"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckAnswer(tt.lesson, tt.answer)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAnswer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
