package models

// Difficulty is the tier a course is filed under
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// Valid reports whether d is one of the known tiers
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// MissionType selects how a lesson's mission payload is played and checked
type MissionType string

const (
	MissionInfo            MissionType = "info"
	MissionQuiz            MissionType = "quiz"
	MissionQnA             MissionType = "q_and_a"
	MissionDragDropOrder   MissionType = "drag_drop_order"
	MissionCodingGame      MissionType = "coding_game"
	MissionLogicPuzzle     MissionType = "logic_puzzle"
	MissionJigsawPuzzle    MissionType = "jigsaw_puzzle"
	MissionFillInTheBlanks MissionType = "fill_in_the_blanks"
)

// Valid reports whether t is a known mission type
func (t MissionType) Valid() bool {
	switch t {
	case MissionInfo, MissionQuiz, MissionQnA, MissionDragDropOrder, MissionCodingGame,
		MissionLogicPuzzle, MissionJigsawPuzzle, MissionFillInTheBlanks:
		return true
	}
	return false
}

// Course is an immutable catalog entry
type Course struct {
	ID          string     `yaml:"id" json:"id"`
	Slug        string     `yaml:"slug" json:"slug"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty"`
	Lessons     []Lesson   `yaml:"lessons" json:"lessons"`
}

// Lesson returns the lesson with the given id, if it belongs to the course
func (c *Course) Lesson(lessonID string) (*Lesson, bool) {
	for i := range c.Lessons {
		if c.Lessons[i].ID == lessonID {
			return &c.Lessons[i], true
		}
	}
	return nil, false
}

// PossibleStars is the sum of every lesson's award
func (c *Course) PossibleStars() int {
	total := 0
	for _, l := range c.Lessons {
		total += l.Stars
	}
	return total
}

// Lesson is one mission inside a course. IDs are unique within their course only.
type Lesson struct {
	ID          string      `yaml:"id" json:"id"`
	Title       string      `yaml:"title" json:"title"`
	Category    string      `yaml:"category" json:"category"`
	Stars       int         `yaml:"stars" json:"stars"`
	MissionType MissionType `yaml:"mission_type" json:"missionType"`
	Mission     Mission     `yaml:"mission" json:"mission"`
}

// Mission holds the payload for every mission type; only the fields of the
// lesson's MissionType are populated.
type Mission struct {
	// info
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// quiz, coding_game
	Question           string   `yaml:"question,omitempty" json:"question,omitempty"`
	Options            []string `yaml:"options,omitempty" json:"options,omitempty"`
	CorrectAnswerIndex int      `yaml:"correct_answer_index,omitempty" json:"correctAnswerIndex"`
	CodeBefore         string   `yaml:"code_before,omitempty" json:"codeBefore,omitempty"`
	CodeAfter          string   `yaml:"code_after,omitempty" json:"codeAfter,omitempty"`

	// q_and_a, logic_puzzle
	Keywords      []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Placeholder   string   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Puzzle        string   `yaml:"puzzle,omitempty" json:"puzzle,omitempty"`
	CorrectAnswer string   `yaml:"correct_answer,omitempty" json:"correctAnswer,omitempty"`

	// drag_drop_order, jigsaw_puzzle, fill_in_the_blanks
	Prompt       string        `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Items        []MissionItem `yaml:"items,omitempty" json:"items,omitempty"`
	Image        string        `yaml:"image,omitempty" json:"image,omitempty"`
	Pieces       []MissionItem `yaml:"pieces,omitempty" json:"pieces,omitempty"`
	CorrectOrder []string      `yaml:"correct_order,omitempty" json:"correctOrder,omitempty"`
	Parts        []BlankPart   `yaml:"parts,omitempty" json:"parts,omitempty"`
}

// MissionItem is a draggable item or puzzle piece
type MissionItem struct {
	ID      string `yaml:"id" json:"id"`
	Content string `yaml:"content" json:"content"`
}

// BlankPart is either literal text or a blank with its expected word
type BlankPart struct {
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
	Blank  string `yaml:"blank,omitempty" json:"blank,omitempty"`
	Answer string `yaml:"answer,omitempty" json:"answer,omitempty"`
}

// IsBlank reports whether the part is a blank to be filled
func (p BlankPart) IsBlank() bool {
	return p.Blank != ""
}
