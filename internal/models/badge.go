package models

// Badge is an achievement a learner can unlock
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// HelpType selects the kind of AI helper answer
type HelpType string

const (
	HelpTip     HelpType = "tip"
	HelpExplain HelpType = "explain"
	HelpFact    HelpType = "fact"
	HelpSpark   HelpType = "spark"
	HelpHint    HelpType = "hint"
)

// Valid reports whether h is a known help type
func (h HelpType) Valid() bool {
	switch h {
	case HelpTip, HelpExplain, HelpFact, HelpSpark, HelpHint:
		return true
	}
	return false
}
