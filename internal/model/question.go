package model

// Valid range for option codes. Answer and selected options are stored as
// these numeric codes, never as option text.
const (
	OptionMin = 1
	OptionMax = 4
)

// swagger:model Question
type Question struct {
	BaseModel
	TestID       uint   `gorm:"index;type:bigint unsigned" json:"testId"`
	QuestionText string `gorm:"type:text;not null" json:"questionText"`
	Option1      string `gorm:"type:text;not null" json:"option1"`
	Option2      string `gorm:"type:text;not null" json:"option2"`
	Option3      string `gorm:"type:text;not null" json:"option3"`
	Option4      string `gorm:"type:text;not null" json:"option4"`
	Answer       int    `gorm:"not null" json:"answer"` // correct option code, 1-4
}

func (Question) TableName() string {
	return "questions"
}

// OptionText resolves an option code to its text. The second return value is
// false for codes outside 1-4, including the unanswered sentinel.
func (q *Question) OptionText(code int) (string, bool) {
	switch code {
	case 1:
		return q.Option1, true
	case 2:
		return q.Option2, true
	case 3:
		return q.Option3, true
	case 4:
		return q.Option4, true
	default:
		return "", false
	}
}
