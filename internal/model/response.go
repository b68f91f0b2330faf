package model

// SelectedNone marks a question the test-taker left unanswered. It is a
// dedicated sentinel rather than NULL or 0 so it can never collide with a
// valid option code, even if option codes ever become 0-indexed.
const SelectedNone = -1

// Response records one selection (or non-selection) for one question within
// one attempt. Exactly one response exists per question of the attempt's test.
// swagger:model Response
type Response struct {
	BaseModel
	AttemptID      uint `gorm:"index;type:bigint unsigned" json:"attemptId"`
	QuestionID     uint `gorm:"index;type:bigint unsigned" json:"questionId"`
	SelectedOption int  `gorm:"not null" json:"selectedOption"` // 1-4 or SelectedNone
}

func (Response) TableName() string {
	return "responses"
}

func (r Response) Answered() bool {
	return r.SelectedOption != SelectedNone
}
