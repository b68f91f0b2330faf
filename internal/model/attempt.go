package model

// Attempt is one test-taker's pass through a test. The score is computed once
// at submission and fixed afterwards; CreatedAt orders the attempt history.
// swagger:model Attempt
type Attempt struct {
	BaseModel
	TestID uint `gorm:"index;type:bigint unsigned" json:"testId"`
	UserID uint `gorm:"index;type:bigint unsigned" json:"userId"`
	Score  int  `gorm:"default:0" json:"score"`
}

func (Attempt) TableName() string {
	return "attempts"
}
