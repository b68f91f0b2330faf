package model

// Test is a named collection of questions owned by its author. Test-takers
// read it but never mutate it.
// swagger:model Test
type Test struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	AllowRetake bool   `gorm:"default:false" json:"allowRetake"`
	AuthorID    uint   `gorm:"index;type:bigint unsigned" json:"authorId"`
	Author      *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	// ArchivePath is the object-storage key of the last accepted question
	// upload, empty when questions were never bulk-loaded.
	ArchivePath string `gorm:"size:512" json:"-"`
}

func (Test) TableName() string {
	return "tests"
}
