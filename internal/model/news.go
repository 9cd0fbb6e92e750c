package model

type NewsCategory string

const (
	NewsGeneral  NewsCategory = "news"
	NewsTraining NewsCategory = "training"
	NewsUrgent   NewsCategory = "urgent"
)

func (c NewsCategory) Valid() bool {
	return c == NewsGeneral || c == NewsTraining || c == NewsUrgent
}

type News struct {
	BaseModel
	Title       string       `gorm:"size:100;not null" json:"title"`
	Content     string       `gorm:"type:text" json:"content"`
	Category    NewsCategory `gorm:"size:20;default:'news'" json:"category"`
	IsImportant bool         `gorm:"default:false" json:"isImportant"`
	IsActive    bool         `gorm:"not null" json:"isActive"`
	IsDeleted   bool         `gorm:"default:false;index" json:"isDeleted"`
	AuthorID    *uint        `gorm:"index" json:"authorId"`
	Author      *User        `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
}

func (News) TableName() string {
	return "news"
}
