package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserExamStatus 每个用户每个检定一条，只会从未合格变成合格
type UserExamStatus struct {
	BaseModel
	UserID   uint       `gorm:"uniqueIndex:idx_user_exam;not null" json:"userId"`
	ExamID   uint       `gorm:"uniqueIndex:idx_user_exam;not null" json:"examId"`
	Exam     *Exam      `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"exam,omitempty"`
	IsPassed bool       `gorm:"default:false" json:"isPassed"`
	PassedAt *time.Time `json:"passedAt"`
}

func (UserExamStatus) TableName() string {
	return "user_exam_statuses"
}

// ExamResult 答题记录，只追加
type ExamResult struct {
	BaseModel
	UserID   uint           `gorm:"index;not null" json:"userId"`
	ExamID   uint           `gorm:"index;not null" json:"examId"`
	Exam     *Exam          `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"exam,omitempty"`
	Score    int            `json:"score"`
	IsPassed bool           `json:"isPassed"`
	Answers  datatypes.JSON `json:"answers,omitempty"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}
