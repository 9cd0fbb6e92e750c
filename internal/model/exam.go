package model

import "fmt"

type ExamType string

const (
	MockExam ExamType = "mock"
	MainExam ExamType = "main"
)

func (t ExamType) Valid() bool {
	return t == MockExam || t == MainExam
}

// ExamState 由 is_deleted / is_active 两个标记推导出来的状态
type ExamState string

const (
	ExamPublished   ExamState = "published"
	ExamUnpublished ExamState = "unpublished"
	ExamDeleted     ExamState = "deleted"
)

const DefaultPassingScore = 80

type Exam struct {
	BaseModel
	Title          string     `gorm:"size:100;not null" json:"title"`
	ExamsFile      string     `gorm:"size:255" json:"examsFile"`
	Description    string     `gorm:"type:text" json:"description"`
	PassingScore   int        `gorm:"not null" json:"passingScore"`
	TimeLimit      int        `gorm:"default:0" json:"timeLimit"` // 分钟，0 表示不限
	ExamType       ExamType   `gorm:"size:10;default:'mock';index" json:"examType"`
	PrerequisiteID *uint      `gorm:"index" json:"prerequisiteId"`
	Prerequisite   *Exam      `gorm:"foreignKey:PrerequisiteID;constraint:OnDelete:SET NULL" json:"prerequisite,omitempty"`
	IsActive       bool       `gorm:"not null" json:"isActive"`
	IsDeleted      bool       `gorm:"default:false;index" json:"isDeleted"`
	Questions      []Question `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Badge          *Badge     `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"badge,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

func (e *Exam) State() ExamState {
	switch {
	case e.IsDeleted:
		return ExamDeleted
	case e.IsActive:
		return ExamPublished
	default:
		return ExamUnpublished
	}
}

func (e *Exam) DisplayName() string {
	label := "仮試験"
	if e.ExamType == MainExam {
		label = "本試験"
	}
	return fmt.Sprintf("[%s] %s", label, e.Title)
}

type Question struct {
	BaseModel
	ExamID  uint     `gorm:"index;not null" json:"examId"`
	Text    string   `gorm:"type:text;not null" json:"text"`
	Choices []Choice `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:200;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect,omitempty"`
}

func (Choice) TableName() string {
	return "choices"
}

// Badge 与本试験一对一，is_active 跟随检定
type Badge struct {
	BaseModel
	ExamID   uint   `gorm:"uniqueIndex;not null" json:"examId"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Icon     string `gorm:"size:255" json:"icon"`
	IsActive bool   `gorm:"not null" json:"isActive"`
}

func (Badge) TableName() string {
	return "badges"
}

// BadgeNameFor 根据检定名生成徽章名
func BadgeNameFor(examTitle string) string {
	return examTitle + "合格バッジ"
}
