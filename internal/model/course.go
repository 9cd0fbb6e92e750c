package model

// Course 讲座。IsActive 兼作软删除标记
type Course struct {
	BaseModel
	Subject     string           `gorm:"size:50;not null" json:"subject"`
	CourseCount int              `gorm:"default:0" json:"courseCount"`
	IsActive    bool             `gorm:"index" json:"isActive"`
	Modules     []TrainingModule `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type TrainingModule struct {
	BaseModel
	CourseID      uint              `gorm:"index;not null" json:"courseId"`
	Title         string            `gorm:"size:200;not null" json:"title"`
	ContentText   string            `gorm:"type:text" json:"contentText"`
	VideoPath     string            `gorm:"size:255" json:"videoPath"`
	DocumentPath  string            `gorm:"size:255" json:"documentPath"`
	EstimatedTime int               `gorm:"default:0" json:"estimatedTime"` // 分钟
	IsActive      bool              `gorm:"index" json:"isActive"`
	Order         int               `gorm:"column:sort_order;default:0" json:"order"`
	Examples      []TrainingExample `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"examples,omitempty"`
}

func (TrainingModule) TableName() string {
	return "training_modules"
}

// TrainingExample 练习题，固定4个选项且只有一个正确
type TrainingExample struct {
	BaseModel
	ModuleID    uint                    `gorm:"index;not null" json:"moduleId"`
	Text        string                  `gorm:"type:text;not null" json:"text"`
	Explanation string                  `gorm:"type:text" json:"explanation"`
	Choices     []TrainingExampleChoice `gorm:"foreignKey:ExampleID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

func (TrainingExample) TableName() string {
	return "training_examples"
}

type TrainingExampleChoice struct {
	BaseModel
	ExampleID uint   `gorm:"index;not null" json:"exampleId"`
	Text      string `gorm:"size:200;not null" json:"text"`
	IsCorrect bool   `gorm:"default:false" json:"isCorrect"`
}

func (TrainingExampleChoice) TableName() string {
	return "training_example_choices"
}

const ExampleChoiceCount = 4
