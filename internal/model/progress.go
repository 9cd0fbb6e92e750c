package model

// UserModuleProgress 视频播放位置与完成标记。IsCompleted 只增不减
type UserModuleProgress struct {
	BaseModel
	UserID       uint            `gorm:"uniqueIndex:idx_user_module;not null" json:"userId"`
	ModuleID     uint            `gorm:"uniqueIndex:idx_user_module;not null" json:"moduleId"`
	Module       *TrainingModule `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"module,omitempty"`
	LastPosition float64         `gorm:"default:0" json:"lastPosition"`
	IsCompleted  bool            `gorm:"default:false" json:"isCompleted"`
}

func (UserModuleProgress) TableName() string {
	return "user_module_progresses"
}
