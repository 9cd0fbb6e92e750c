package model

import (
	"time"
)

// swagger:model
// 业务层使用 is_active / is_deleted 标记做软删除，所以这里不带 gorm.DeletedAt
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
