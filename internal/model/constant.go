package model

// SiteConstant 全站常量（仅一行），账号批量生成时用来拼接邮箱
type SiteConstant struct {
	BaseModel
	CompanyCode string `gorm:"size:20;default:'com'" json:"companyCode"`
	Address     string `gorm:"size:20;default:'gmail.com'" json:"address"`
}

func (SiteConstant) TableName() string {
	return "site_constants"
}
