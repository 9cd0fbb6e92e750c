package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Models 参与自动迁移的全部模型，顺序即建表顺序
var Models = []interface{}{
	&model.User{},
	&model.SiteConstant{},
	&model.Course{},
	&model.TrainingModule{},
	&model.TrainingExample{},
	&model.TrainingExampleChoice{},
	&model.Exam{},
	&model.Question{},
	&model.Choice{},
	&model.Badge{},
	&model.UserExamStatus{},
	&model.ExamResult{},
	&model.UserModuleProgress{},
	&model.News{},
	&model.Mylist{},
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Tokyo",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "engageup.db"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Database connection established (%s)", cfg.Driver)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	log.Println("Database migration completed")
	return nil
}

// SeedConstant 常量表为空时写入默认的公司代码与邮箱域名
func SeedConstant(db *gorm.DB, defaults config.ProvisioningConfig) error {
	var count int64
	if err := db.Model(&model.SiteConstant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&model.SiteConstant{
		CompanyCode: defaults.CompanyCode,
		Address:     defaults.Address,
	}).Error
}
