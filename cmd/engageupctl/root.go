package main

import (
	"fmt"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/notify"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/pkg/database"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env 命令运行所需的配置和数据库，测试中替换为内存库
type env struct {
	cfg *config.Config
	db  *gorm.DB
}

type envLoader func(configDir string) (*env, error)

func defaultEnv(configDir string) (*env, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	logger.InitLogger(cfg)
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db}, nil
}

func (e *env) accountService() *service.AccountService {
	return service.NewAccountService(
		e.db,
		repository.NewUserRepository(e.db),
		repository.NewConstantRepository(e.db),
		notify.New(e.cfg.Mail),
		e.cfg.Provisioning,
	)
}

func newRootCmd(load envLoader) *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "engageupctl",
		Short:         "EngageUp 运维命令行",
		Long:          "EngageUp 运维命令行：数据库迁移、站点常量初始化、批量生成账号。",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "configs", "配置文件目录")

	open := func() (*env, error) {
		return load(configDir)
	}

	root.AddCommand(
		newMigrateCmd(open),
		newSeedConstantCmd(open),
		newProvisionCmd(open),
		newCheckCmd(open),
	)
	return root
}

func newMigrateCmd(open func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移并写入默认站点常量",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			if err := database.Migrate(e.db); err != nil {
				return err
			}
			if err := database.SeedConstant(e.db, e.cfg.Provisioning); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		},
	}
}

func newSeedConstantCmd(open func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-constant",
		Short: "站点常量为空时写入配置中的公司代码和邮箱域名",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			if err := database.SeedConstant(e.db, e.cfg.Provisioning); err != nil {
				return err
			}
			c, err := e.accountService().GetConstant(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "company_code=%s address=%s\n", c.CompanyCode, c.Address)
			return nil
		},
	}
}
