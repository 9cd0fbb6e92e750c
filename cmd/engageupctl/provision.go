package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/spf13/cobra"
)

type rangeFlags struct {
	start int
	count int
}

func (f *rangeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.start, "start", 1, "起始编号")
	cmd.Flags().IntVar(&f.count, "count", 1, fmt.Sprintf("生成数量（1-%d）", service.MaxProvisionCount))
}

func newProvisionCmd(open func() (*env, error)) *cobra.Command {
	var (
		r    rangeFlags
		rank string
	)
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "批量生成账号，初始密码只输出一次",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !model.UserRank(rank).Valid() {
				return fmt.Errorf("invalid rank %q", rank)
			}
			e, err := open()
			if err != nil {
				return err
			}
			result, err := e.accountService().Provision(cmd.Context(), r.start, r.count, model.UserRank(rank))
			var collision *service.CollisionError
			if errors.As(err, &collision) {
				return fmt.Errorf("already exist: %s", strings.Join(collision.Usernames, ", "))
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tEMAIL\tPASSWORD")
			for _, a := range result.Accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Username, a.Email, a.Password)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(result.NotifyFailures) > 0 {
				cmd.PrintErrf("notification failed: %s\n", strings.Join(result.NotifyFailures, ", "))
			}
			return nil
		},
	}
	r.bind(cmd)
	cmd.Flags().StringVar(&rank, "rank", string(model.Staff), "权限（administer / moderator / staff / visitor）")
	return cmd
}

func newCheckCmd(open func() (*env, error)) *cobra.Command {
	var r rangeFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "检查待生成的账号是否与已有用户冲突",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			dups, err := e.accountService().CheckDuplicates(cmd.Context(), r.start, r.count)
			if err != nil {
				return err
			}
			if len(dups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no collisions")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "collisions: %s\n", strings.Join(dups, ", "))
			return nil
		},
	}
	r.bind(cmd)
	return cmd
}
