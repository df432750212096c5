package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gorm.io/gorm"

	"bookstore-api/internal/app"
	"bookstore-api/internal/core/config"
	"bookstore-api/internal/domain"
	"bookstore-api/internal/dto"
	"bookstore-api/internal/repo"
	"bookstore-api/internal/service"
)

// env 子命令共用：配置、日志、DB
type env struct {
	cfgPath string
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	cleanup func()
}

func (e *env) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.cfgPath)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log, e.cleanup = app.NewLogger(cfg)
	e.db, err = app.OpenDB(cfg, e.log)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	return nil
}

func (e *env) close(*cobra.Command, []string) {
	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if e.cleanup != nil {
		e.cleanup()
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:               "admin",
		Short:             "Bookstore maintenance commands",
		SilenceUsage:      true,
		PersistentPreRunE: e.open,
		PersistentPostRun: e.close,
	}
	root.PersistentFlags().StringVar(&e.cfgPath, "config", os.Getenv("CONFIG_PATH"), "config file path")

	root.AddCommand(newMigrateCmd(e), newSeedCmd(e), newUserCmd(e))
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Migrate(e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrate done")
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create default roles and users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = e.cfg.DB.SeedPassword
			}
			if password == "" {
				p, err := readPassword(cmd.OutOrStdout(), "Seed password: ")
				if err != nil {
					return err
				}
				password = p
			}
			if err := service.Seed(cmd.Context(), repo.NewUserRepo(e.db), password, e.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed done")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password for seeded users (defaults to db.seedPassword)")
	return cmd
}

func newUserCmd(e *env) *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Manage users"}

	var username, email, password, role string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user and assign a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := readPassword(cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			u, err := service.CreateUser(cmd.Context(), repo.NewUserRepo(e.db), username, email, password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) as %s\n", u.Username, u.ID, role)
			return nil
		},
	}
	add.Flags().StringVar(&username, "username", "", "login name")
	add.Flags().StringVar(&email, "email", "", "email, also the token subject")
	add.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	add.Flags().StringVar(&role, "role", domain.RoleCustomer, "Administrator or Customer")
	_ = add.MarkFlagRequired("username")
	_ = add.MarkFlagRequired("email")

	var offset, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List users with their roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, total, err := repo.NewUserRepo(e.db).WithContext(cmd.Context()).List(offset, limit)
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), users, total)
		},
	}
	list.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	list.Flags().IntVar(&limit, "limit", 20, "max rows")

	user.AddCommand(add, list)
	return user
}

func printUsers(w io.Writer, users []domain.User, total int64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLES")
	for i := range users {
		u := dto.UserFromEntity(&users[i])
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, strings.Join(u.Roles, ","))
	}
	fmt.Fprintf(tw, "total: %d\n", total)
	return tw.Flush()
}

func readPassword(w io.Writer, prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("password required: pass --password or run in a terminal")
	}
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
