package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sahilchouksey/skills-lab/app"
	"github.com/sahilchouksey/skills-lab/config"
	"github.com/sahilchouksey/skills-lab/database"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd(bootstrap).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime is what every command works with. close releases it.
type runtime struct {
	env   *config.EnvironmentVariable
	db    *gorm.DB
	log   *logger.Logger
	close func()
}

// bootstrapFunc opens configuration, logger and a migrated database
type bootstrapFunc func() (*runtime, error)

func bootstrap() (*runtime, error) {
	env, store, log, err := app.Bootstrap()
	if err != nil {
		return nil, err
	}
	return &runtime{
		env: env,
		db:  store.DB(),
		log: log,
		close: func() {
			store.Close()
			log.Sync()
		},
	}, nil
}

func newRootCmd(boot bootstrapFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "skillsctl",
		Short:         "Administration tool for the skills lab API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd(boot))
	root.AddCommand(newUsersCmd(boot))
	root.AddCommand(newNewsCmd(boot))
	return root
}

func newMigrateCmd(boot bootstrapFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every database table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// bootstrap migrates on open
			rt, err := boot()
			if err != nil {
				return err
			}
			defer rt.close()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(database.Models()))
			return nil
		},
	}
}

func newUsersCmd(boot bootstrapFunc) *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Inspect and approve profiles"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List profiles, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := boot()
			if err != nil {
				return err
			}
			defer rt.close()

			profiles := services.NewProfileService(rt.db, rt.env.IsAdminEmail, rt.log)
			found, err := profiles.ListUsers(context.Background(), model.UserStatus(status))
			if err != nil {
				return err
			}
			if len(found) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no users")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tSTATUS")
			for _, u := range found {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, u.Status)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status: pending|approved|rejected")

	users.AddCommand(list,
		newSetStatusCmd(boot, "approve", model.UserStatusApproved),
		newSetStatusCmd(boot, "reject", model.UserStatusRejected),
	)
	return users
}

func newSetStatusCmd(boot bootstrapFunc, verb string, status model.UserStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <email>",
		Short: fmt.Sprintf("Set a profile's status to %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := boot()
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := context.Background()
			profiles := services.NewProfileService(rt.db, rt.env.IsAdminEmail, rt.log)
			user, err := profiles.GetByEmail(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			updated, err := profiles.UpdateStatus(ctx, services.StatusChange{
				UserID:    user.ID,
				Status:    status,
				IPAddress: "skillsctl",
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Email, updated.Status)
			return nil
		},
	}
}

func newNewsCmd(boot bootstrapFunc) *cobra.Command {
	newsCmd := &cobra.Command{Use: "news", Short: "News feed maintenance"}

	newsCmd.AddCommand(&cobra.Command{
		Use:   "prefetch",
		Short: "Refresh every cached (region, category) news feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := boot()
			if err != nil {
				return err
			}
			defer rt.close()

			redisCache := app.ConnectRedis(rt.env, rt.log)
			if redisCache == nil {
				return fmt.Errorf("redis is required to prefetch news")
			}
			defer redisCache.Close()

			refreshed, err := app.NewNewsService(rt.env, redisCache, rt.log).Prefetch(cmd.Context())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "refreshed %d feeds\n", refreshed)
			return err
		},
	})
	return newsCmd
}
