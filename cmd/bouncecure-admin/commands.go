package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bouncecure/config"
	"bouncecure/internal/auth"
	"bouncecure/internal/database"
	"bouncecure/internal/directory"
	"bouncecure/internal/domain"
	"bouncecure/internal/logger"
	"bouncecure/internal/repository"
	"bouncecure/internal/service"
)

// openDB loads config from the environment and connects to the store.
func openDB() (*config.Config, *gorm.DB, *zap.Logger, error) {
	cfg := config.Load()
	log := logger.New(cfg.Log)
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, log, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, _, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func createOperatorCmd() *cobra.Command {
	var email, password, name, role string
	cmd := &cobra.Command{
		Use:   "create-operator",
		Short: "Create a dashboard operator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, log, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()
			svc := service.NewAuthService(&cfg.JWT, repository.NewUserRepository(db), auth.NewMemoryTokenStore(), log)
			u, err := svc.CreateOperator(cmd.Context(), email, password, name, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created operator %d <%s> role=%s\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "operator email (required)")
	cmd.Flags().StringVar(&password, "password", "", "operator password, at least 8 characters (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", domain.RoleAdmin, "ADMIN or VIEWER")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func listPaymentsCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list-payments",
		Short: "Print payment records with normalized amounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, log, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()
			svc := service.NewDirectoryService(repository.NewPaymentRepository(db), directory.NewNormalizer(cfg.Display), log)
			res, err := svc.List(cmd.Context(), service.ListQuery{Search: search})
			if err != nil {
				return err
			}
			return printPayments(cmd.OutOrStdout(), res.Items)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive filter over name, email, plan, status and ids")
	return cmd
}

func printPayments(out io.Writer, items []directory.PaymentView) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tNAME\tEMAIL\tPLAN\tAMOUNT\tSTATUS")
	for _, v := range items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.UserID, v.Name, v.Email, v.PlanName, v.Display.AmountLabel, v.Status)
	}
	fmt.Fprintf(w, "\n%d record(s)\n", len(items))
	return w.Flush()
}
