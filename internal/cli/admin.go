package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/admin"
	"github.com/n0roo/audit-kit/internal/config"
	"github.com/n0roo/audit-kit/internal/db"
)

var adminSecret string

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Content administration",
	Long: `Edits audit content (frameworks, sections, subsections, questions).

All editing commands require an active admin session; log in with the
shared secret configured through ` + config.AdminSecretEnv + `.`,
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Start an admin session",
	RunE:  runAdminLogin,
}

var adminLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the admin session",
	RunE:  runAdminLogout,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminLoginCmd)
	adminCmd.AddCommand(adminLogoutCmd)

	adminLoginCmd.Flags().StringVar(&adminSecret, "secret", "", "admin secret (prompted when omitted)")
}

func newGate(database *db.DB) *admin.Gate {
	return admin.NewGate(database, config.AdminSecret())
}

// requireAdmin opens the stores and checks the session in one step; every
// content editing command starts here.
func requireAdmin() (*stores, func(), error) {
	s, cleanup, err := openStores()
	if err != nil {
		return nil, nil, err
	}
	if err := newGate(s.db).Require(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}

func runAdminLogin(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	secret := adminSecret
	if secret == "" {
		secret = prompt("Admin secret: ")
	}

	if err := newGate(s.db).Login(secret); err != nil {
		return err
	}
	fmt.Println("✓ Admin session started")
	return nil
}

func runAdminLogout(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := newGate(s.db).Logout(); err != nil {
		return err
	}
	fmt.Println("✓ Admin session ended")
	return nil
}
