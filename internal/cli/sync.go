package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/github"
	"github.com/n0roo/audit-kit/internal/sync"
)

var (
	syncToken string
	syncOwner string
	syncRepo  string
	syncForce bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync audit data with a GitHub repository",
	Long: `Pushes and pulls the full data set (frameworks and responses) as a single
JSON file in a GitHub repository. Last writer wins; a push against a stale
remote version fails and must be redone after a pull.`,
}

var syncSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Configure the GitHub repository",
	RunE:  runSyncSettings,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local data to the repository",
	RunE:  runSyncPush,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download remote data, replacing local data",
	RunE:  runSyncPull,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync configuration",
	RunE:  runSyncStatus,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncSettingsCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncStatusCmd)

	syncSettingsCmd.Flags().StringVar(&syncToken, "token", "", "GitHub personal access token")
	syncSettingsCmd.Flags().StringVar(&syncOwner, "owner", "", "repository owner")
	syncSettingsCmd.Flags().StringVar(&syncRepo, "repo", "", "repository name")
	syncPullCmd.Flags().BoolVar(&syncForce, "force", false, "skip confirmation")
}

func runSyncSettings(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	settings, err := sync.LoadSettings(s.db)
	if err != nil && !errors.Is(err, sync.ErrNotConfigured) {
		return err
	}

	if syncToken == "" && syncOwner == "" && syncRepo == "" {
		// Interactive: empty input keeps the current value
		if v := prompt(fmt.Sprintf("Token [%s]: ", mask(settings.Token))); v != "" {
			settings.Token = v
		}
		if v := prompt(fmt.Sprintf("Owner [%s]: ", settings.Owner)); v != "" {
			settings.Owner = v
		}
		if v := prompt(fmt.Sprintf("Repo [%s]: ", settings.Repo)); v != "" {
			settings.Repo = v
		}
	} else {
		if syncToken != "" {
			settings.Token = syncToken
		}
		if syncOwner != "" {
			settings.Owner = syncOwner
		}
		if syncRepo != "" {
			settings.Repo = syncRepo
		}
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := sync.SaveSettings(s.db, settings); err != nil {
		return err
	}
	fmt.Printf("✓ Sync target: %s/%s\n", settings.Owner, settings.Repo)
	fmt.Fprintln(os.Stderr, "Note: the token is stored in plaintext in the local database")
	return nil
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	svc := sync.NewService(s.db, s.content, s.responses)
	if err := svc.Push(context.Background()); err != nil {
		return syncHint(err)
	}
	fmt.Printf("✓ Pushed to %s\n", sync.RemotePath)
	return nil
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	gate := confirm
	if syncForce {
		gate = func(string) bool { return true }
	}

	svc := sync.NewService(s.db, s.content, s.responses)
	if err := svc.Pull(context.Background(), gate); err != nil {
		if errors.Is(err, sync.ErrCancelled) {
			fmt.Println("Cancelled")
			return nil
		}
		return syncHint(err)
	}
	fmt.Println("✓ Local data replaced from remote")
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	settings, err := sync.LoadSettings(s.db)
	configured := err == nil && settings.Validate() == nil

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"configured": configured,
			"owner":      settings.Owner,
			"repo":       settings.Repo,
			"path":       sync.RemotePath,
		})
	}

	if !configured {
		fmt.Println("Sync: not configured (run 'auditkit sync settings')")
		return nil
	}
	fmt.Printf("Sync: %s/%s (%s)\n", settings.Owner, settings.Repo, sync.RemotePath)
	fmt.Printf("Token: %s\n", mask(settings.Token))
	return nil
}

// syncHint attaches a recovery hint to the common API failures.
func syncHint(err error) error {
	switch {
	case errors.Is(err, github.ErrUnauthorized):
		return fmt.Errorf("%w\nCheck the token with 'auditkit sync settings'", err)
	case errors.Is(err, github.ErrNotFound):
		return fmt.Errorf("%w\nCheck owner/repo, or push first to create the remote file", err)
	case errors.Is(err, github.ErrConflict):
		return fmt.Errorf("%w\nThe remote changed since your last sync; pull first, then push again", err)
	}
	return err
}

func mask(token string) string {
	if token == "" {
		return "(unset)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****"
}
