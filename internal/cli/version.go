package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Build info, set through -ldflags at release time.
var (
	Version = "0.1.0"
	Commit  = "dev"
	Date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOut {
		json.NewEncoder(os.Stdout).Encode(map[string]string{
			"version": Version,
			"commit":  Commit,
			"date":    Date,
			"go":      runtime.Version(),
			"os":      runtime.GOOS,
			"arch":    runtime.GOARCH,
		})
		return
	}

	fmt.Printf("AuditKit %s\n", Version)
	fmt.Println()
	fmt.Printf("  Commit:  %s\n", Commit)
	fmt.Printf("  Built:   %s\n", Date)
	fmt.Printf("  Go:      %s\n", runtime.Version())
	fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  DB:      %s\n", GetDBPath())
}
