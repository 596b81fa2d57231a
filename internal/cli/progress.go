package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/progress"
	"github.com/n0roo/audit-kit/internal/response"
)

var progressCmd = &cobra.Command{
	Use:   "progress [framework]",
	Short: "Show answered/total progress",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProgress,
}

var summaryCmd = &cobra.Command{
	Use:   "summary <framework>",
	Short: "Show the compliance result breakdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	state := s.responses.State()

	if len(args) == 1 {
		fw, err := s.content.Framework(args[0])
		if err != nil {
			return err
		}
		c := progress.Framework(fw, state)
		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"id": fw.ID, "answered": c.Answered, "total": c.Total, "percent": c.Percent(),
			})
		}
		fmt.Printf("%s: %d/%d (%.0f%%)\n", fw.Title, c.Answered, c.Total, c.Percent())
		return nil
	}

	frameworks := s.content.Frameworks()
	counts := progress.AllFrameworks(frameworks, state)
	if jsonOut {
		out := map[string]map[string]any{}
		for _, fw := range frameworks {
			c := counts[fw.ID]
			out[fw.ID] = map[string]any{"answered": c.Answered, "total": c.Total, "percent": c.Percent()}
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}
	for _, fw := range frameworks {
		c := counts[fw.ID]
		fmt.Printf("%-12s %d/%d (%.0f%%)\n", fw.ID, c.Answered, c.Total, c.Percent())
	}
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := s.content.Framework(args[0])
	if err != nil {
		return err
	}
	buckets := progress.Summary(fw, s.responses.State())

	if jsonOut {
		out := map[string]int{}
		for status, n := range buckets {
			out[string(status)] = n
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	total := 0
	for _, n := range buckets {
		total += n
	}
	fmt.Printf("%s (%d questions)\n", fw.Title, total)
	for _, status := range response.ResultStatuses() {
		n := buckets[status]
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		fmt.Printf("  %-20s %4d (%.0f%%)\n", status, n, pct)
	}
	return nil
}
