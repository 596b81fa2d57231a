package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/icon"
	"github.com/n0roo/audit-kit/internal/progress"
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List audit frameworks",
	Long:  `Lists every framework with its overall progress. Frameworks without content are marked "coming soon".`,
	RunE:  runFrameworks,
}

func init() {
	rootCmd.AddCommand(frameworksCmd)
}

func runFrameworks(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	frameworks := s.content.Frameworks()
	counts := progress.AllFrameworks(frameworks, s.responses.State())

	if jsonOut {
		type item struct {
			ID       string  `json:"id"`
			Title    string  `json:"title"`
			Answered int     `json:"answered"`
			Total    int     `json:"total"`
			Percent  float64 `json:"percent"`
		}
		items := make([]item, 0, len(frameworks))
		for _, fw := range frameworks {
			c := counts[fw.ID]
			items = append(items, item{fw.ID, fw.Title, c.Answered, c.Total, c.Percent()})
		}
		return json.NewEncoder(os.Stdout).Encode(items)
	}

	for _, fw := range frameworks {
		c := counts[fw.ID]
		marker := icon.Render(fw.Icon)
		if c.Total == 0 {
			fmt.Printf("%s %-12s %s (coming soon)\n", marker, fw.ID, fw.Title)
			continue
		}
		fmt.Printf("%s %-12s %s  %d/%d (%.0f%%)\n", marker, fw.ID, fw.Title, c.Answered, c.Total, c.Percent())
	}
	return nil
}
