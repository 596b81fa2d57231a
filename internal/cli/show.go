package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/icon"
	"github.com/n0roo/audit-kit/internal/progress"
)

var showCmd = &cobra.Command{
	Use:   "show <framework>",
	Short: "Show a framework's sections and subsections",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := s.content.Framework(args[0])
	if err != nil {
		return err
	}
	state := s.responses.State()

	if jsonOut {
		type subItem struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Answered int    `json:"answered"`
			Total    int    `json:"total"`
		}
		type secItem struct {
			ID          string    `json:"id"`
			Title       string    `json:"title"`
			Answered    int       `json:"answered"`
			Total       int       `json:"total"`
			SubSections []subItem `json:"subSections"`
		}
		out := struct {
			ID       string    `json:"id"`
			Title    string    `json:"title"`
			Answered int       `json:"answered"`
			Total    int       `json:"total"`
			Sections []secItem `json:"sections"`
		}{ID: fw.ID, Title: fw.Title}

		total := progress.Framework(fw, state)
		out.Answered, out.Total = total.Answered, total.Total
		for _, sec := range fw.Sections {
			sc := progress.Section(sec, state)
			item := secItem{ID: sec.ID, Title: sec.Title, Answered: sc.Answered, Total: sc.Total}
			for _, sub := range sec.SubSections {
				c := progress.SubSection(sub, state)
				item.SubSections = append(item.SubSections, subItem{sub.ID, sub.Title, c.Answered, c.Total})
			}
			out.Sections = append(out.Sections, item)
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	total := progress.Framework(fw, state)
	fmt.Printf("%s %s  %d/%d (%.0f%%)\n", icon.Render(fw.Icon), fw.Title, total.Answered, total.Total, total.Percent())
	if fw.Description != "" && verbose {
		fmt.Printf("  %s\n", fw.Description)
	}
	for _, sec := range fw.Sections {
		sc := progress.Section(sec, state)
		fmt.Printf("\n%s %s  %d/%d\n", icon.Render(sec.Icon), sec.Title, sc.Answered, sc.Total)
		for _, sub := range sec.SubSections {
			c := progress.SubSection(sub, state)
			fmt.Printf("  %-28s %-36s %d/%d\n", sub.ID, sub.Title, c.Answered, c.Total)
		}
	}
	return nil
}
