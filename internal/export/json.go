package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/response"
)

type jsonExport struct {
	Framework  content.Framework `json:"framework"`
	ExportDate string            `json:"exportDate"`
	Responses  response.State    `json:"responses"`
}

// WriteJSON writes the framework with its responses. Only responses for the
// framework's own subsections are included; entries for other frameworks or
// deleted subsections are filtered out.
func WriteJSON(w io.Writer, fw content.Framework, state response.State) error {
	filtered := response.State{}
	for _, id := range fw.SubSectionIDs() {
		if sub, ok := state[id]; ok && len(sub) > 0 {
			filtered[id] = sub
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(jsonExport{
		Framework:  fw,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Responses:  filtered,
	})
	if err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}
