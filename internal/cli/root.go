// Package cli implements prismctl, the command line companion to the deal
// desk API: it recalculates draft files, works out agent splits and submits
// drafts.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prism-talent/deal-desk/internal/cli/formatter"
	"github.com/prism-talent/deal-desk/internal/draft"
)

// App holds what the commands need from the process.
type App struct {
	// Color enables styled output. Leave it off when stdout is not a terminal.
	Color  bool
	Getenv func(string) string
}

func (a *App) formatter() formatter.Formatter {
	return formatter.Formatter{Color: a.Color}
}

func (a *App) getenv(key string) string {
	if a.Getenv == nil {
		return ""
	}
	return a.Getenv(key)
}

// NewRootCmd creates the top-level "prismctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "prismctl",
		Short:         "Deal draft calculator and submission tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRecalcCmd(app),
		newSplitCmd(app),
		newSubmitCmd(app),
	)

	return root
}

func loadDraft(path string) (*draft.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}
	d := draft.New()
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parsing draft %s: %w", path, err)
	}
	if d.AgentNames == nil {
		d.AgentNames = map[string]string{}
	}
	return d, nil
}
