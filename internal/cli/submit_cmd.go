package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prism-talent/deal-desk/internal/draft"
	"github.com/prism-talent/deal-desk/internal/logging"
	"github.com/prism-talent/deal-desk/internal/submit"
)

// readAttachment reads "path" or "path=description".
func readAttachment(arg string) (draft.Attachment, error) {
	path, desc, _ := strings.Cut(arg, "=")
	data, err := os.ReadFile(path)
	if err != nil {
		return draft.Attachment{}, fmt.Errorf("reading attachment: %w", err)
	}
	return draft.Attachment{
		FileName:    filepath.Base(path),
		Data:        data,
		Description: desc,
	}, nil
}

func newSubmitCmd(app *App) *cobra.Command {
	var (
		apiURL   string
		token    string
		attach   []string
		uploader uint
	)

	cmd := &cobra.Command{
		Use:   "submit DRAFT",
		Short: "Create the deal, upload attachments and save schedule splits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL == "" {
				apiURL = app.getenv("PRISM_API_URL")
			}
			if token == "" {
				token = app.getenv("PRISM_TOKEN")
			}
			if apiURL == "" {
				return errors.New("api url is required (--api or PRISM_API_URL)")
			}

			d, err := loadDraft(args[0])
			if err != nil {
				return err
			}
			for _, arg := range attach {
				a, err := readAttachment(arg)
				if err != nil {
					return err
				}
				d.AddAttachment(a)
			}

			client := submit.New(apiURL, token)
			client.UploaderID = uploader
			client.Logger = logging.New(cmd.ErrOrStderr(), slog.LevelWarn)

			res, err := client.Submit(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.formatter().Submission(res))
			if n := res.Failed(); n > 0 {
				return fmt.Errorf("%d follow-up requests failed", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (default $PRISM_API_URL)")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (default $PRISM_TOKEN)")
	cmd.Flags().StringArrayVar(&attach, "attach", nil, "file to upload, as path or path=description")
	cmd.Flags().UintVar(&uploader, "uploader", 0, "agent id recorded as uploader")
	return cmd
}
