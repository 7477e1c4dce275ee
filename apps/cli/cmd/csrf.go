package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/abdul-hamid-achik/fetchclient/packages/document"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var csrfCmd = &cobra.Command{
	Use:   "csrf [page]",
	Short: "Print the CSRF token embedded in an application page",
	Long: `Fetch an HTML page and print the content of its csrf-token meta tag.

The page defaults to the root of --origin. The printed token can be passed
back with --csrf-token on state-changing requests.

Examples:
  fetchclient csrf --origin https://app.example.com
  fetchclient csrf /settings --origin https://app.example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: csrfCommand,
}

func csrfCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return reportSettingsError(cmd, err)
	}
	configureLogging(cmd, cfg)

	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	page := "/"
	if len(args) == 1 {
		page = args[0]
	}

	c := client.New(append(cfg.ClientOptions(), client.WithLogger(logrus.StandardLogger()))...)
	u, err := c.ResolveURL(page, nil)
	if err != nil {
		return reportError(formatter, ExitUsageError, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := c.Request(ctx, http.MethodGet, u, client.Headers{"Accept": "text/html"}, nil)
	if err != nil {
		return reportError(formatter, ExitUsageError, fmt.Errorf("%w (pass an absolute URL or set --origin)", err))
	}

	switch result.Kind() {
	case client.KindNetworkFailure:
		return reportError(formatter, ExitNetworkError, result.Err())
	case client.KindResponseFailure:
		return reportError(formatter, ExitResponseFailure, result.Err())
	}

	token, err := document.CSRFTokenFromResponse(result.Payload())
	if err != nil {
		if errors.Is(err, document.ErrCSRFTokenNotFound) {
			return reportError(formatter, ExitResponseFailure, fmt.Errorf("%s: %w", u, err))
		}
		return reportError(formatter, ExitResponseFailure, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
