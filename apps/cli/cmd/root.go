package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fetchclient/packages/core/config"
	"github.com/abdul-hamid-achik/fetchclient/packages/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag      string
	originFlag      string
	credentialsFlag string
	csrfTokenFlag   string
	headerFlags     []string
	timeoutFlag     string
	proxyFlag       string
	insecureFlag    bool
	outputFlag      string
	noColorFlag     bool
	verboseFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "fetchclient",
	Short: "Call JSON APIs and see exactly how each call ended.",
	Long: `fetchclient issues HTTP requests against a JSON API and reports each
outcome as one of three shapes: a success payload, a failing response
from the server, or a network failure where no response arrived.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode reports err on stderr unless it was already printed and maps it
// to a process exit code.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", getEnvString("FETCHCLIENT_CONFIG", ""), "Path to config file (env: FETCHCLIENT_CONFIG)")
	flags.StringVar(&originFlag, "origin", getEnvString("FETCHCLIENT_ORIGIN", ""), "Application origin, e.g. https://app.example.com (env: FETCHCLIENT_ORIGIN)")
	flags.StringVar(&credentialsFlag, "credentials", getEnvString("FETCHCLIENT_CREDENTIALS", ""), "Credentials policy: same-origin, omit, include (env: FETCHCLIENT_CREDENTIALS)")
	flags.StringVar(&csrfTokenFlag, "csrf-token", getEnvString("FETCHCLIENT_CSRF_TOKEN", ""), "CSRF token for POST, PUT and DELETE (env: FETCHCLIENT_CSRF_TOKEN)")
	flags.StringArrayVarP(&headerFlags, "header", "H", nil, "Extra request header 'Name: value' (repeatable)")
	flags.StringVar(&timeoutFlag, "timeout", getEnvString("FETCHCLIENT_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m); unset means none (env: FETCHCLIENT_TIMEOUT)")
	flags.StringVar(&proxyFlag, "proxy", getEnvString("FETCHCLIENT_PROXY", ""), "Proxy URL for HTTP requests (env: FETCHCLIENT_PROXY)")
	flags.BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("FETCHCLIENT_INSECURE", false), "Disable SSL certificate validation (env: FETCHCLIENT_INSECURE)")
	flags.StringVarP(&outputFlag, "output", "o", getEnvString("FETCHCLIENT_OUTPUT", ""), "Output format: console, json (env: FETCHCLIENT_OUTPUT)")
	flags.BoolVar(&noColorFlag, "no-color", getEnvBool("FETCHCLIENT_NO_COLOR", false), "Disable colored output (env: FETCHCLIENT_NO_COLOR)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("FETCHCLIENT_VERBOSE", false), "Verbose output (env: FETCHCLIENT_VERBOSE)")

	rootCmd.AddCommand(newRequestCmd("GET"))
	rootCmd.AddCommand(newRequestCmd("POST"))
	rootCmd.AddCommand(newRequestCmd("PUT"))
	rootCmd.AddCommand(newRequestCmd("DELETE"))
	rootCmd.AddCommand(csrfCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings loads the config file and applies flag overrides on top.
func loadSettings() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}

	overrides := &config.Config{
		Origin:      originFlag,
		Credentials: credentialsFlag,
		CSRFToken:   csrfTokenFlag,
		Proxy:       proxyFlag,
		Output:      outputFlag,
	}
	if insecureFlag {
		overrides.ValidateSSL = config.BoolPtr(false)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	if verboseFlag {
		overrides.Verbose = config.BoolPtr(true)
	}

	cfg = cfg.Merge(overrides)

	// Merge only takes positive timeouts, so an explicit 0 is applied here
	// to clear one set in the config file.
	if timeoutFlag != "" {
		ms, err := parseTimeout(timeoutFlag)
		if err != nil {
			return nil, err
		}
		cfg.Timeout = ms
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newFormatter builds the output formatter for cfg on the command's streams.
func newFormatter(cmd *cobra.Command, cfg *config.Config) (output.Formatter, error) {
	return output.New(cfg.Output,
		output.WithWriter(cmd.OutOrStdout()),
		output.WithErrorWriter(cmd.ErrOrStderr()),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)
}

// reportError renders err through f and returns code with nothing left
// for exitCode to print.
func reportError(f output.Formatter, code int, err error) error {
	f.FormatError(err)
	return withExitCode(code, nil)
}

// reportSettingsError reports a failure to load settings, honoring the
// --output flag when it names a known format.
func reportSettingsError(cmd *cobra.Command, err error) error {
	f, ferr := output.New(outputFlag,
		output.WithWriter(cmd.OutOrStdout()),
		output.WithErrorWriter(cmd.ErrOrStderr()),
		output.WithNoColor(noColorFlag),
	)
	if ferr != nil {
		return withExitCode(ExitConfigError, err)
	}
	return reportError(f, ExitConfigError, err)
}

// parseTimeout converts a duration flag to milliseconds. Zero disables the
// timeout; anything else must be at least 1ms.
func parseTimeout(raw string) (int, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	if d < 0 || (d > 0 && d < time.Millisecond) {
		return 0, fmt.Errorf("invalid timeout %q: must be 0 or at least 1ms", raw)
	}
	return int(d.Milliseconds()), nil
}

// configureLogging points the standard logrus logger at stderr.
func configureLogging(cmd *cobra.Command, cfg *config.Config) {
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors:    cfg.GetNoColor(),
		DisableTimestamp: true,
	})
	if cfg.GetVerbose() {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// parseHeaders parses 'Name: value' pairs.
func parseHeaders(defs []string) (map[string]string, error) {
	headers := make(map[string]string, len(defs))
	for _, def := range defs {
		name, value, found := strings.Cut(def, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", def)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// parsePairs parses key=value pairs.
func parsePairs(defs []string) (map[string]string, error) {
	pairs := make(map[string]string, len(defs))
	for _, def := range defs {
		key, value, found := strings.Cut(def, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", def)
		}
		pairs[key] = value
	}
	return pairs, nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return val == "yes"
		}
		return b
	}
	return defaultVal
}
