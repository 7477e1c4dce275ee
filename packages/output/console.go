package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if utf8.RuneCountInString(str) > maxLen {
		return string([]rune(str)[:maxLen]) + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
}

func newConsoleFormatter(o options) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:    o.writer,
		errWriter: o.errWriter,
		verbose:   o.verbose,
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}
	if f.errWriter == nil {
		f.errWriter = os.Stderr
	}
	if o.noColor {
		color.NoColor = true
	}
	return f
}

func (f *ConsoleFormatter) FormatExchange(ex *Exchange) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	r := ex.Result
	request := bold(ex.Method) + " " + ex.URL
	elapsed := cyan(fmt.Sprintf("(%dms)", ex.Duration.Milliseconds()))

	switch r.Kind() {
	case client.KindSuccess:
		fmt.Fprintf(f.writer, "%s %s %s\n", green("✓"), request, elapsed)
		if r.Payload() == nil {
			fmt.Fprintf(f.writer, "  %s\n", yellow("(no payload)"))
		} else {
			f.writeJSON(r.Payload())
		}

	case client.KindResponseFailure:
		respErr := r.ResponseError()
		fmt.Fprintf(f.writer, "%s %s %s %s\n", red("✗"), request, red(respErr.Response().Status), elapsed)
		if f.verbose {
			fmt.Fprintf(f.writer, "  %s\n", respErr.Error())
		}
		body, isJSON := failureBody(respErr)
		if isJSON {
			f.writeJSON(body)
		} else if text, _ := body.(string); text != "" {
			fmt.Fprintf(f.writer, "  %s %s\n", yellow("body is not JSON:"), formatValue(text, 200))
		}

	case client.KindNetworkFailure:
		fmt.Fprintf(f.writer, "%s %s %s\n", red("✗"), request, red(fmt.Sprintf("(network error: %s)", r.NetworkError().Message)))
	}

	if len(ex.Captures) > 0 {
		fmt.Fprintf(f.writer, "  Captures:\n")
		for _, name := range sortedKeys(ex.Captures) {
			fmt.Fprintf(f.writer, "    %s = %s\n", name, formatValue(ex.Captures[name], 100))
		}
	}

	if len(ex.SchemaViolations) > 0 {
		fmt.Fprintf(f.writer, "  %s\n", red("Schema violations:"))
		for _, v := range ex.SchemaViolations {
			fmt.Fprintf(f.writer, "    %s %s\n", red("→"), v)
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.errWriter, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) writeJSON(v any) {
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		fmt.Fprintf(f.writer, "  %v\n", v)
		return
	}
	fmt.Fprintf(f.writer, "  %s\n", data)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
