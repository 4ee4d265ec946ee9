package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders a simulation result into a specific output format
type Formatter interface {
	Name() string
	Format(result *domain.SimulationResult) ([]byte, error)
}

// FormatterFunc adapts a plain function into a Formatter
type FormatterFunc struct {
	ID string
	F  func(result *domain.SimulationResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.SimulationResult) ([]byte, error) {
	return f.F(result)
}

var formatters = map[string]Formatter{
	"console-lite": ConsoleFormatter{},
	"console":      ConsoleVerboseFormatter{},
	"csv":          CSVScheduleFormatter{},
	"json":         JSONFormatter{Pretty: true},
	"html":         HTMLFormatter{},
	"xlsx":         XLSXFormatter{},
	"pdf":          PDFFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"table":           "console",
	"lite":            "console-lite",
	"summary":         "console-lite",
	"excel":           "xlsx",
}

// binaryFormats cannot be written to a terminal
var binaryFormats = map[string]bool{
	"xlsx": true,
	"pdf":  true,
}

// NormalizeFormatName lowercases a format name and resolves aliases
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[n]; ok {
		return target
	}
	return n
}

// GetFormatterByName returns the formatter registered under name or alias, or nil
func GetFormatterByName(name string) Formatter {
	return formatters[NormalizeFormatName(name)]
}

// IsBinaryFormat reports whether the named format produces binary output
func IsBinaryFormat(name string) bool {
	return binaryFormats[NormalizeFormatName(name)]
}

// AvailableFormatterNames lists registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases, sorted
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteReport renders result in the named format into w
func WriteReport(w io.Writer, result *domain.SimulationResult, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// FormatCurrency formats an amount in reais, e.g. "R$ 1.234,56"
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	whole, frac, _ := strings.Cut(amount.Abs().StringFixed(2), ".")
	return sign + "R$ " + groupThousands(whole) + "," + frac
}

// FormatPercentage formats a ratio as a percentage, e.g. 0.275 -> "27,50%"
func FormatPercentage(ratio decimal.Decimal) string {
	return strings.Replace(ratio.Mul(decimal.NewFromInt(100)).StringFixed(2), ".", ",", 1) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
