package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/review-council/internal/app"
	"github.com/sevigo/review-council/internal/config"
	"github.com/sevigo/review-council/internal/logger"
	"github.com/sevigo/review-council/internal/persona"
	"github.com/sevigo/review-council/internal/review"
)

// Color definitions
var (
	titleColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
	errColor   = color.New(color.FgRed)
)

var (
	selectedPersonas []string
	quiet            bool
	pretty           bool
	outputPath       string
	noSave           bool
	dynDescription   string
	dynName          string
	dynFocus         string
)

// sampleCode is reviewed when no input file is given, so the tool can be
// exercised without any arguments.
const sampleCode = `
def process_user_input(user_input):
    # New function to process user data
    result = eval(user_input)  # Potential security issue
    return result

def calculate_total(items):
    total = 0
    for i in range(len(items)):  # Performance issue - inefficient loop
        total += items[i]
    return total

class DataProcessor:
    def process_data_with_long_function_name_that_does_too_many_things(self, data1, data2, data3, data4, data5, data6):
        # This function has too many parameters
        if data1:
            if data2:
                if data3:
                    if data4:
                        if data5:
                            # Deep nesting issue
                            return data1 + data2 + data3 + data4 + data5
        return 0
`

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Run all review personas concurrently over a code file",
	Long: `Run all registered review personas concurrently over a code file and print
the aggregated report.

Examples:
  review-council review main.go
  review-council review --personas "bug hunter" main.go
  review-council review --description "a performance-obsessed reviewer" --name "Perf Nerd" --focus "Hot paths" main.go`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringSliceVar(&selectedPersonas, "personas", nil, "Run only the named personas (case-insensitive)")
	reviewCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output, just show the report")
	reviewCmd.Flags().BoolVar(&pretty, "pretty", false, "Render the report for the terminal")
	reviewCmd.Flags().StringVarP(&outputPath, "output", "o", "review_report.md", "Path the report is written to")
	reviewCmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the report to a file")
	reviewCmd.Flags().StringVar(&dynDescription, "description", "", "Natural language description for a dynamic persona")
	reviewCmd.Flags().StringVar(&dynName, "name", "Custom Persona", "Name for the dynamic persona (only with --description)")
	reviewCmd.Flags().StringVar(&dynFocus, "focus", "Custom review focus", "Focus area for the dynamic persona")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg)

	appInstance, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	registry := appInstance.Registry
	if dynDescription != "" {
		if !quiet {
			dimColor.Printf("Generating a prompt template for %s using meta-prompting...\n", dynName)
		}
		dynPersona, err := persona.Describe(ctx, appInstance.Client, dynName, dynFocus, dynDescription)
		if err != nil {
			return err
		}
		if registry, err = registry.With(dynPersona); err != nil {
			return err
		}
	}
	if registry, err = registry.Select(selectedPersonas); err != nil {
		return err
	}
	appInstance.WithRegistry(registry)

	code, source, err := readCode(args)
	if err != nil {
		return err
	}
	if !quiet {
		titleColor.Println("🔍 Review Council - Multi-Persona Code Review")
		dimColor.Printf("   Target: %s\n", source)
		dimColor.Printf("   Personas: %d\n\n", registry.Len())
	}

	report, err := appInstance.Engine.Review(ctx, code)
	if err != nil {
		return err
	}

	rendered := review.RenderReport(report)
	if err := printReport(rendered); err != nil {
		return err
	}

	if !noSave {
		if err := os.WriteFile(outputPath, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		if !quiet {
			dimColor.Printf("💾 Review report saved to %s\n", outputPath)
		}
	}

	if report.Failed > 0 && !quiet {
		errColor.Printf("⚠️  %d of %d personas failed\n", report.Failed, report.TotalPersonas)
	}
	return nil
}

// readCode returns the code under review and a label for it: the given file,
// or the embedded sample when no file is passed.
func readCode(args []string) (string, string, error) {
	if len(args) == 0 {
		if !quiet {
			dimColor.Println("📝 No input file specified, using sample code...")
		}
		return sampleCode, "sample.py", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

func printReport(rendered string) error {
	if !pretty {
		fmt.Print(rendered)
		return nil
	}
	out, err := glamour.Render(rendered, "dark")
	if err != nil {
		// Fall back to the raw markdown rather than losing the report.
		fmt.Print(rendered)
		return nil
	}
	fmt.Print(out)
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel
	if quiet {
		level = slog.LevelError
	}
	return logger.New(level, cfg.LogFormat, os.Stderr)
}
