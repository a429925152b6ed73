// Command resumefit scores resumes against a job description from the shell.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"resumefit/internal/shared/telemetry"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "resumefit",
		Short:         "Score resumes against a job description",
		Long:          "resumefit computes a 15-95 compatibility score, keyword and skill gaps, and improvement suggestions for resumes (PDF, DOCX or TXT) against a job description.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !verbose {
				telemetry.SetLogger(nil)
				return nil
			}
			telemetry.SetLogger(stderrLogger(cmd.ErrOrStderr()))
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline events to stderr")
	root.AddCommand(newAnalyzeCmd(), newCompareCmd())
	return root
}

// stderrLogger is a debug-level console logger; writes are serialized since
// resumes are analyzed concurrently.
func stderrLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
