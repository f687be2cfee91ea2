package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godilite/ta-grader/internal/report"
	"github.com/godilite/ta-grader/internal/repository"
	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/godilite/ta-grader/internal/service"
)

const (
	formatPDF = "pdf"
	formatCSV = "csv"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "tagrader",
		Short:        "Rubric grading helper",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	logger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}

	root.AddCommand(newParseCmd(), newRubricCmd(), newReportCmd(logger))
	return root
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a rubric text file into JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rubric.ParseText(string(data)))
		},
	}
}

func newRubricCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rubric <csv>",
		Short: "Print the prompt text for a rubric CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sheet, err := rubric.ParseCSV(f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sheet.PromptText())
			return err
		},
	}
}

func newReportCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "report [flags] <file...>",
		Short: "Build the confidence report from per-student rubric text files",
		Long: `Each file holds one student's rubric text; the student is the file's base name.
Files are appended in argument order and the report is written as PDF or CSV.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var render func(io.Writer, []service.ReportRow) error
			switch format {
			case formatPDF:
				render = report.WritePDF
				if out == "" {
					out = report.PDFFileName
				}
			case formatCSV:
				render = report.WriteCSV
				if out == "" {
					out = report.CSVFileName
				}
			default:
				return fmt.Errorf("unknown format %q (want pdf or csv)", format)
			}

			rows, err := buildRows(cmd, args, logger())
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := render(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default "+report.PDFFileName+" or "+report.CSVFileName+")")
	cmd.Flags().StringVarP(&format, "format", "f", formatPDF, "Output format: pdf or csv")
	return cmd
}

func buildRows(cmd *cobra.Command, files []string, logger *zap.Logger) ([]service.ReportRow, error) {
	store := service.NewGradeSummaryStore(repository.NewMemorySummaryRepository(), logger)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if _, err := store.Append(cmd.Context(), filepath.Base(path), string(data)); err != nil {
			return nil, err
		}
	}

	return service.NewReportService(store, logger).BuildReportRows(cmd.Context())
}
