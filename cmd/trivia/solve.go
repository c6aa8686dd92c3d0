package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katakuxiko/trivia/internal/app"
	"github.com/katakuxiko/trivia/internal/pdf"
	"github.com/katakuxiko/trivia/internal/service"
)

func solveCmd() *cobra.Command {
	var processor string
	cmd := &cobra.Command{
		Use:   "solve [question...]",
		Short: "Answer a question given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				question = string(data)
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				results, err := a.Solver.SolveWith(cmd.Context(), processor, question)
				if err != nil {
					return err
				}
				printResults(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&processor, "processor", "p", "", "processor label (default: all)")
	return cmd
}

func ocrCmd() *cobra.Command {
	var (
		solve     bool
		processor string
	)
	cmd := &cobra.Command{
		Use:   "ocr <image>",
		Short: "Extract question text from an image, optionally answering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				if !solve {
					text, err := a.Solver.DetectText(cmd.Context(), image)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), text)
					return nil
				}
				question, results, err := a.Solver.SolveImage(cmd.Context(), processor, image)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", question)
				printResults(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&solve, "solve", false, "answer the extracted question")
	cmd.Flags().StringVarP(&processor, "processor", "p", "", "processor label (default: all)")
	return cmd
}

func pdfCmd() *cobra.Command {
	var processor string
	cmd := &cobra.Command{
		Use:   "pdf <file>",
		Short: "Answer every page of a PDF as a separate question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := pdf.ExtractFile(args[0])
			if err != nil {
				return err
			}
			if len(pages) == 0 {
				return fmt.Errorf("no text extracted from %s", args[0])
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				for i, question := range pages {
					results, err := a.Solver.SolveWith(cmd.Context(), processor, question)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "## Page %d\n%s\n\n", i+1, question)
					printResults(cmd.OutOrStdout(), results)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&processor, "processor", "p", "", "processor label (default: all)")
	return cmd
}

func printResults(w io.Writer, results []service.Result) {
	for _, r := range results {
		if !r.OK() {
			fmt.Fprintf(w, "[%s] no answer: %v\n\n", r.Processor, r.Err)
			continue
		}
		fmt.Fprintf(w, "[%s]\n%s\n\n", r.Processor, r.Answer)
	}
}
