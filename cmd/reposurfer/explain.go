package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <file>",
	Short: "Explain what a source file does",
	Long: `Send a file to the model and print an explanation of its purpose and
structure. Nothing is recorded in conversation memory.

Examples:
  reposurfer explain internal/server/server.go`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading file %s: %w", args[0], err)
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	svc, err := app.surfer()
	if err != nil {
		return err
	}

	answer, err := svc.ExplainFile(cmd.Context(), args[0], string(content))
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}
