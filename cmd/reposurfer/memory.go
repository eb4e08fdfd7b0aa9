package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	memoryScope string
	memoryTopK  int
	memoryLimit int
	memoryYes   bool
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage conversation memory",
}

var memorySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search past conversation turns",
	Long: `Search conversation memory by similarity.

Examples:
  reposurfer memory search "authentication flow"
  reposurfer memory search --scope myrepo "authentication flow"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMemorySearch,
}

var memoryHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversation turns, newest first",
	Args:  cobra.NoArgs,
	RunE:  runMemoryHistory,
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete conversation memory",
	Long: `Delete conversation memory. With --scope only that repository's turns
are removed; without it everything is removed. Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: runMemoryClear,
}

func init() {
	memoryCmd.PersistentFlags().StringVar(&memoryScope, "scope", "", "restrict to one repository id")
	memorySearchCmd.Flags().IntVar(&memoryTopK, "top", 5, "number of results")
	memoryHistoryCmd.Flags().IntVar(&memoryLimit, "limit", 10, "number of turns to show")
	memoryClearCmd.Flags().BoolVar(&memoryYes, "yes", false, "confirm deletion")
	memoryCmd.AddCommand(memorySearchCmd)
	memoryCmd.AddCommand(memoryHistoryCmd)
	memoryCmd.AddCommand(memoryClearCmd)
}

func runMemorySearch(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	turns, err := app.memory.Search(cmd.Context(), memoryScope, strings.Join(args, " "), memoryTopK)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		fmt.Println("No matching turns.")
		return nil
	}

	for i, t := range turns {
		fmt.Printf("%d. [%s] (score %.3f)\n", i+1, t.Timestamp.Format("2006-01-02 15:04"), t.Score)
		if t.Scope != "" {
			fmt.Printf("   repo: %s\n", t.Scope)
		}
		fmt.Printf("   Q: %s\n", t.Query)
		if t.Answer != "" {
			fmt.Printf("   A: %s\n", t.Answer)
		}
	}
	return nil
}

func runMemoryHistory(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	turns, err := app.memory.History(cmd.Context(), memoryScope, memoryLimit)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		fmt.Println("No turns recorded.")
		return nil
	}

	for _, t := range turns {
		fmt.Printf("[%s]", t.Timestamp.Format("2006-01-02 15:04"))
		if t.Scope != "" {
			fmt.Printf(" %s", t.Scope)
		}
		fmt.Printf("\n  Q: %s\n", t.Query)
		if t.Answer != "" {
			fmt.Printf("  A: %s\n", t.Answer)
		}
	}
	return nil
}

func runMemoryClear(cmd *cobra.Command, args []string) error {
	if !memoryYes {
		return fmt.Errorf("refusing to delete memory without --yes")
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.memory.Clear(cmd.Context(), memoryScope); err != nil {
		return err
	}
	if memoryScope == "" {
		fmt.Println("Cleared all conversation memory.")
	} else {
		fmt.Printf("Cleared conversation memory for %s.\n", memoryScope)
	}
	return nil
}
