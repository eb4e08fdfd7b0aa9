package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <repo-id> <question>",
	Short: "Ask one question about an indexed repository",
	Long: `Ask a single question about a previously analyzed repository.

The exchange is recorded in conversation memory so later questions can
build on it.

Examples:
  reposurfer ask myrepo "where is the HTTP server started?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	svc, err := app.surfer()
	if err != nil {
		return err
	}

	question := strings.Join(args[1:], " ")
	answer, err := svc.Ask(cmd.Context(), args[0], question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

var chatCmd = &cobra.Command{
	Use:   "chat <repo-id>",
	Short: "Start an interactive chat about an indexed repository",
	Long: `Start an interactive question-answering session. Every exchange is
recorded in conversation memory. Type "exit" or "quit" to leave.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	svc, err := app.surfer()
	if err != nil {
		return err
	}

	repoID := args[0]
	fmt.Printf("Chatting about %s. Type \"exit\" to leave.\n", repoID)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := svc.Ask(cmd.Context(), repoID, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(answer)
		fmt.Println()
	}
	return scanner.Err()
}
