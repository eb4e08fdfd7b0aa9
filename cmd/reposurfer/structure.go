package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/reposurfer/internal/repo"
)

var structureDepth int

var structureCmd = &cobra.Command{
	Use:   "structure <path>",
	Short: "Print a repository's directory structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := repo.Structure(args[0], structureDepth)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	structureCmd.Flags().IntVar(&structureDepth, "depth", 3, "maximum depth to display (0 for unlimited)")
}
