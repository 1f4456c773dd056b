package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"transit/sequencer"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "List and manage saved projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := sequencer.ListProjects()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "no projects")
			return nil
		}
		for _, name := range names {
			saves, err := sequencer.ListSaves(name)
			if err != nil {
				return err
			}
			latest := "-"
			if len(saves) > 0 {
				latest = saves[0].Timestamp.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(out, "%-24s %3d saves  latest %s\n", name, len(saves), latest)
		}
		return nil
	},
}

var savesCmd = &cobra.Command{
	Use:   "saves <project>",
	Short: "List the saves of a project, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saves, err := sequencer.ListSaves(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range saves {
			fmt.Fprintf(out, "%-40s %s\n", s.Filename, s.Name)
		}
		return nil
	},
}

var newProjectCmd = &cobra.Command{
	Use:   "new <project>",
	Short: "Create an empty project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sequencer.CreateProject(args[0])
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <project> [save]",
	Short: "Delete a project, or one save in it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 {
			return sequencer.DeleteSave(args[0], args[1])
		}
		return sequencer.DeleteProject(args[0])
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <project> <new-name> | mv <project> <save> <new-name>",
	Short: "Rename a project, or the name part of a save",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 3 {
			name, err := sequencer.RenameSave(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		}
		return sequencer.RenameProject(args[0], args[1])
	},
}

func init() {
	projectsCmd.AddCommand(savesCmd, newProjectCmd, rmCmd, mvCmd)
	rootCmd.AddCommand(projectsCmd)
}
