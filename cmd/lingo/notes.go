package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Personal study notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		notes, err := a.notes.ListNotes(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Printf("#%d  %s  %s\n", n.ID, n.CreatedAt.Format("2006-01-02"), n.Content)
		}
		return nil
	},
}

var noteAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		id, err := a.notes.AddNote(ctx, user.ID, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("note #%d saved\n", id)
		return nil
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid note id %q", args[0])
		}
		if err := a.notes.DeleteNote(ctx, id, user.ID); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

func init() {
	notesCmd.AddCommand(noteAddCmd, noteDeleteCmd)
	rootCmd.AddCommand(notesCmd)
}
