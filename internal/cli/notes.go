package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jotter/jotter/internal/app"
	"github.com/jotter/jotter/pkg/notes"
	"github.com/jotter/jotter/pkg/toast"
)

const (
	NoteCreated  = "New note created successfully"
	NoteSaved    = "Note saved successfully"
	NoteDeleted  = "Note deleted"
	CreateFailed = "Failed to create new note"
	SaveFailed   = "Failed to save note"
	DeleteFailed = "Failed to delete note"
)

// signedIn runs fn only when a session was restored. A failed fetch is
// retried once.
func (c *CLI) signedIn(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
		if _, err := a.User(); err != nil {
			return errNotSignedIn
		}
		if msg := a.Notes.Err(); msg != "" {
			a.Logger.Info("retrying notes fetch", "error", msg)
			if err := a.Notes.Refetch(ctx); err != nil {
				return fmt.Errorf("%s (run the command again to retry)", a.Notes.Err())
			}
		}
		return fn(ctx, a)
	})
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *CLI) listCommand() *cobra.Command {
	var (
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.signedIn(cmd, func(_ context.Context, a *app.App) error {
				found := a.Notes.Search(search)
				if asJSON {
					return c.writeJSON(found)
				}

				st := newStyles(c.Out)
				if len(found) == 0 {
					if search != "" {
						fmt.Fprintf(c.Out, "No notes match %q.\n", search)
					} else {
						fmt.Fprintln(c.Out, st.emptyState())
					}
					return nil
				}
				for i, n := range found {
					if i > 0 {
						fmt.Fprintln(c.Out)
					}
					fmt.Fprintln(c.Out, st.card(n, a.Config.WordsPerMinute))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only notes whose title contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print notes as JSON")
	return cmd
}

func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.signedIn(cmd, func(_ context.Context, a *app.App) error {
				n, ok := a.Notes.Get(args[0])
				if !ok {
					return fmt.Errorf("note %s not found", args[0])
				}
				if asJSON {
					return c.writeJSON(n)
				}
				fmt.Fprintln(c.Out, newStyles(c.Out).detail(n, a.Config.WordsPerMinute))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the note as JSON")
	return cmd
}

// noteInput collects a title and content from flags, a file, a prompt or
// stdin, in that order of preference.
type noteInput struct {
	title   string
	content string
	file    string
}

func (in *noteInput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&in.content, "content", "c", "", "note content")
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "read content from a file, - for stdin")
}

func (in *noteInput) read(c *CLI, cmd *cobra.Command, title, content string) (notes.Draft, error) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		title = in.title
	}
	if flags.Changed("content") {
		content = in.content
	}

	switch {
	case in.file != "":
		text, err := readFile(c.In, in.file)
		if err != nil {
			return notes.Draft{}, err
		}
		content = text
	case flags.Changed("title") || flags.Changed("content"):
	case c.Interactive:
		if err := promptNote(&title, &content); err != nil {
			return notes.Draft{}, err
		}
	default:
		text, err := io.ReadAll(c.In)
		if err != nil {
			return notes.Draft{}, fmt.Errorf("read content: %w", err)
		}
		content = string(text)
	}

	return notes.PrepareDraft(title, content)
}

func readFile(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read content: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(b), nil
}

func (c *CLI) newCommand() *cobra.Command {
	var in noteInput

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.signedIn(cmd, func(ctx context.Context, a *app.App) error {
				draft, err := in.read(c, cmd, "", "")
				if errors.Is(err, notes.ErrEmptyDraft) {
					fmt.Fprintln(c.Out, "Nothing to save.")
					return nil
				}
				if err != nil {
					return err
				}

				n, err := a.Notes.Create(ctx, draft.Title, draft.Content)
				if err != nil {
					a.Toasts.Show(CreateFailed, toast.Error)
					return err
				}
				a.Toasts.Show(NoteCreated, toast.Success)
				fmt.Fprintln(c.Out, n.ID)
				return nil
			})
		},
	}

	in.bind(cmd)
	return cmd
}

func (c *CLI) editCommand() *cobra.Command {
	var in noteInput

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.signedIn(cmd, func(ctx context.Context, a *app.App) error {
				current, ok := a.Notes.Get(args[0])
				if !ok {
					return fmt.Errorf("note %s not found", args[0])
				}

				draft, err := in.read(c, cmd, current.Title, current.Text())
				if errors.Is(err, notes.ErrEmptyDraft) {
					fmt.Fprintln(c.Out, "Nothing to save.")
					return nil
				}
				if err != nil {
					return err
				}

				if _, err := a.Notes.Update(ctx, current.ID, draft.Title, draft.Content); err != nil {
					a.Toasts.Show(SaveFailed, toast.Error)
					return err
				}
				a.Toasts.Show(NoteSaved, toast.Success)
				return nil
			})
		},
	}

	in.bind(cmd)
	return cmd
}

func (c *CLI) rmCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.signedIn(cmd, func(ctx context.Context, a *app.App) error {
				n, ok := a.Notes.Get(args[0])
				if !ok {
					return fmt.Errorf("note %s not found", args[0])
				}

				if !yes {
					if !c.Interactive {
						return errors.New("refusing to delete without --yes")
					}
					ok, err := confirm(fmt.Sprintf("Delete %q?", n.DisplayTitle()), "This action cannot be undone.")
					if err != nil {
						return err
					}
					if !ok {
						return nil
					}
				}

				if err := a.Notes.Delete(ctx, n.ID); err != nil {
					a.Toasts.Show(DeleteFailed, toast.Error)
					return err
				}
				a.Toasts.Show(NoteDeleted, toast.Success)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
