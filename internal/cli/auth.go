package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jotter/jotter/internal/app"
	"github.com/jotter/jotter/pkg/authform"
)

// PasswordEnv supplies the password to signup and signin when it is not
// typed.
const PasswordEnv = "JOTTER_PASSWORD"

func (c *CLI) signUpCommand() *cobra.Command {
	return c.authCommand("signup", "Create an account and sign in", true)
}

func (c *CLI) signInCommand() *cobra.Command {
	return c.authCommand("signin", "Sign in to an existing account", false)
}

func (c *CLI) authCommand(use, short string, signUp bool) *cobra.Command {
	form := authform.Form{SignUp: signUp}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.credentials(&form); err != nil {
				return err
			}
			if err := form.Validate(); err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				var err error
				if signUp {
					err = a.Session.SignUp(ctx, form.Email, form.Password)
				} else {
					err = a.Session.SignIn(ctx, form.Email, form.Password)
				}
				if err != nil {
					a.Logger.Debug("auth failed", "method", use, "error", err)
					return errors.New(authform.FriendlyError(err))
				}

				u, err := a.User()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.Out, "Signed in as %s\n", u.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password (or $"+PasswordEnv+")")
	if signUp {
		cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password")
	}
	return cmd
}

func (c *CLI) credentials(form *authform.Form) error {
	if form.Password == "" {
		form.Password = os.Getenv(PasswordEnv)
	}
	if c.Interactive {
		return promptCredentials(form)
	}
	if form.Password == "" {
		password, err := readLine(c.In)
		if err != nil {
			return err
		}
		form.Password = password
	}
	return nil
}

func (c *CLI) signOutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if _, err := a.User(); err != nil {
					fmt.Fprintln(c.Out, "Not signed in.")
					return nil
				}
				// The local session is gone even when the backend could not
				// be told.
				if err := a.Session.SignOut(ctx); err != nil {
					a.Logger.Warn("sign out", "error", err)
				}
				fmt.Fprintln(c.Out, "Signed out.")
				return nil
			})
		},
	}
}

func (c *CLI) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				u, err := a.User()
				if err != nil {
					return errNotSignedIn
				}

				st := newStyles(c.Out)
				fmt.Fprintln(c.Out, st.title.Render(u.Email))
				if !u.CreatedAt.IsZero() {
					fmt.Fprintf(c.Out, "Joined %s\n", u.CreatedAt.Format(dateFormat))
				}
				fmt.Fprintf(c.Out, "%d notes\n", len(a.Notes.Notes()))
				return nil
			})
		},
	}
}
