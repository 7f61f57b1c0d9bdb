// Package cli is the jotter command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jotter/jotter/internal/app"
	"github.com/jotter/jotter/internal/config"
	"github.com/jotter/jotter/pkg/session"
	"github.com/jotter/jotter/pkg/toast"
)

var errNotSignedIn = errors.New("not signed in, run `jotter signin` first")

// CLI holds the streams and global flags shared by every command.
type CLI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// Interactive enables prompts. Without it every input comes from flags
	// or In.
	Interactive bool
	// Tokens replaces the session file named by the config.
	Tokens session.TokenStore

	configPath string
	endpoint   string
	verbose    bool
}

// Main runs the command line with args until it finishes or the process is
// interrupted.
func Main(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &CLI{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
	}

	cmd := c.Command()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// Command builds the root command.
func (c *CLI) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "jotter",
		Short: "Take short notes and keep them in sync",
		Long: `jotter keeps short text notes on a jotter backend.

Sign up or in once; the session is remembered until you sign out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(c.In)
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&c.endpoint, "endpoint", "", "backend URL, overrides the config")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.signUpCommand(),
		c.signInCommand(),
		c.signOutCommand(),
		c.profileCommand(),
		c.listCommand(),
		c.showCommand(),
		c.newCommand(),
		c.editCommand(),
		c.rmCommand(),
		c.readTimeCommand(),
		c.serveCommand(),
	)
	return root
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.endpoint != "" {
		cfg.Endpoint = c.endpoint
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// withApp opens the application for the duration of fn. Toasts shown
// while fn runs are printed to Err.
func (c *CLI) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.Open(ctx, cfg, app.Options{
		LogWriter: c.Err,
		Console:   true,
		Tokens:    c.Tokens,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			a.Logger.Debug("close failed", "error", err)
		}
	}()

	unsubscribe := a.Toasts.Subscribe(c.printToasts())
	defer unsubscribe()

	return fn(ctx, a)
}

// printToasts returns a listener printing each toast once, when it shows.
func (c *CLI) printToasts() toast.Listener {
	var (
		mu   sync.Mutex
		seen int
	)
	st := newStyles(c.Err)
	return func(active []toast.Toast) {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range active {
			if t.ID <= seen {
				continue
			}
			seen = t.ID
			fmt.Fprintln(c.Err, st.toast(t))
		}
	}
}
