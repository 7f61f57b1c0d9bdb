package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jotter/jotter/pkg/authform"
)

// promptCredentials asks for whatever the flags left empty.
func promptCredentials(form *authform.Form) error {
	var fields []huh.Field
	if form.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&form.Email))
	}
	if form.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&form.Password))
		if form.SignUp {
			fields = append(fields, huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&form.ConfirmPassword))
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func promptNote(title, content *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Note title").
				Value(title),
			huh.NewText().
				Title("Content").
				Placeholder("Start writing your note...").
				Value(content),
		),
	)
	return form.Run()
}

func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// readLine reads one line from r without the line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
