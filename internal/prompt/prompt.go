// Package prompt asks the user for values the run cannot know in advance,
// such as a two-factor confirmation code sent by a bank.
package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginTop(1)
)

// Terminal reads confirmation codes interactively from standard input.
// It blocks until the user submits; there is no timeout.
type Terminal struct {
	out io.Writer
}

// NewTerminal creates a Terminal prompter writing its banner to stderr.
func NewTerminal() *Terminal {
	return &Terminal{out: os.Stderr}
}

// ConfirmationCode asks for the code the bank just sent.
func (t *Terminal) ConfirmationCode(ctx context.Context, bank string) (string, error) {
	fmt.Fprintln(t.out, headerStyle.Render(strings.ToUpper(bank)+" CONFIRMATION"))

	var code string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Confirmation code").
				Description(fmt.Sprintf("Enter the code %s sent to your phone", bank)).
				Value(&code).
				Validate(ValidateCode),
		),
	).RunWithContext(ctx)
	if err != nil {
		return "", errors.Wrap(err, "read confirmation code")
	}
	return strings.TrimSpace(code), nil
}

// ValidateCode accepts a non-empty string of digits.
func ValidateCode(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("code cannot be empty")
	}
	if !domain.DigitsPattern.MatchString(s) {
		return errors.New("code must contain digits only")
	}
	return nil
}
