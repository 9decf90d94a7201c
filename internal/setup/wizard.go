// Package setup walks the user through creating a configuration file.
package setup

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/goldenbutterfly/config"
	"github.com/vadiminshakov/goldenbutterfly/internal/browser"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

// Answers what the wizard asks for.
type Answers struct {
	Headless     bool
	DelayProfile string

	CredentialsPath string
	SheetName       string

	TradeRepublic    bool
	PhoneCountryCode string
	PhoneNumber      string
	PIN              string

	MyInvestor bool
	Username   string
	Password   string
}

// DefaultAnswers pre-filled values.
func DefaultAnswers() Answers {
	return Answers{
		Headless:         true,
		DelayProfile:     string(browser.DelayProfileMedium),
		CredentialsPath:  "service_account.json",
		SheetName:        "Golden Butterfly",
		PhoneCountryCode: "+34",
	}
}

// YAML renders the answers as a configuration document and checks that it loads.
func (a Answers) YAML() ([]byte, error) {
	headless := a.Headless
	c := config.ConfigTmp{
		BrowserOptions: &config.BrowserOptionsTmp{Headless: &headless, DelayProfile: a.DelayProfile},
		GoogleSheets:   &config.GoogleSheetsTmp{CredentialsPath: a.CredentialsPath, SheetName: a.SheetName},
		Logging:        &config.LoggingTmp{File: config.DefaultLogFile, Level: config.DefaultLogLevel},
	}
	if a.TradeRepublic {
		c.TradeRepublic = &config.TradeRepublicTmp{
			PhoneCountryCode: a.PhoneCountryCode,
			PhoneNumber:      a.PhoneNumber,
			PIN:              a.PIN,
		}
	}
	if a.MyInvestor {
		c.MyInvestor = &config.MyInvestorTmp{Username: a.Username, Password: a.Password}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate yaml")
	}
	if _, err := config.Parse(data); err != nil {
		return nil, err
	}
	return data, nil
}

// RunWizard asks for the configuration interactively and writes it to path.
func RunWizard(ctx context.Context, path string) error {
	a := DefaultAnswers()

	step := func(title string, groups ...*huh.Group) error {
		fmt.Print("\033[H\033[2J")
		fmt.Println(headerStyle.Render("GOLDEN BUTTERFLY SETUP"))
		fmt.Println(stepStyle.Render(title))
		return huh.NewForm(groups...).RunWithContext(ctx)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Credentials are stored in plain text; keep the file private.\n"))

	if err := step("STEP 1: BROWSER", huh.NewGroup(
		huh.NewConfirm().
			Title("Run the browser on a virtual display?").
			Description("Needs Xvfb. Choose No to watch the browser on your screen.").
			Value(&a.Headless),
		huh.NewSelect[string]().
			Title("Delay profile").
			Options(
				huh.NewOption("Fast", string(browser.DelayProfileFast)),
				huh.NewOption("Medium", string(browser.DelayProfileMedium)),
				huh.NewOption("Slow", string(browser.DelayProfileSlow)),
			).
			Value(&a.DelayProfile),
	)); err != nil {
		return err
	}

	if err := step("STEP 2: GOOGLE SHEETS", huh.NewGroup(
		huh.NewInput().
			Title("Service account credentials file").
			Value(&a.CredentialsPath).
			Validate(notEmpty("credentials path")),
		huh.NewInput().
			Title("Spreadsheet name").
			Value(&a.SheetName).
			Validate(notEmpty("spreadsheet name")),
	)); err != nil {
		return err
	}

	if err := step("STEP 3: TRADE REPUBLIC",
		huh.NewGroup(
			huh.NewConfirm().Title("Scrape Trade Republic?").Value(&a.TradeRepublic),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Phone country code").
				Value(&a.PhoneCountryCode).
				Validate(matches(domain.PhoneCountryCodePattern, "expected '+' followed by 1 to 4 digits")),
			huh.NewInput().
				Title("Phone number").
				Value(&a.PhoneNumber).
				Validate(matches(domain.PhoneNumberPattern, "expected 5 to 15 digits")),
			huh.NewInput().
				Title("PIN").
				EchoMode(huh.EchoModePassword).
				Value(&a.PIN).
				Validate(matches(domain.PINPattern, "expected exactly 4 digits")),
		).WithHideFunc(func() bool { return !a.TradeRepublic }),
	); err != nil {
		return err
	}

	if err := step("STEP 4: MYINVESTOR",
		huh.NewGroup(
			huh.NewConfirm().Title("Scrape MyInvestor?").Value(&a.MyInvestor),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Username (DNI/NIE)").
				Value(&a.Username).
				Validate(notEmpty("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&a.Password).
				Validate(notEmpty("password")),
		).WithHideFunc(func() bool { return !a.MyInvestor }),
	); err != nil {
		return err
	}

	data, err := a.YAML()
	if err != nil {
		return err
	}

	overwrite := true
	if _, err := os.Stat(path); err == nil {
		if err := step("FINAL CONFIRMATION", huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s exists. Overwrite it?", path)).
				Affirmative("Yes, overwrite").
				Negative("No, exit").
				Value(&overwrite),
		)); err != nil {
			return err
		}
	}
	if !overwrite {
		return errors.New("setup cancelled by user")
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to save config file")
	}
	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\n✓ Configuration saved to %s\nAdd tracked_assets to the bank sections to follow funds and ETFs.", path)))
	return nil
}

func notEmpty(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

func matches(pattern *regexp.Regexp, reason string) func(string) error {
	return func(s string) error {
		if !pattern.MatchString(s) {
			return errors.New(reason)
		}
		return nil
	}
}
