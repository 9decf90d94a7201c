package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/goldenbutterfly/internal/browser"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

const (
	DefaultPath     = "config.yml"
	DefaultLogFile  = "golden_butterfly_updater.log"
	DefaultLogLevel = "debug"
)

var (
	// ErrMissingField a required configuration field or section is absent or empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField a configuration field is present but malformed.
	ErrInvalidField = errors.New("invalid field")
)

// FieldError names the configuration field that failed to load.
type FieldError struct {
	Section string
	Field   string
	Reason  string
	Err     error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s '%s' in %s", e.Err, e.Field, e.Section)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *FieldError) Unwrap() error { return e.Err }

func missing(section, field string) error {
	return &FieldError{Section: section, Field: field, Err: ErrMissingField}
}

func invalid(section, field, reason string) error {
	return &FieldError{Section: section, Field: field, Reason: reason, Err: ErrInvalidField}
}

type Config struct {
	Browser       BrowserConfig         `yaml:"browser_options"`
	GoogleSheets  GoogleSheetsConfig    `yaml:"google_sheets"`
	TradeRepublic *TradeRepublicAccount `yaml:"trade_republic,omitempty"`
	MyInvestor    *MyInvestorAccount    `yaml:"my_investor,omitempty"`
	Logging       LoggingConfig         `yaml:"logging"`
}

type BrowserConfig struct {
	Headless     bool                 `yaml:"headless"`
	DelayProfile browser.DelayProfile `yaml:"delay_profile"`
}

type GoogleSheetsConfig struct {
	CredentialsPath string `yaml:"credentials_path"`
	SheetName       string `yaml:"sheet_name"`
}

// TradeRepublicAccount login by phone number and 4-digit PIN.
type TradeRepublicAccount struct {
	PhoneCountryCode string                `yaml:"phone_country_code"`
	PhoneNumber      string                `yaml:"phone_number"`
	PIN              domain.Secret         `yaml:"pin"`
	TrackedAssets    []domain.TrackedAsset `yaml:"tracked_assets"`
}

// MyInvestorAccount login by customer id (DNI/NIE) and password.
type MyInvestorAccount struct {
	Username      string                `yaml:"username"`
	Password      domain.Secret         `yaml:"password"`
	TrackedAssets []domain.TrackedAsset `yaml:"tracked_assets"`
}

type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type ConfigTmp struct {
	BrowserOptions *BrowserOptionsTmp `yaml:"browser_options"`
	GoogleSheets   *GoogleSheetsTmp   `yaml:"google_sheets"`
	TradeRepublic  *TradeRepublicTmp  `yaml:"trade_republic,omitempty"`
	MyInvestor     *MyInvestorTmp     `yaml:"my_investor,omitempty"`
	Logging        *LoggingTmp        `yaml:"logging,omitempty"`
}

type BrowserOptionsTmp struct {
	Headless     *bool  `yaml:"headless" validate:"required"`
	DelayProfile string `yaml:"delay_profile" validate:"required"`
}

type GoogleSheetsTmp struct {
	CredentialsPath string `yaml:"credentials_path" validate:"required"`
	SheetName       string `yaml:"sheet_name" validate:"required"`
}

type TrackedAssetTmp struct {
	ISIN        string `yaml:"isin" validate:"required"`
	ProductType string `yaml:"product_type" validate:"required"`
	AssetType   string `yaml:"asset_type" validate:"required"`
}

type TradeRepublicTmp struct {
	PhoneCountryCode string            `yaml:"phone_country_code" validate:"required"`
	PhoneNumber      string            `yaml:"phone_number" validate:"required"`
	PIN              string            `yaml:"pin" validate:"required"`
	TrackedAssets    []TrackedAssetTmp `yaml:"tracked_assets,omitempty" validate:"dive"`
}

type MyInvestorTmp struct {
	Username      string            `yaml:"username" validate:"required"`
	Password      string            `yaml:"password" validate:"required"`
	TrackedAssets []TrackedAssetTmp `yaml:"tracked_assets,omitempty" validate:"dive"`
}

type LoggingTmp struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Load reads and validates the YAML configuration at path.
func Load(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "configuration file '%s' not found", path)
		}
		return Config{}, errors.Wrapf(err, "failed to read configuration file '%s'", path)
	}
	return Parse(f)
}

// Parse validates a YAML configuration document.
func Parse(data []byte) (Config, error) {
	var c ConfigTmp
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "error parsing YAML file")
	}

	v := newValidator()

	browserConfig, err := browserConfigFrom(v, c.BrowserOptions)
	if err != nil {
		return Config{}, err
	}
	sheetsConfig, err := googleSheetsConfigFrom(v, c.GoogleSheets)
	if err != nil {
		return Config{}, err
	}

	newConfig := Config{
		Browser:      browserConfig,
		GoogleSheets: sheetsConfig,
		Logging:      loggingConfigFrom(c.Logging),
	}
	if _, err := zapcore.ParseLevel(newConfig.Logging.Level); err != nil {
		return Config{}, invalid("logging", "level", err.Error())
	}

	if c.TradeRepublic != nil {
		if newConfig.TradeRepublic, err = tradeRepublicFrom(v, c.TradeRepublic); err != nil {
			return Config{}, err
		}
	}
	if c.MyInvestor != nil {
		if newConfig.MyInvestor, err = myInvestorFrom(v, c.MyInvestor); err != nil {
			return Config{}, err
		}
	}

	return newConfig, nil
}

func browserConfigFrom(v *validator.Validate, b *BrowserOptionsTmp) (BrowserConfig, error) {
	const section = "browser_options"
	if b == nil {
		return BrowserConfig{}, missing("configuration", section)
	}
	if err := validateSection(v, section, b); err != nil {
		return BrowserConfig{}, err
	}

	profile, err := browser.ParseDelayProfile(b.DelayProfile)
	if err != nil {
		return BrowserConfig{}, invalid(section, "delay_profile", err.Error())
	}
	return BrowserConfig{Headless: *b.Headless, DelayProfile: profile}, nil
}

func googleSheetsConfigFrom(v *validator.Validate, g *GoogleSheetsTmp) (GoogleSheetsConfig, error) {
	const section = "google_sheets"
	if g == nil {
		return GoogleSheetsConfig{}, missing("configuration", section)
	}
	if err := validateSection(v, section, g); err != nil {
		return GoogleSheetsConfig{}, err
	}
	return GoogleSheetsConfig{CredentialsPath: g.CredentialsPath, SheetName: g.SheetName}, nil
}

func tradeRepublicFrom(v *validator.Validate, t *TradeRepublicTmp) (*TradeRepublicAccount, error) {
	const section = "trade_republic"
	if err := validateSection(v, section, t); err != nil {
		return nil, err
	}

	checks := []struct {
		field, value string
		pattern      *regexp.Regexp
		reason       string
	}{
		{"phone_country_code", t.PhoneCountryCode, domain.PhoneCountryCodePattern, "expected '+' followed by 1 to 4 digits"},
		{"phone_number", t.PhoneNumber, domain.PhoneNumberPattern, "expected 5 to 15 digits"},
		{"pin", t.PIN, domain.PINPattern, "expected exactly 4 digits"},
	}
	for _, c := range checks {
		if !c.pattern.MatchString(c.value) {
			return nil, invalid(section, c.field, c.reason)
		}
	}

	tracked, err := trackedAssetsFrom(section, t.TrackedAssets)
	if err != nil {
		return nil, err
	}

	return &TradeRepublicAccount{
		PhoneCountryCode: t.PhoneCountryCode,
		PhoneNumber:      t.PhoneNumber,
		PIN:              domain.NewSecret(t.PIN),
		TrackedAssets:    tracked,
	}, nil
}

func myInvestorFrom(v *validator.Validate, m *MyInvestorTmp) (*MyInvestorAccount, error) {
	const section = "my_investor"
	if err := validateSection(v, section, m); err != nil {
		return nil, err
	}

	tracked, err := trackedAssetsFrom(section, m.TrackedAssets)
	if err != nil {
		return nil, err
	}

	return &MyInvestorAccount{
		Username:      strings.TrimSpace(m.Username),
		Password:      domain.NewSecret(m.Password),
		TrackedAssets: tracked,
	}, nil
}

func trackedAssetsFrom(section string, raw []TrackedAssetTmp) ([]domain.TrackedAsset, error) {
	tracked := make([]domain.TrackedAsset, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, a := range raw {
		field := func(name string) string { return fmt.Sprintf("tracked_assets[%d].%s", i, name) }

		if !domain.IsISIN(a.ISIN) {
			return nil, invalid(section, field("isin"), fmt.Sprintf("'%s' is not an ISIN", a.ISIN))
		}
		if seen[a.ISIN] {
			return nil, invalid(section, field("isin"), fmt.Sprintf("duplicate ISIN '%s'", a.ISIN))
		}
		seen[a.ISIN] = true

		productType, err := domain.ParseProductType(strings.ToLower(a.ProductType))
		if err != nil {
			return nil, invalid(section, field("product_type"), err.Error())
		}
		assetType, err := domain.ParseAssetType(strings.ToLower(a.AssetType))
		if err != nil {
			return nil, invalid(section, field("asset_type"), err.Error())
		}

		tracked = append(tracked, domain.TrackedAsset{ISIN: a.ISIN, ProductType: productType, AssetType: assetType})
	}
	return tracked, nil
}

func loggingConfigFrom(l *LoggingTmp) LoggingConfig {
	conf := LoggingConfig{File: DefaultLogFile, Level: DefaultLogLevel}
	if l == nil {
		return conf
	}
	if l.File != "" {
		conf.File = l.File
	}
	if l.Level != "" {
		conf.Level = strings.ToLower(l.Level)
	}
	return conf
}

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateSection turns the first struct-tag violation into a FieldError.
func validateSection(v *validator.Validate, section string, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrapf(err, "failed to validate %s", section)
	}

	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if fe.Tag() == "required" {
		return missing(section, field)
	}
	return invalid(section, field, fe.Error())
}
