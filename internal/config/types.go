// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"webextc/pkg/manifest"
)

const (
	// PlatformDesktop resolves manifests against the desktop platform profile.
	PlatformDesktop PlatformMode = "desktop"
	// PlatformMobile resolves manifests against the restricted mobile profile.
	PlatformMobile PlatformMode = "mobile"

	// OutputText prints human-readable, styled output.
	OutputText OutputFormat = "text"
	// OutputJSON prints machine-readable JSON.
	OutputJSON OutputFormat = "json"
	// OutputTOML prints machine-readable TOML.
	OutputTOML OutputFormat = "toml"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidPlatformMode is returned when a PlatformMode value is not recognized.
	ErrInvalidPlatformMode = errors.New("invalid platform mode")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDisplayScale is returned when a display scale is zero or negative.
	ErrInvalidDisplayScale = errors.New("invalid display scale")
	// ErrInvalidLocaleCode is returned when a LocaleCode value is malformed.
	ErrInvalidLocaleCode = errors.New("invalid locale code")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// PlatformMode selects which host platform profile manifests resolve against.
	PlatformMode string

	// InvalidPlatformModeError is returned when a PlatformMode value is not recognized.
	// It wraps ErrInvalidPlatformMode for errors.Is() compatibility.
	InvalidPlatformModeError struct {
		Value PlatformMode
	}

	// OutputFormat selects the serialization used by inspect-style commands.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidDisplayScaleError is returned when a display scale is zero or negative.
	// It wraps ErrInvalidDisplayScale for errors.Is() compatibility.
	InvalidDisplayScaleError struct {
		Value float64
	}

	// LocaleCode is a locale identifier like "en" or "en_US".
	// The zero value ("") is valid and means "no locale substitution".
	LocaleCode string

	// InvalidLocaleCodeError is returned when a LocaleCode value is malformed.
	// It wraps ErrInvalidLocaleCode for errors.Is() compatibility.
	InvalidLocaleCodeError struct {
		Value LocaleCode
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Platform selects the host platform profile ("desktop" or "mobile").
		Platform PlatformMode `json:"platform" mapstructure:"platform"`
		// DisplayScales are the display scale factors used for icon resolution.
		DisplayScales []float64 `json:"display_scales" mapstructure:"display_scales"`
		// DefaultLocale substitutes manifest placeholders before resolution.
		DefaultLocale LocaleCode `json:"default_locale" mapstructure:"default_locale"`
		// Output configures structured command output.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// OutputConfig configures structured command output.
	OutputConfig struct {
		// Format selects the serialization for inspect-style commands.
		Format OutputFormat `json:"format" mapstructure:"format"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// ManifestPlatform converts the config platform mode to the resolver's type.
func (m PlatformMode) ManifestPlatform() manifest.Platform {
	if m == PlatformMobile {
		return manifest.PlatformMobile
	}
	return manifest.PlatformDesktop
}

// String returns the string representation of the PlatformMode.
func (m PlatformMode) String() string { return string(m) }

// IsValid returns whether the PlatformMode is one of the defined profiles,
// and a list of validation errors if it is not.
func (m PlatformMode) IsValid() (bool, []error) {
	switch m {
	case PlatformDesktop, PlatformMobile:
		return true, nil
	default:
		return false, []error{&InvalidPlatformModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidPlatformModeError.
func (e *InvalidPlatformModeError) Error() string {
	return fmt.Sprintf("invalid platform mode %q (valid: desktop, mobile)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPlatformModeError) Unwrap() error {
	return ErrInvalidPlatformMode
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputText, OutputJSON, OutputTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, toml)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error {
	return ErrInvalidOutputFormat
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// Error implements the error interface for InvalidDisplayScaleError.
func (e *InvalidDisplayScaleError) Error() string {
	return fmt.Sprintf("invalid display scale %g: must be positive", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDisplayScaleError) Unwrap() error {
	return ErrInvalidDisplayScale
}

// String returns the string representation of the LocaleCode.
func (l LocaleCode) String() string { return string(l) }

// IsValid returns whether the LocaleCode is valid.
// The zero value ("") is valid (means "no locale substitution").
// Non-zero values must not be whitespace-only.
func (l LocaleCode) IsValid() (bool, []error) {
	if l == "" {
		return true, nil
	}
	if strings.TrimSpace(string(l)) == "" {
		return false, []error{&InvalidLocaleCodeError{Value: l}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLocaleCodeError.
func (e *InvalidLocaleCodeError) Error() string {
	return fmt.Sprintf("invalid locale code %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidLocaleCode for errors.Is() compatibility.
func (e *InvalidLocaleCodeError) Unwrap() error { return ErrInvalidLocaleCode }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Platform.IsValid(), per-scale positivity checks,
// DefaultLocale.IsValid(), Output.Format.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Platform.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, scale := range c.DisplayScales {
		if scale <= 0 {
			errs = append(errs, &InvalidDisplayScaleError{Value: scale})
		}
	}
	if valid, fieldErrs := c.DefaultLocale.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Output.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Platform:      PlatformDesktop,
		DisplayScales: []float64{1, 2},
		DefaultLocale: "",
		Output: OutputConfig{
			Format: OutputText,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
