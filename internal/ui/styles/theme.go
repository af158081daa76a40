package styles

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ColorToken is a themeable color name as used in config.
type ColorToken string

const (
	TokenTextPrimary        ColorToken = "text.primary"
	TokenTextSecondary      ColorToken = "text.secondary"
	TokenTextMuted          ColorToken = "text.muted"
	TokenBorderDefault      ColorToken = "border.default"
	TokenBorderFocus        ColorToken = "border.focus"
	TokenStatusSuccess      ColorToken = "status.success"
	TokenStatusWarning      ColorToken = "status.warning"
	TokenStatusError        ColorToken = "status.error"
	TokenSelectionIndicator ColorToken = "selection.indicator"
	TokenTodoDone           ColorToken = "todo.done"
	TokenTodoIgnored        ColorToken = "todo.ignored"
	TokenTodoOverdue        ColorToken = "todo.overdue"
)

// Preset is a named set of token colors.
type Preset struct {
	Name   string
	Colors map[ColorToken]string
}

// Presets are the built-in themes.
var Presets = map[string]Preset{
	"default": {
		Name: "default",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#CCCCCC",
			TokenTextSecondary:      "#BBBBBB",
			TokenTextMuted:          "#696969",
			TokenBorderDefault:      "#696969",
			TokenBorderFocus:        "#54A0FF",
			TokenStatusSuccess:      "#73F59F",
			TokenStatusWarning:      "#FECA57",
			TokenStatusError:        "#FF8787",
			TokenSelectionIndicator: "#FFFFFF",
			TokenTodoDone:           "#73F59F",
			TokenTodoIgnored:        "#555555",
			TokenTodoOverdue:        "#FF8787",
		},
	},
	"catppuccin-mocha": {
		Name: "catppuccin-mocha",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#CDD6F4",
			TokenTextSecondary:      "#BAC2DE",
			TokenTextMuted:          "#6C7086",
			TokenBorderDefault:      "#585B70",
			TokenBorderFocus:        "#89B4FA",
			TokenStatusSuccess:      "#A6E3A1",
			TokenStatusWarning:      "#F9E2AF",
			TokenStatusError:        "#F38BA8",
			TokenSelectionIndicator: "#CBA6F7",
			TokenTodoDone:           "#A6E3A1",
			TokenTodoIgnored:        "#6C7086",
			TokenTodoOverdue:        "#F38BA8",
		},
	},
	"nord": {
		Name: "nord",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#ECEFF4",
			TokenTextSecondary:      "#D8DEE9",
			TokenTextMuted:          "#4C566A",
			TokenBorderDefault:      "#4C566A",
			TokenBorderFocus:        "#88C0D0",
			TokenStatusSuccess:      "#A3BE8C",
			TokenStatusWarning:      "#EBCB8B",
			TokenStatusError:        "#BF616A",
			TokenSelectionIndicator: "#88C0D0",
			TokenTodoDone:           "#A3BE8C",
			TokenTodoIgnored:        "#4C566A",
			TokenTodoOverdue:        "#BF616A",
		},
	},
	"high-contrast": {
		Name: "high-contrast",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#FFFFFF",
			TokenTextSecondary:      "#FFFFFF",
			TokenTextMuted:          "#AAAAAA",
			TokenBorderDefault:      "#FFFFFF",
			TokenBorderFocus:        "#FFFF00",
			TokenStatusSuccess:      "#00FF00",
			TokenStatusWarning:      "#FFFF00",
			TokenStatusError:        "#FF0000",
			TokenSelectionIndicator: "#FFFF00",
			TokenTodoDone:           "#00FF00",
			TokenTodoIgnored:        "#888888",
			TokenTodoOverdue:        "#FF0000",
		},
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}

// ThemeConfig mirrors config.ThemeConfig to avoid an import cycle.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ApplyTheme starts from the default preset, applies cfg.Preset, then the
// individual overrides, and rebuilds every style.
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(Presets["default"].Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		p, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, p.Colors)
	}

	for k, v := range cfg.Colors {
		tok := ColorToken(k)
		if _, known := Presets["default"].Colors[tok]; !known {
			return fmt.Errorf("unknown color token: %s", k)
		}
		if !hexColor.MatchString(v) {
			return fmt.Errorf("invalid hex color for %s: %s", k, v)
		}
		colors[tok] = v
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

func applyColors(colors map[ColorToken]string) {
	c := func(tok ColorToken) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: colors[tok], Dark: colors[tok]}
	}
	TextPrimaryColor = c(TokenTextPrimary)
	TextSecondaryColor = c(TokenTextSecondary)
	TextMutedColor = c(TokenTextMuted)
	BorderDefaultColor = c(TokenBorderDefault)
	BorderFocusColor = c(TokenBorderFocus)
	StatusSuccessColor = c(TokenStatusSuccess)
	StatusWarningColor = c(TokenStatusWarning)
	StatusErrorColor = c(TokenStatusError)
	SelectionIndicatorColor = c(TokenSelectionIndicator)
	TodoDoneColor = c(TokenTodoDone)
	TodoIgnoredColor = c(TokenTodoIgnored)
	TodoOverdueColor = c(TokenTodoOverdue)
}
