// Package config reads and writes the drawpad settings file.
package config

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"drawpad.app/drawpad/internal/surface"
)

type Config struct {
	// Version is the drawpad release that last saved the file.
	Version string `json:"version,omitempty"`
	Theme   string `json:"theme"`
	// Surface holds default surface options keyed as in surface.Options'
	// json tags. Values may be numbers or numeric strings.
	Surface         map[string]any `json:"surface,omitempty"`
	Autosave        Autosave       `json:"autosave"`
	OpenAfterExport bool           `json:"openAfterExport"`
}

// Autosave selects where snapshots go. An empty Dir and URL disables it.
type Autosave struct {
	Dir    string `json:"dir,omitempty"`
	URL    string `json:"url,omitempty"`
	Every  string `json:"every,omitempty"`
	Format string `json:"format,omitempty"`
}

const defaultAutosaveInterval = 30 * time.Second

// Enabled reports whether a destination is configured.
func (a Autosave) Enabled() bool {
	return a.Dir != "" || a.URL != ""
}

// Interval parses Every, defaulting to 30s.
func (a Autosave) Interval() (time.Duration, error) {
	if a.Every == "" {
		return defaultAutosaveInterval, nil
	}
	d, err := time.ParseDuration(a.Every)
	if err != nil {
		return 0, errors.Wrap(err, "autosave interval")
	}
	return d, nil
}

// SurfaceOptions decodes the stored surface defaults.
func (s *Config) SurfaceOptions() (surface.Options, error) {
	return surface.DecodeOptions(s.Surface)
}

// SetSurfaceOptions replaces the stored surface defaults with o.
func (s *Config) SetSurfaceOptions(o surface.Options) error {
	m := map[string]any{}
	if err := mapstructure.Decode(o, &m); err != nil {
		return errors.Wrap(err, "SetSurfaceOptions")
	}

	s.Surface = m
	return nil
}

type drawpadTheme struct {
	Theme string
}

func (m drawpadTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch m.Theme {
	case "Dark":
		variant = theme.VariantDark
	case "Light":
		variant = theme.VariantLight
	}

	return theme.DefaultTheme().Color(name, variant)
}

func (m drawpadTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m drawpadTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m drawpadTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

func defaultConfig() *Config {
	return &Config{
		Theme: "Default",
		Surface: map[string]any{
			"width":       surface.DefaultWidth,
			"height":      surface.DefaultHeight,
			"strokeColor": surface.DefaultStrokeColor,
			"strokeWidth": surface.DefaultStrokeWidth,
		},
		Autosave: Autosave{
			Every:  defaultAutosaveInterval.String(),
			Format: string(surface.FormatPNG),
		},
	}
}

// GetAppConfig loads the settings file, writing the defaults when there
// is none yet.
func GetAppConfig() (*Config, error) {
	path, err := appPath()
	if err != nil {
		return nil, errors.Wrap(err, "GetAppConfig: failed to access config path")
	}

	cfgfile, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return nil, errors.Wrap(err, "GetAppConfig: failed to create default path")
			}

			conf := defaultConfig()
			b, err := json.Marshal(conf)
			if err != nil {
				return nil, errors.Wrap(err, "GetAppConfig: failed to convert and store default config")
			}

			if err := os.WriteFile(path, b, 0644); err != nil {
				return nil, errors.Wrap(err, "GetAppConfig: failed to create default config")
			}

			return conf, nil
		}

		return nil, errors.Wrap(err, "GetAppConfig: failed to open config")
	}
	defer cfgfile.Close()

	conf := &Config{}
	if err := json.NewDecoder(cfgfile).Decode(conf); err != nil {
		return nil, errors.Wrap(err, "GetAppConfig: failed to decode config")
	}

	return conf, nil
}

// appPath is replaced in tests.
var appPath = func() (string, error) {
	oscfg, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "appPath: failed to get config dir")
	}

	return filepath.Join(oscfg, "drawpad", "settings.json"), nil
}

func (s *Config) ApplyAppConfig() {
	switch s.Theme {
	case "Dark":
		fyne.CurrentApp().Settings().SetTheme(drawpadTheme{"Dark"})
	case "Light":
		fyne.CurrentApp().Settings().SetTheme(drawpadTheme{"Light"})
	case "Default":
		fyne.CurrentApp().Settings().SetTheme(theme.DefaultTheme())
	}
}

func (s *Config) SaveAppConfig() error {
	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "SaveAppConfig: failed to marshal json")
	}

	path, err := appPath()
	if err != nil {
		return errors.Wrap(err, "SaveAppConfig: failed to access config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "SaveAppConfig: failed to create config path")
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrap(err, "SaveAppConfig: failed save config")
	}

	return nil
}
