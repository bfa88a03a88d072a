package surface

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// SizeUnit is the unit applied to the container's outer box.
type SizeUnit string

const (
	UnitPixel   SizeUnit = "px"
	UnitPercent SizeUnit = "%"
)

// Cursor is the pointer style shown over the canvas.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorCrosshair Cursor = "crosshair"
	CursorPointer   Cursor = "pointer"
)

// BorderNone is the sentinel for an unset border color or style.
const BorderNone = "none"

// Defaults used for every Options field left at its zero value.
const (
	DefaultWidth       = 500
	DefaultHeight      = 500
	DefaultSizeUnit    = UnitPixel
	DefaultBackground  = "#cccccc"
	DefaultStrokeColor = "#000000"
	DefaultStrokeWidth = 1
	DefaultCursor      = CursorCrosshair
	DefaultBorderStyle = "solid"
)

// Options is the configuration snapshot a DrawingSurface is built from.
// Zero values fall back to the package defaults.
type Options struct {
	Width       float64  `mapstructure:"width" json:"width,omitempty"`
	Height      float64  `mapstructure:"height" json:"height,omitempty"`
	SizeUnit    SizeUnit `mapstructure:"sizeUnit" json:"sizeUnit,omitempty"`
	Background  string   `mapstructure:"background" json:"background,omitempty"`
	StrokeColor string   `mapstructure:"strokeColor" json:"strokeColor,omitempty"`
	StrokeWidth float64  `mapstructure:"strokeWidth" json:"strokeWidth,omitempty"`
	Cursor      Cursor   `mapstructure:"cursor" json:"cursor,omitempty"`
	BorderWidth int      `mapstructure:"borderWidth" json:"borderWidth,omitempty"`
	BorderColor string   `mapstructure:"borderColor" json:"borderColor,omitempty"`
	BorderStyle string   `mapstructure:"borderStyle" json:"borderStyle,omitempty"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		SizeUnit:    DefaultSizeUnit,
		Background:  DefaultBackground,
		StrokeColor: DefaultStrokeColor,
		StrokeWidth: DefaultStrokeWidth,
		Cursor:      DefaultCursor,
		BorderColor: BorderNone,
		BorderStyle: BorderNone,
	}
}

// merged lays o over the defaults. Values that would fail validation
// are replaced by their default.
func (o Options) merged() Options {
	m := DefaultOptions()

	if validDimension(o.Width) {
		m.Width = o.Width
	}
	if validDimension(o.Height) {
		m.Height = o.Height
	}
	if validUnit(o.SizeUnit) {
		m.SizeUnit = o.SizeUnit
	}
	if IsHexColor(o.Background) {
		m.Background = o.Background
	}
	if IsHexColor(o.StrokeColor) {
		m.StrokeColor = o.StrokeColor
	}
	if o.StrokeWidth != 0 {
		m.StrokeWidth = ClampStrokeWidth(o.StrokeWidth)
	}
	if o.Cursor != "" {
		m.Cursor = NormalizeCursor(o.Cursor)
	}
	if o.BorderWidth > 0 {
		m.BorderWidth = o.BorderWidth
	}
	if IsHexColor(o.BorderColor) {
		m.BorderColor = o.BorderColor
	}
	if o.BorderStyle != "" {
		m.BorderStyle = o.BorderStyle
	}

	return m
}

// DecodeOptions decodes a loosely typed key/value map into Options.
// Numeric keys accept numbers and numeric strings; anything else decodes
// to NaN and is later treated like any other invalid number.
func DecodeOptions(in map[string]any) (Options, error) {
	var out Options
	if len(in) == 0 {
		return out, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(lenientNumberHook),
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return Options{}, errors.Wrap(err, "DecodeOptions: decoder setup")
	}

	if err := dec.Decode(in); err != nil {
		return Options{}, errors.Wrap(err, "DecodeOptions")
	}

	return out, nil
}

func lenientNumberHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	s := strings.TrimSpace(reflect.ValueOf(data).String())
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), nil
		}
		return f, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return -1, nil
		}
		return int(f), nil
	}

	return data, nil
}
