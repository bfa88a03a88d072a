//go:build !windows

package gui

import (
	"context"

	"drawpad.app/drawpad/internal/config"
	"drawpad.app/drawpad/internal/surface"
)

// NewFyneScreen .
func NewFyneScreen(ctx context.Context, version string, conf *config.Config, opts surface.Options, so ...surface.SurfaceOption) *FyneScreen {
	return initFyneNewScreen(ctx, newApp(conf), version, conf, opts, so...)
}
