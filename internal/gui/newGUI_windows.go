package gui

import (
	"context"

	"golang.org/x/sys/windows"

	"drawpad.app/drawpad/internal/config"
	"drawpad.app/drawpad/internal/surface"
)

// NewFyneScreen .
func NewFyneScreen(ctx context.Context, version string, conf *config.Config, opts surface.Options, so ...surface.SurfaceOption) *FyneScreen {
	hideConsole()
	return initFyneNewScreen(ctx, newApp(conf), version, conf, opts, so...)
}

func hideConsole() {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	getConsoleWindow := kernel32.NewProc("GetConsoleWindow")
	showWindow := windows.NewLazySystemDLL("user32.dll").NewProc("ShowWindow")

	hwnd, _, _ := getConsoleWindow.Call()
	if hwnd != 0 {
		const SW_HIDE = 0
		showWindow.Call(hwnd, SW_HIDE)
	}
}
