// Package theme holds the colors of the editor window chrome. The wallpaper
// itself never uses theme colors.
package theme

import (
	"image/color"
)

// Theme defines the color palette for the application UI.
type Theme struct {
	Name string

	// General
	Background color.RGBA // window area around the canvas preview
	Foreground color.RGBA // status text
	CanvasEdge color.RGBA // outline drawn around the preview

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonTextHover       color.RGBA
	ButtonTextPress       color.RGBA
	ButtonBorder          color.RGBA

	// Prompt and messages
	FieldBackground     color.RGBA
	FieldText           color.RGBA
	MessageBackground   color.RGBA
	MessageText         color.RGBA
	ErrorText           color.RGBA
	IndicatorBackground color.RGBA
	IndicatorText       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{200, 200, 200, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		CanvasEdge:            color.RGBA{120, 120, 120, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextHover:       color.RGBA{0, 0, 0, 255},
		ButtonTextPress:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		FieldBackground:       color.RGBA{255, 255, 255, 255},
		FieldText:             color.RGBA{0, 0, 0, 255},
		MessageBackground:     color.RGBA{0, 0, 0, 200},
		MessageText:           color.RGBA{255, 255, 255, 255},
		ErrorText:             color.RGBA{255, 120, 120, 255},
		IndicatorBackground:   color.RGBA{0, 0, 0, 160},
		IndicatorText:         color.RGBA{255, 255, 255, 255},
	}
}
