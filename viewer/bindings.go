package main

import (
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/viewer/controls"
	"github.com/hajimehoshi/ebiten/v2"
)

// navKeys are polled every update and held down for continuous flight
var navKeys = map[ebiten.Key]renderer.Key{
	ebiten.KeyW:         renderer.KeyW,
	ebiten.KeyS:         renderer.KeyS,
	ebiten.KeyArrowUp:   renderer.KeyArrowUp,
	ebiten.KeyArrowDown: renderer.KeyArrowDown,
}

// commandKeys fire once per press
var commandKeys = map[ebiten.Key]controls.Command{
	ebiten.KeyR:            {Kind: controls.Reset},
	ebiten.KeyP:            {Kind: controls.Capture},
	ebiten.KeyD:            {Kind: controls.ToggleDensity},
	ebiten.KeyF:            {Kind: controls.ToggleVariant},
	ebiten.KeyBracketLeft:  {Kind: controls.AdjustSize, Delta: -1},
	ebiten.KeyBracketRight: {Kind: controls.AdjustSize, Delta: 1},
	ebiten.KeyDigit1:       {Kind: controls.SelectMode, Mode: material.ModeLinear},
	ebiten.KeyDigit2:       {Kind: controls.SelectMode, Mode: material.ModeEaseIn},
	ebiten.KeyDigit3:       {Kind: controls.SelectMode, Mode: material.ModeEaseInStrong},
	ebiten.KeyDigit4:       {Kind: controls.SelectMode, Mode: material.ModeEaseOut},
	ebiten.KeyDigit5:       {Kind: controls.SelectMode, Mode: material.ModeSqrt},
	ebiten.KeyDigit6:       {Kind: controls.SelectMode, Mode: material.ModeCompressed},
}
