//go:build js && wasm

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/esimov/bhaidooj-wasm/app"
	"github.com/esimov/bhaidooj-wasm/canvas"
	"github.com/esimov/bhaidooj-wasm/celebration"
	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/controls"
	"github.com/esimov/bhaidooj-wasm/drag"
	"github.com/esimov/bhaidooj-wasm/facehint"
	"github.com/esimov/bhaidooj-wasm/locale"
	"github.com/esimov/bhaidooj-wasm/thali"
	"github.com/esimov/bhaidooj-wasm/wish"
)

func main() {
	// wasm_exec.js forwards stdout to the browser console.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	ctx := context.Background()
	loc := locale.New(canvas.Language())
	styler := thali.NewStyler()

	c := canvas.NewCanvas(loc, styler, facehint.NewDetector(config.MinDetectionQuality))
	defer c.Close()

	dispatcher := drag.NewDispatcher()
	defer dispatcher.Close()
	c.BindPointer(dispatcher)

	coord := app.New(app.Deps{
		Webcam:     c,
		Notifier:   c,
		Wishes:     wish.NewClient(canvas.Origin()),
		Styler:     styler,
		Translator: loc,
		View: app.ViewFunc(func(s app.State) {
			c.Render(s, controls.Project(s, loc))
		}),
	})
	defer coord.Close()

	overlay := celebration.NewOverlay(c.Effects(), coord.CelebrationComplete)
	defer overlay.Close()
	coord.SetCelebrator(overlay)

	panel := controls.New(dispatcher, c.TilakSurface(), coord)
	defer panel.Close()
	c.OnThali(func(s drag.Surface) {
		panel.AttachThali(s, c.WebcamBounds)
	})

	c.Bind(canvas.Handlers{
		StartWebcam: func() { coord.StartWebcam(ctx) },
		Upload:      coord.SetThali,
		SendWishes:  func() { coord.SendWishes(ctx) },
	})
	c.Render(coord.State(), controls.Project(coord.State(), loc))

	slog.Info("ready",
		config.LogKeyComponent, config.CompMain,
		config.LogKeyLang, loc.Lang(),
		config.LogKeyVersion, config.Version,
	)
	c.Wait()
}
