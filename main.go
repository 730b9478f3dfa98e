package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/storage"

	"WebCanvas/internal/canvas"
	"WebCanvas/internal/config"
	"WebCanvas/internal/state"
	"WebCanvas/internal/store"
	"WebCanvas/internal/surface"
	"WebCanvas/internal/ui"
)

const (
	AppID = "io.webcanvas.overlay"
	// CustomURLScheme wraps the page URL when launched from a browser link,
	// e.g. webcanvas://https://example.com/post.
	CustomURLScheme = "webcanvas://"
	BlankPage       = "about:blank"
	LoadTimeout     = 5 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the TOML config file")
	storeDir := flag.String("store", "", "directory for saved drawings (overrides storage.dir)")
	watch := flag.Bool("watch", true, "reload the config file when it changes")
	flag.Parse()

	page := BlankPage
	if flag.NArg() > 0 {
		page = strings.TrimPrefix(flag.Arg(0), CustomURLScheme)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("[CONFIG] %v; using defaults", err)
		cfg = config.Default()
	}
	if *storeDir != "" {
		cfg.Storage.Dir = *storeDir
	}
	log.Printf("Starting session %s for %s", state.SessionID(), page)

	a := app.NewWithID(AppID)
	st := openStore(a, cfg)

	bg := surface.MustParseColor(cfg.Canvas.Background)
	ctrl := canvas.New(
		surface.NewRaster(cfg.Canvas.Width, cfg.Canvas.Height),
		surface.NewRaster(cfg.Canvas.Width, cfg.Canvas.Height),
		canvas.WithHistoryCap(cfg.Canvas.HistoryCap),
		canvas.WithBackground(bg),
		canvas.WithStrokeTemplate(cfg.StrokeTemplate()),
		canvas.WithStore(st, page, cfg.Storage.Autosave),
	)
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), LoadTimeout)
	if err := ctrl.Load(ctx); err != nil {
		log.Printf("[STORE] Starting blank: %v", err)
	}
	cancel()

	tools := state.NewToolState(cfg.Tool)
	overlay := ui.NewOverlay(a, cfg, ctrl, tools, page)

	if *watch {
		w, err := config.Watch(*configPath, config.DefaultDebounce, overlay.ApplyConfig)
		if err != nil {
			log.Printf("[CONFIG] Not watching %s: %v", *configPath, err)
		} else {
			defer w.Close()
		}
	}

	overlay.ShowAndRun()
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "webcanvas.toml"
	}
	return filepath.Join(dir, "webcanvas", "webcanvas.toml")
}

// openStore prefers the configured directory, then the app's storage root.
// Without either, drawings live only as long as the process.
func openStore(a fyne.App, cfg config.Config) store.Store {
	if cfg.Storage.Dir != "" {
		st, err := store.NewDirStore(cfg.Storage.Dir)
		if err == nil {
			log.Printf("[STORE] Saving drawings in %s", cfg.Storage.Dir)
			return st
		}
		log.Printf("[STORE] %v", err)
	}

	if root := a.Storage().RootURI(); root != nil {
		dir, err := appStoreDir(root)
		if err == nil {
			log.Printf("[STORE] Saving drawings in %s", dir)
			return store.NewURIStore(dir)
		}
		log.Printf("[STORE] %v", err)
	}

	log.Println("[STORE] Falling back to memory; drawings will not survive a restart")
	return store.NewMemory()
}

func appStoreDir(root fyne.URI) (fyne.URI, error) {
	dir, err := storage.Child(root, "drawings")
	if err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}
	ok, err := storage.Exists(dir)
	if err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}
	if !ok {
		if err := storage.CreateListable(dir); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return dir, nil
}
