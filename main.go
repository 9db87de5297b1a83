// Package main provides the entry point for the SmartDIP desktop client.
package main

import (
	"context"
	"log"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/pflag"

	"smartdip/internal/app"
	"smartdip/internal/backend"
	"smartdip/internal/config"
	"smartdip/internal/ops"
	"smartdip/internal/version"
	"smartdip/ui/mainwindow"
	"smartdip/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := pflag.StringP("config", "c", "", "YAML configuration file")
	backendURL := pflag.String("backend", "", "processing service URL (overrides config)")
	pflag.Parse()

	log.Printf("Starting SmartDIP v%s", version.Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}

	appPrefs := prefs.Load()

	session := app.NewSession()
	session.Compare().Configure(cfg.Compare.MagnifierRadius, cfg.Compare.MagnifierZoom, cfg.Compare.DecodeTimeout)
	session.SetDarkMode(appPrefs.Bool(prefs.KeyDarkMode, false))

	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout, backend.WithDecodeWorkers(cfg.Backend.DecodeWorkers))
	go checkBackend(client)

	a := fyneapp.NewWithID("io.smartdip.client")
	a.Settings().SetTheme(app.NewTheme(session.DarkMode()))

	win := mainwindow.New(a, session, client, cfg, appPrefs)
	if pflag.NArg() > 0 {
		if err := win.OpenImage(pflag.Arg(0)); err != nil {
			log.Printf("Failed to open %s: %v", pflag.Arg(0), err)
		}
	} else {
		win.RestoreLastImage()
	}

	win.ShowAndRun()

	if err := appPrefs.SaveIfChanged(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.ClearUploads(ctx); err != nil {
		log.Printf("backend: clear uploads: %v", err)
	}
}

// checkBackend logs whether the service is reachable and which catalogue
// operations it does not provide.
func checkBackend(client *backend.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	avail, err := client.Operations(ctx)
	if err != nil {
		log.Printf("backend: unavailable: %v", err)
		return
	}
	log.Printf("backend: reachable, %d categories listed", len(avail.Operations))
	for _, name := range avail.Unsupported(ops.Catalog()) {
		log.Printf("backend: operation %q not provided by the service", name)
	}
}
