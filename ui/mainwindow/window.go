// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"smartdip/internal/app"
	"smartdip/internal/backend"
	"smartdip/internal/compare"
	"smartdip/internal/config"
	"smartdip/internal/raster"
	"smartdip/internal/version"
	"smartdip/ui/canvas"
	"smartdip/ui/panels"
	"smartdip/ui/prefs"
)

const (
	appTitle      = "SmartDIP"
	watchInterval = 2 * time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	client  *backend.Client
	cfg     *config.Config
	prefs   *prefs.Prefs

	view      *canvas.ImageView
	inspector *panels.InspectorPanel
	analysis  *panels.AnalysisPanel
	queue     *panels.QueuePanel
	compare   *panels.ComparePanel
	statusBar *widget.Label

	watcher *app.FileWatcher

	darkModeItem *fyne.MenuItem
	watchItem    *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, client *backend.Client, cfg *config.Config, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		client:  client,
		cfg:     cfg,
		prefs:   p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.Resize(fyne.NewSize(1280, 820))
	mw.SetOnClosed(mw.stopWatching)

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")

	mw.view = canvas.NewImageView()
	mw.view.SetMinSize(fyne.NewSize(480, 360))
	mw.inspector = panels.NewInspectorPanel(mw.view)

	mw.analysis = panels.NewAnalysisPanel(mw.session, mw.cfg.Analysis, mw.prefs)

	mw.queue = panels.NewQueuePanel(mw.session, mw.client, mw.updateStatus)
	mw.queue.SetWindow(mw.Window)

	mode, err := compare.ParseMode(mw.cfg.Compare.DefaultMode)
	if err != nil {
		mode = compare.ModeSlider
	}
	mw.compare = panels.NewComparePanel(mw.session, mw.prefs, mode)

	imageTab := container.NewBorder(nil, nil, nil, mw.inspector.Container(), mw.view)
	tabs := container.NewAppTabs(
		container.NewTabItem("Image", imageTab),
		container.NewTabItem("Analysis", mw.analysis.Container()),
		container.NewTabItem("Compare", mw.compare.Container()),
	)

	split := container.NewHSplit(mw.queue.Container(), tabs)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Save Result...", mw.onSaveResult),
		fyne.NewMenuItem("Save Result on Server", mw.onSaveResultRemote),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Recipe...", mw.onExportRecipe),
		fyne.NewMenuItem("Import Recipe...", mw.onImportRecipe),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Server Uploads", mw.onClearUploads),
	)
	// fyne appends Quit to the first menu.

	mw.darkModeItem = fyne.NewMenuItem("Dark Mode", mw.onToggleDarkMode)
	mw.darkModeItem.Checked = mw.session.DarkMode()
	mw.watchItem = fyne.NewMenuItem("Reload Image on Change", mw.onToggleWatch)
	mw.watchItem.Checked = mw.prefs.Bool(prefs.KeyWatchImage, true)

	viewMenu := fyne.NewMenu("View", mw.darkModeItem, mw.watchItem)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventImageLoaded, func(data interface{}) {
		img, _ := data.(*raster.Image)
		mw.showImage(img)
		if path := mw.session.ImagePath(); path != "" {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
		}
	})

	mw.session.On(app.EventUploaded, func(data interface{}) {
		mw.showImage(mw.session.Image())
		if name, ok := data.(string); ok {
			mw.updateStatus("Uploaded as " + name)
		}
	})

	mw.session.On(app.EventResultsReady, func(data interface{}) {
		if n, ok := data.(int); ok {
			mw.updateStatus(fmt.Sprintf("%d result(s) ready", n))
		}
	})

	mw.session.On(app.EventThemeChanged, func(data interface{}) {
		dark, _ := data.(bool)
		mw.app.Settings().SetTheme(app.NewTheme(dark))
		mw.prefs.SetBool(prefs.KeyDarkMode, dark)
		mw.darkModeItem.Checked = dark
		mw.MainMenu().Refresh()
	})
}

func (mw *MainWindow) showImage(img *raster.Image) {
	if img == nil {
		mw.view.SetImage(nil)
	} else {
		mw.view.SetImage(img.Std())
	}
	mw.inspector.SetImage(img)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// RestoreLastImage reopens the image from the previous session, if any.
func (mw *MainWindow) RestoreLastImage() {
	path := mw.prefs.String(prefs.KeyLastImage)
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("restore: %s: %v", path, err)
		return
	}
	if err := mw.OpenImage(path); err != nil {
		log.Printf("restore: %v", err)
	}
}

// OpenImage loads a local image, uploads it and starts watching the file.
func (mw *MainWindow) OpenImage(path string) error {
	if !raster.IsSupportedFormat(path) {
		return fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}
	if err := mw.session.LoadImage(path); err != nil {
		return err
	}
	log.Printf("image loaded: %s (%dx%d)", path, mw.session.Image().Width(), mw.session.Image().Height())
	mw.prefs.SetString(prefs.KeyLastImage, path)
	mw.saveLastDir(path)
	mw.upload(path)
	mw.startWatching(path)
	return nil
}

// upload sends the image to the backend in the background. Analysis works
// without the backend; only processing needs it.
func (mw *MainWindow) upload(path string) {
	mw.updateStatus("Uploading " + filepath.Base(path) + "...")
	gen := mw.session.Generation()
	go func() {
		f, err := os.Open(path)
		if err != nil {
			log.Printf("upload: %v", err)
			return
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), mw.cfg.Backend.Timeout)
		defer cancel()
		up, err := mw.client.Upload(ctx, path, f)
		if err != nil {
			log.Printf("backend: %v", err)
			mw.updateStatus("Backend unavailable: analysis only")
			return
		}
		if !mw.session.SetUpload(gen, up.Filename, up.Image) {
			log.Printf("backend: upload of %s superseded, ignored", filepath.Base(path))
		}
	}()
}

func (mw *MainWindow) startWatching(path string) {
	mw.stopWatching()
	if !mw.watchItem.Checked {
		return
	}
	w := app.NewFileWatcher(path, watchInterval)
	if w == nil {
		return
	}
	w.OnChange(func(p string) {
		log.Printf("watcher: %s changed, reloading", p)
		if err := mw.session.LoadImage(p); err != nil {
			log.Printf("watcher: %v", err)
			return
		}
		mw.upload(p)
	})
	w.Start()
	mw.watcher = w
}

func (mw *MainWindow) stopWatching() {
	if mw.watcher != nil {
		mw.watcher.Stop()
		mw.watcher = nil
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.OpenImage(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(raster.SupportedFormats))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveResult() {
	res, ok := mw.session.Selected()
	if !ok {
		dialog.ShowInformation("Save Result", "There is no processed result to save.", mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := raster.EncodePNG(writer, res.Image.Std()); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.saveLastDir(writer.URI().Path())
		mw.updateStatus("Saved " + writer.URI().Name())
	}, mw.Window)
	fd.SetFileName(res.Operation + ".png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveResultRemote() {
	res, ok := mw.session.Selected()
	if !ok {
		dialog.ShowInformation("Save Result", "There is no processed result to save.", mw.Window)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mw.cfg.Backend.Timeout)
		defer cancel()
		name, err := mw.client.SaveProcessed(ctx, res.Operation, res.Image.Std())
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Saved on server as " + name)
	}()
}

func (mw *MainWindow) onExportRecipe() {
	if mw.session.Queue().Len() == 0 {
		dialog.ShowError(app.ErrEmptyQueue, mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		if err := mw.session.ExportQueue(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Recipe exported to " + path)
	}, mw.Window)
	fd.SetFileName("recipe.json")
	fd.Show()
}

func (mw *MainWindow) onImportRecipe() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.session.ImportQueue(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus(fmt.Sprintf("Imported %d operation(s)", mw.session.Queue().Len()))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

func (mw *MainWindow) onClearUploads() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mw.cfg.Backend.Timeout)
		defer cancel()
		if err := mw.client.ClearUploads(ctx); err != nil {
			var apiErr *backend.APIError
			if errors.As(err, &apiErr) {
				dialog.ShowError(apiErr, mw.Window)
			} else {
				mw.updateStatus("Backend unavailable")
				log.Printf("backend: %v", err)
			}
			return
		}
		mw.updateStatus("Server uploads cleared")
	}()
}

func (mw *MainWindow) onToggleDarkMode() {
	mw.session.SetDarkMode(!mw.session.DarkMode())
}

func (mw *MainWindow) onToggleWatch() {
	on := !mw.watchItem.Checked
	mw.watchItem.Checked = on
	mw.prefs.SetBool(prefs.KeyWatchImage, on)
	mw.MainMenu().Refresh()
	if path := mw.session.ImagePath(); on && path != "" {
		mw.startWatching(path)
	} else {
		mw.stopWatching()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"An image-processing playground: queue OpenCV operations,\n"+
			"analyse the results and compare them with the original.\n\n"+
			"Difference backend: %s\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, compare.Backend(), version.BuildTime, version.GitCommit),
		mw.Window)
}
