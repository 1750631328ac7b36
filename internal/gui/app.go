package gui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"go.uber.org/zap"

	"codeberg.org/snonux/lingoflow/internal"
	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/direction"
	"codeberg.org/snonux/lingoflow/internal/guard"
	"codeberg.org/snonux/lingoflow/internal/notify"
	"codeberg.org/snonux/lingoflow/internal/orchestrator"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// Pages
	textPage  *textPage
	audioPage *audioPage

	statusLabel *widget.Label

	// Workflow state lives in the orchestrator, the widgets only mirror it
	orch   *orchestrator.Orchestrator
	config *Config
	logger *zap.SugaredLogger

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds GUI application configuration
type Config struct {
	Client       backend.Client
	Logger       *zap.SugaredLogger
	TextTimeout  time.Duration
	AudioTimeout time.Duration
	Reverse      bool // start with Telugu → English for transcript translation
}

// New creates a new GUI application
func New(config *Config) *Application {
	return newApplication(app.NewWithID("org.codeberg.snonux.lingoflow"), config)
}

func newApplication(fyneApp fyne.App, config *Config) *Application {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if config.Client == nil {
		config.Client = backend.NewHTTPClient(backend.DefaultConfig().BaseURL, nil, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())

	fyneApp.SetIcon(GetAppIcon())

	a := &Application{
		app:    fyneApp,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	dir := direction.Forward
	if config.Reverse {
		dir = direction.Reverse
	}
	a.orch = orchestrator.New(config.Client, a,
		orchestrator.WithLogger(logger),
		orchestrator.WithTimeouts(config.TextTimeout, config.AudioTimeout),
		orchestrator.WithDirection(dir),
	)

	a.setupUI()

	// Busy changes arrive from worker goroutines
	a.orch.Guard().OnChange(func(c guard.Class, busy bool) {
		fyne.Do(a.updateAffordances)
	})
	a.updateAffordances()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("LingoFlow v%s - English/Telugu Analysis", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(900, 720))

	a.textPage = newTextPage(a)
	a.audioPage = newAudioPage(a)

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Text", theme.DocumentIcon(), a.textPage.content),
		container.NewTabItemWithIcon("Audio", theme.MediaMusicIcon(), a.audioPage.content),
	)

	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(
		nil,
		container.NewVBox(widget.NewSeparator(), a.statusLabel),
		nil, nil,
		tabs,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	// Now that tooltip layer is created, set all tooltips
	a.textPage.setupTooltips()
	a.audioPage.setupTooltips()

	a.window.SetOnClosed(func() {
		// In-flight requests are cancelled, their guards released
		a.cancel()
		a.wg.Wait()
	})
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// Notify implements notify.Notifier. Errors additionally open a dialog.
func (a *Application) Notify(kind notify.Kind, message string) {
	fyne.Do(func() {
		a.updateStatus(message)
		if kind == notify.Error {
			dialog.ShowError(errors.New(message), a.window)
		}
	})
}

// submit runs a workflow off the UI goroutine. Results are applied with
// fyne.Do by the workflow itself.
func (a *Application) submit(name string, workflow func(ctx context.Context)) {
	a.updateStatus(name + "...")
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		workflow(a.ctx)
	}()
}

// updateAffordances enables and disables buttons from the guard state.
func (a *Application) updateAffordances() {
	a.textPage.updateAffordances(a.orch)
	a.audioPage.updateAffordances(a.orch)
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

// handleSubmitError logs errors the notifier did not already surface.
func (a *Application) handleSubmitError(op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, orchestrator.ErrBusy):
		fyne.Do(func() { a.updateStatus("Please wait, a request is already running") })
	case errors.Is(err, orchestrator.ErrNoTranscript):
		fyne.Do(func() { a.updateStatus("Process an audio file with transcript and summary first") })
	default:
		a.logger.Debugw("workflow ended with error", "op", op, "error", err)
	}
}
