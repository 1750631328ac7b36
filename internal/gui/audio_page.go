package gui

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/direction"
	"codeberg.org/snonux/lingoflow/internal/guard"
	"codeberg.org/snonux/lingoflow/internal/orchestrator"
)

// audioPage uploads one audio file, shows transcript, summary and
// sentiment, and translates transcript and summary in either direction.
type audioPage struct {
	app     *Application
	content fyne.CanvasObject

	job *backend.AudioJob // selected file, only touched on the UI goroutine

	fileLabel    *widget.Label
	chooseBtn    *ttwidget.Button
	processBtn   *ttwidget.Button
	directionBtn *ttwidget.Button
	translateBtn *ttwidget.Button
	progress     *widget.ProgressBarInfinite

	transcriptLabel *widget.Label
	summaryLabel    *widget.Label
	overallLabel    *widget.Label
	chart           *SentimentChart

	translatedTranscriptCard *widget.Card
	translatedSummaryCard    *widget.Card
	translatedTranscript     *widget.Label
	translatedSummary        *widget.Label
}

func newAudioPage(a *Application) *audioPage {
	p := &audioPage{app: a}

	p.fileLabel = widget.NewLabel("No file selected")
	p.chooseBtn = ttwidget.NewButtonWithIcon("Choose File", theme.FolderOpenIcon(), p.onChooseFile)
	p.processBtn = ttwidget.NewButtonWithIcon("Process Audio", theme.UploadIcon(), p.onProcess)
	p.processBtn.Importance = widget.HighImportance
	p.directionBtn = ttwidget.NewButtonWithIcon(a.orch.Direction().String(), theme.ViewRefreshIcon(), p.onToggleDirection)
	p.translateBtn = ttwidget.NewButtonWithIcon("Translate Results", theme.ConfirmIcon(), p.onTranslate)

	p.progress = widget.NewProgressBarInfinite()
	p.progress.Hide()

	p.transcriptLabel = widget.NewLabel("")
	p.transcriptLabel.Wrapping = fyne.TextWrapWord
	p.summaryLabel = widget.NewLabel("")
	p.summaryLabel.Wrapping = fyne.TextWrapWord
	p.overallLabel = widget.NewLabel("")
	p.chart = NewSentimentChart()

	p.translatedTranscript = widget.NewLabel("")
	p.translatedTranscript.Wrapping = fyne.TextWrapWord
	p.translatedSummary = widget.NewLabel("")
	p.translatedSummary.Wrapping = fyne.TextWrapWord
	p.translatedTranscriptCard = widget.NewCard(a.orch.Direction().LabelFor(direction.SlotTranscript), "", p.translatedTranscript)
	p.translatedSummaryCard = widget.NewCard(a.orch.Direction().LabelFor(direction.SlotSummary), "", p.translatedSummary)

	toolbar := container.NewHBox(
		p.chooseBtn,
		p.processBtn,
		widget.NewSeparator(),
		p.directionBtn,
		p.translateBtn,
		layoutSpacer(),
		p.fileLabel,
	)

	results := container.NewVBox(
		widget.NewCard("Transcript", "", p.transcriptLabel),
		widget.NewCard("Summary", "", p.summaryLabel),
		widget.NewCard("Sentiment", "", container.NewVBox(p.overallLabel, p.chart)),
		p.translatedTranscriptCard,
		p.translatedSummaryCard,
	)

	p.content = container.NewBorder(
		container.NewVBox(toolbar, p.progress, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(results),
	)
	return p
}

func (p *audioPage) setupTooltips() {
	p.chooseBtn.SetToolTip("Select an audio file (mp3, wav, m4a)")
	p.processBtn.SetToolTip("Transcribe, summarize and score sentiment")
	p.directionBtn.SetToolTip("Toggle translation direction")
	p.translateBtn.SetToolTip("Translate transcript and summary")
}

func (p *audioPage) updateAffordances(orch *orchestrator.Orchestrator) {
	busy := orch.Busy(guard.Audio)
	setEnabled(!busy && p.job != nil, p.processBtn)
	setEnabled(!busy && orch.CanTranslateTranscript(), p.translateBtn)
	if busy {
		p.progress.Show()
		p.progress.Start()
	} else {
		p.progress.Stop()
		p.progress.Hide()
	}
}

func (p *audioPage) onChooseFile() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, p.app.window)
			return
		}
		if reader == nil {
			return // cancelled
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to read audio file: %w", err), p.app.window)
			return
		}
		p.selectJob(backend.AudioJob{Name: reader.URI().Name(), Data: data})
	}, p.app.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm"}))
	fileDialog.Show()
}

func (p *audioPage) selectJob(job backend.AudioJob) {
	p.job = &job
	p.fileLabel.SetText(fmt.Sprintf("%s (%d KB)", job.Name, len(job.Data)/1024))
	p.app.updateAffordances()
}

func (p *audioPage) onProcess() {
	if p.job == nil {
		return
	}
	job := *p.job
	p.app.submit("Processing "+job.Name, func(ctx context.Context) {
		transcript, err := p.app.orch.SubmitAudio(ctx, job)
		if err == nil {
			fyne.Do(func() { p.showTranscript(transcript) })
		}
		p.app.handleSubmitError(backend.OpProcessAudio, err)
	})
}

func (p *audioPage) onToggleDirection() {
	d := p.app.orch.ToggleDirection()
	p.directionBtn.SetText(d.String())
}

func (p *audioPage) onTranslate() {
	p.app.submit("Translating transcript and summary", func(ctx context.Context) {
		multi, err := p.app.orch.SubmitTranslateMultiple(ctx)
		if err == nil {
			fyne.Do(func() { p.showMultiTranslation(multi) })
		}
		p.app.handleSubmitError(backend.OpTranslateMultiple, err)
	})
}

func (p *audioPage) showTranscript(t orchestrator.Transcript) {
	if t.Transcript == "" {
		p.transcriptLabel.SetText("No speech recognised")
	} else {
		p.transcriptLabel.SetText(t.Transcript)
	}
	p.summaryLabel.SetText(t.Summary)
	p.overallLabel.SetText(overallText(t.OverallSentiment, t.Vector))
	p.chart.SetVector(t.Vector)

	// A new transcript starts a fresh chain, the old translation is gone
	p.translatedTranscript.SetText("")
	p.translatedSummary.SetText("")
	p.app.updateAffordances()
}

func (p *audioPage) showMultiTranslation(m orchestrator.MultiTranslation) {
	p.translatedTranscriptCard.SetTitle(m.TranscriptLabel())
	p.translatedSummaryCard.SetTitle(m.SummaryLabel())
	p.translatedTranscript.SetText(m.TranslatedText1)
	p.translatedSummary.SetText(m.TranslatedText2)
}
