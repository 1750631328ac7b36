package gui

import (
	"context"
	"fmt"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/guard"
	"codeberg.org/snonux/lingoflow/internal/orchestrator"
)

// textPage holds the single input box and the results of the text
// workflows.
type textPage struct {
	app     *Application
	content fyne.CanvasObject

	input        *CustomMultiLineEntry
	counterLabel *widget.Label

	translateBtn *ttwidget.Button
	posBtn       *ttwidget.Button
	keywordsBtn  *ttwidget.Button
	analyzeBtn   *ttwidget.Button

	translationLabel *widget.Label
	posGrid          *fyne.Container
	keywordsGrid     *fyne.Container
	summaryLabel     *widget.Label
	chart            *SentimentChart
}

func newTextPage(a *Application) *textPage {
	p := &textPage{app: a}

	p.input = NewCustomMultiLineEntry()
	p.input.SetPlaceHolder("Enter English text here (up to 400 characters)... Press Escape to exit field")
	p.input.Wrapping = fyne.TextWrapWord
	p.input.SetMinRowsVisible(4)
	p.input.SetOnSubmit(p.onTranslate)
	p.input.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	p.counterLabel = widget.NewLabel(fmt.Sprintf("0/%d", backend.MaxInputChars))
	p.input.OnChanged = func(text string) {
		p.counterLabel.SetText(fmt.Sprintf("%d/%d", utf8.RuneCountInString(text), backend.MaxInputChars))
		if utf8.RuneCountInString(text) > backend.MaxInputChars {
			p.counterLabel.Importance = widget.WarningImportance
		} else {
			p.counterLabel.Importance = widget.MediumImportance
		}
		p.counterLabel.Refresh()
	}

	// Create action buttons (tooltips will be set after tooltip layer is created)
	p.translateBtn = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), p.onTranslate)
	p.translateBtn.Importance = widget.HighImportance
	p.posBtn = ttwidget.NewButtonWithIcon("POS Tags", theme.ListIcon(), p.onPOS)
	p.keywordsBtn = ttwidget.NewButtonWithIcon("Keywords", theme.SearchIcon(), p.onKeywords)
	p.analyzeBtn = ttwidget.NewButtonWithIcon("Analyze", theme.InfoIcon(), p.onAnalyze)

	toolbar := container.NewHBox(
		p.translateBtn,
		p.posBtn,
		widget.NewSeparator(),
		p.keywordsBtn,
		widget.NewSeparator(),
		p.analyzeBtn,
		layoutSpacer(),
		p.counterLabel,
	)

	p.translationLabel = widget.NewLabel("")
	p.translationLabel.Wrapping = fyne.TextWrapWord
	p.posGrid = container.NewGridWithColumns(2)
	p.keywordsGrid = container.NewGridWithColumns(3)
	p.summaryLabel = widget.NewLabel("")
	p.summaryLabel.Wrapping = fyne.TextWrapWord
	p.chart = NewSentimentChart()

	results := container.NewVBox(
		widget.NewCard("Translation", "", p.translationLabel),
		widget.NewCard("Parts of Speech", "", p.posGrid),
		widget.NewCard("Translated Keywords", "", p.keywordsGrid),
		widget.NewCard("Analysis", "", container.NewVBox(p.summaryLabel, p.chart)),
	)

	p.content = container.NewBorder(
		container.NewVBox(p.input, toolbar, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(results),
	)
	return p
}

func (p *textPage) setupTooltips() {
	p.translateBtn.SetToolTip("Translate English to Telugu")
	p.posBtn.SetToolTip("Tag parts of speech of the Telugu translation")
	p.keywordsBtn.SetToolTip("Extract the most relevant keywords and translate them")
	p.analyzeBtn.SetToolTip("Translate, summarize and score sentiment")
}

func (p *textPage) updateAffordances(orch *orchestrator.Orchestrator) {
	setEnabled(!orch.Busy(guard.Translation), p.translateBtn, p.posBtn, p.analyzeBtn)
	setEnabled(!orch.Busy(guard.Keyword), p.keywordsBtn)
}

func (p *textPage) onTranslate() {
	text := p.input.Text
	p.app.submit("Translating", func(ctx context.Context) {
		translated, err := p.app.orch.SubmitTranslate(ctx, text)
		if err == nil {
			fyne.Do(func() { p.translationLabel.SetText(translated) })
		}
		p.app.handleSubmitError(backend.OpTranslate, err)
	})
}

func (p *textPage) onPOS() {
	text := p.input.Text
	p.app.submit("Tagging parts of speech", func(ctx context.Context) {
		tags, err := p.app.orch.SubmitPOS(ctx, text)
		if err == nil {
			fyne.Do(func() { p.showPOS(tags) })
		}
		p.app.handleSubmitError(backend.OpPOS, err)
	})
}

func (p *textPage) onKeywords() {
	text := p.input.Text
	p.app.submit("Translating keywords", func(ctx context.Context) {
		keywords, err := p.app.orch.SubmitKeywordTranslate(ctx, text)
		if err == nil {
			fyne.Do(func() { p.showKeywords(keywords) })
		}
		p.app.handleSubmitError(backend.OpTranslateKeywords, err)
	})
}

func (p *textPage) onAnalyze() {
	text := p.input.Text
	p.app.submit("Analyzing", func(ctx context.Context) {
		analysis, err := p.app.orch.SubmitTextAnalysis(ctx, text)
		if err == nil {
			fyne.Do(func() { p.showAnalysis(analysis) })
		}
		p.app.handleSubmitError(backend.OpProcessText, err)
	})
}

func (p *textPage) showPOS(tags []backend.POSTag) {
	objects := []fyne.CanvasObject{boldLabel("Token"), boldLabel("POS")}
	for _, tag := range tags {
		objects = append(objects, widget.NewLabel(tag.Token), widget.NewLabel(tag.POS))
	}
	p.posGrid.Objects = objects
	p.posGrid.Refresh()
}

func (p *textPage) showKeywords(keywords []backend.Keyword) {
	objects := []fyne.CanvasObject{boldLabel("Keyword"), boldLabel("Telugu"), boldLabel("Score")}
	for _, k := range keywords {
		objects = append(objects,
			widget.NewLabel(k.Keyword),
			widget.NewLabel(k.TranslatedKeyword),
			widget.NewLabel(fmt.Sprintf("%.2f", k.Score)),
		)
	}
	p.keywordsGrid.Objects = objects
	p.keywordsGrid.Refresh()
}

func (p *textPage) showAnalysis(a orchestrator.Analysis) {
	if a.TranslatedText != "" {
		p.translationLabel.SetText(a.TranslatedText)
	}
	p.summaryLabel.SetText(fmt.Sprintf("Summary: %s\n%s", a.Summary, overallText(a.OverallSentiment, a.Vector)))
	p.chart.SetVector(a.Vector)
}
