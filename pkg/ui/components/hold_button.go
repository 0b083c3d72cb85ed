// Package components holds custom Fyne widgets shared by the app windows.
package components

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const holdTickInterval = 50 * time.Millisecond

// HoldButton is a button that must be held down for HoldDuration before it
// completes. A progress bar fills while the button is held and resets when
// the press is released or the pointer leaves the button. The widget drives
// its own ticker; callers only supply OnComplete.
type HoldButton struct {
	widget.BaseWidget
	Text         string
	HoldDuration time.Duration
	OnComplete   func()

	mu       sync.Mutex
	ticker   *time.Ticker
	holding  bool
	hovered  bool
	progress float64
}

// NewHoldButton creates a hold-to-activate button.
func NewHoldButton(text string, holdDuration time.Duration, onComplete func()) *HoldButton {
	b := &HoldButton{
		Text:         text,
		HoldDuration: holdDuration,
		OnComplete:   onComplete,
	}
	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer implements fyne.Widget
func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(b.Text, theme.ForegroundColor())
	text.Alignment = fyne.TextAlignCenter

	bg := canvas.NewRectangle(theme.ButtonColor())
	progressBar := canvas.NewRectangle(theme.PrimaryColor())

	return &holdButtonRenderer{
		button:      b,
		text:        text,
		bg:          bg,
		progressBar: progressBar,
	}
}

// Tapped implements fyne.Tappable
func (b *HoldButton) Tapped(*fyne.PointEvent) {}

// TappedSecondary implements fyne.SecondaryTappable
func (b *HoldButton) TappedSecondary(*fyne.PointEvent) {}

// MouseIn implements desktop.Hoverable
func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

// MouseMoved implements desktop.Hoverable
func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (b *HoldButton) MouseOut() {
	b.hovered = false
	// Leaving the button cancels the hold.
	b.stopHold()
	b.Refresh()
}

// MouseDown implements desktop.Mouseable
func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	b.startHold()
}

// MouseUp implements desktop.Mouseable
func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.stopHold()
}

func (b *HoldButton) startHold() {
	b.mu.Lock()
	if b.holding {
		b.mu.Unlock()
		return
	}
	b.holding = true
	b.progress = 0

	duration := b.HoldDuration
	if duration <= 0 {
		duration = 3 * time.Second
	}
	increment := float64(holdTickInterval) / float64(duration)

	ticker := time.NewTicker(holdTickInterval)
	b.ticker = ticker
	b.mu.Unlock()

	b.Refresh()

	go func() {
		for range ticker.C {
			b.mu.Lock()
			if !b.holding || b.ticker != ticker {
				b.mu.Unlock()
				return
			}
			b.progress += increment
			done := b.progress >= 1.0
			if done {
				b.progress = 1.0
				b.holding = false
				ticker.Stop()
				b.ticker = nil
			}
			b.mu.Unlock()

			fyne.Do(b.Refresh)

			if done {
				if b.OnComplete != nil {
					b.OnComplete()
				}
				return
			}
		}
	}()
}

func (b *HoldButton) stopHold() {
	b.mu.Lock()
	b.holding = false
	if b.ticker != nil {
		b.ticker.Stop()
		b.ticker = nil
	}
	b.progress = 0
	b.mu.Unlock()
	b.Refresh()
}

func (b *HoldButton) currentProgress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

type holdButtonRenderer struct {
	button      *HoldButton
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)

	// Progress bar fills from left to right
	progressWidth := size.Width * float32(r.button.currentProgress())
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))
	r.progressBar.Move(fyne.NewPos(0, 0))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	minWidth := textSize.Width + theme.Padding()*4
	minHeight := textSize.Height + theme.Padding()*2

	// Set minimum button size for better usability
	if minWidth < 300 {
		minWidth = 300
	}
	if minHeight < 80 {
		minHeight = 80
	}

	return fyne.NewSize(minWidth, minHeight)
}

func (r *holdButtonRenderer) Refresh() {
	r.text.Text = r.button.Text
	r.text.Color = theme.ForegroundColor()

	if r.button.hovered {
		r.bg.FillColor = theme.HoverColor()
	} else {
		r.bg.FillColor = theme.ButtonColor()
	}

	size := r.bg.Size()
	progressWidth := size.Width * float32(r.button.currentProgress())
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *holdButtonRenderer) Destroy() {}

func (r *holdButtonRenderer) BackgroundColor() color.Color {
	return theme.ButtonColor()
}
