// Package views holds the tview screens: prejoin, lobby and
// conference. Views render whatever the screen controller tells them
// to; none of them decides visibility on its own.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PrejoinView walks the user through device and name setup before
// joining: display name, then microphone, then camera.
type PrejoinView struct {
	app         *tview.Application
	container   *tview.Flex
	headerBox   *tview.Box
	textView    *tview.TextView
	inputField  *tview.InputField
	onSubmit    func(displayName string, audioMuted, videoMuted bool)
	currentStep int
	displayName string
	audioMuted  bool
}

// NewPrejoinView creates the prejoin screen. onSubmit fires once all
// three steps are answered.
func NewPrejoinView(
	app *tview.Application,
	onSubmit func(string, bool, bool),
) *PrejoinView {
	p := &PrejoinView{
		app:         app,
		onSubmit:    onSubmit,
		currentStep: 0,
	}
	p.buildUI()
	return p
}

// Primitive returns the root primitive for page mounting.
func (p *PrejoinView) Primitive() tview.Primitive {
	return p.container
}

func (p *PrejoinView) buildUI() {
	p.headerBox = tview.NewBox()
	p.headerBox.SetBorder(true)
	p.headerBox.SetTitle(" MEET TERMINAL v1.0.0 ")
	p.headerBox.SetBackgroundColor(tcell.ColorBlack)

	p.textView = tview.NewTextView()
	p.textView.SetDynamicColors(true)
	p.textView.SetTextAlign(tview.AlignLeft)
	p.textView.SetBackgroundColor(tcell.ColorBlack)

	p.inputField = tview.NewInputField()
	p.inputField.SetLabel("> ")
	p.inputField.SetPlaceholder("Type here...")
	p.inputField.SetFieldBackgroundColor(tcell.ColorBlack)
	p.inputField.SetFieldTextColor(tcell.ColorWhite)
	p.inputField.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			p.handleEnter()
		}
	})

	p.container = tview.NewFlex()
	p.container.SetDirection(tview.FlexRow)
	p.container.SetBackgroundColor(tcell.ColorBlack)
	p.container.AddItem(p.headerBox, 3, 0, false)
	p.container.AddItem(p.textView, 0, 1, false)
	p.container.AddItem(p.inputField, 1, 0, true)
}

func (p *PrejoinView) handleEnter() {
	text := p.inputField.GetText()
	if text == "" {
		// A bare enter accepts the prefilled name at step 0.
		if p.currentStep == 0 && p.displayName != "" {
			p.currentStep = 1
			p.typewriterText("\n[cyan]Join with microphone on? (y/n):[white] ")
		}
		return
	}
	p.inputField.SetText("")

	switch p.currentStep {
	case 0:
		if !ValidateDisplayName(text) {
			p.typewriterText("\n[red]✗ Name must be 1-64 visible characters.[white]\n[cyan]Your display name:[white] ")
			return
		}
		p.displayName = strings.TrimSpace(text)
		p.currentStep = 1
		p.typewriterText("\n[cyan]Join with microphone on? (y/n):[white] ")
	case 1:
		p.audioMuted = !isYes(text)
		p.currentStep = 2
		p.typewriterText("\n[cyan]Join with camera on? (y/n):[white] ")
	default:
		videoMuted := !isYes(text)
		p.onSubmit(p.displayName, p.audioMuted, videoMuted)
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

// ValidateDisplayName rejects blank and oversized names.
func ValidateDisplayName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	if len(trimmed) > 64 {
		return false
	}
	return true
}

// typewriterText displays text with fast character-by-character
// animation preserving color codes and newlines.
func (p *PrejoinView) typewriterText(text string) {
	go func() {
		for _, char := range text {
			p.app.QueueUpdateDraw(func() {
				current := p.textView.GetText(false)
				p.textView.SetText(current + string(char))
			})
			time.Sleep(10 * time.Millisecond) // Fast for high-tech feel
		}
	}()
}

// StartPrompt resets the screen to step 0. prefill, when non-empty,
// is suggested as the display name.
func (p *PrejoinView) StartPrompt(prefill string) {
	p.currentStep = 0
	p.textView.SetText("")
	intro := `[yellow]! Setting up your devices...[white]
[green]✓ Audio and video devices detected.[white]

[cyan]Your display name:[white] `
	if prefill != "" {
		intro = fmt.Sprintf(`[yellow]! Setting up your devices...[white]
[green]✓ Audio and video devices detected.[white]

[cyan]Your display name[white] [dim](enter for %q)[white][cyan]:[white] `, prefill)
		p.displayName = prefill
	}
	p.typewriterText(intro)
}
