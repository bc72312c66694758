package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/abac-toolkit/pkg/cascade"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleHeading    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStep       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFailed     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleTrace      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// flashDuration is how long a flashing message alternates styles.
const flashDuration = 500

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown: normal, inverted, normal,
// inverted, then normal for good.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashDuration {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

// flashes reports whether messages of type t flash.
func flashes(t MessageType) bool {
	return t != MsgInfo
}

func (c *Calculator) draw() {
	c.screen.Clear()
	w, h := c.screen.Size()

	switch c.mode {
	case ModeMenu:
		c.drawMenuOverlay(w, h)
	case ModeInput:
		c.drawChain(w, h)
		c.drawInputBox(w, h)
	case ModeResult:
		c.drawResult(w, h)
	case ModeHelp:
		c.drawHelp(w, h)
	}

	c.drawStatusBar(w, h)
}

func (c *Calculator) drawMenuOverlay(w, h int) {
	menuWidth := 50
	for _, item := range c.menuItems {
		if len(item)+6 > menuWidth {
			menuWidth = len(item) + 6
		}
	}
	if menuWidth > w {
		menuWidth = w
	}
	menuHeight := len(c.menuItems) + 4

	startX := (w - menuWidth) / 2
	startY := (h - menuHeight) / 2
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}

	c.drawTitledBox(startX, startY, menuWidth, menuHeight, truncate(c.title(), menuWidth-4))

	for i, item := range c.menuItems {
		style := styleMenu
		if i == c.menuSelected {
			style = styleMenuSel
		}
		padded := fmt.Sprintf(" %-*s", menuWidth-3, truncate(item, menuWidth-3))
		c.drawString(startX+1, startY+2+i, padded, style)
	}
}

// drawTitledBox draws a bordered box with optional title
func (c *Calculator) drawTitledBox(x, y, w, h int, title string) {
	c.screen.SetContent(x, y, '┌', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		c.screen.SetContent(x+i, y, '─', nil, styleBorder)
	}
	c.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)

	if title != "" {
		titleX := x + (w-len([]rune(title))-2)/2
		c.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		c.drawString(titleX+1, y, title, styleHeading)
		c.screen.SetContent(titleX+1+len([]rune(title)), y, ' ', nil, styleBorder)
	}

	for row := 1; row < h-1; row++ {
		c.screen.SetContent(x, y+row, '│', nil, styleBorder)
		for col := 1; col < w-1; col++ {
			c.screen.SetContent(x+col, y+row, ' ', nil, styleDefault)
		}
		c.screen.SetContent(x+w-1, y+row, '│', nil, styleBorder)
	}

	c.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		c.screen.SetContent(x+i, y+h-1, '─', nil, styleBorder)
	}
	c.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)
}

// drawChain lists the graphs of the run, marking those already answered.
func (c *Calculator) drawChain(w, h int) {
	c.drawString(1, 0, "Chain", styleHeading)
	answered := c.session.next - 1
	for i, g := range c.session.Chain() {
		if i+1 >= h-4 {
			break
		}
		mark := "  "
		if !c.session.Simple() && i < answered {
			mark = "✓ "
		}
		c.drawString(1, i+1, truncate(fmt.Sprintf("%s%d. %s", mark, i+1, g.Name), w-2), styleStep)
	}
}

func (c *Calculator) drawInputBox(w, h int) {
	p, ok := c.session.Prompt()
	if !ok {
		return
	}
	boxW := len([]rune(p.Label)) + 24
	if boxW < 50 {
		boxW = 50
	}
	if boxW > w {
		boxW = w
	}
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	c.drawBox(boxX, boxY, boxW, boxH, styleInput)
	c.drawString(boxX+2, boxY+1, p.Label, styleInput)
	c.drawString(boxX+2+len([]rune(p.Label)), boxY+1, c.inputBuffer+"_", styleInput)
}

func (c *Calculator) drawResult(w, h int) {
	lines := resultLines(c.session.Result(), c.showTrace)
	maxScroll := len(lines) - (h - 3)
	if maxScroll < 0 {
		maxScroll = 0
	}
	if c.scrollY > maxScroll {
		c.scrollY = maxScroll
	}
	for row, i := 0, c.scrollY; i < len(lines) && row < h-2; row, i = row+1, i+1 {
		l := lines[i]
		c.drawString(1, row, truncate(l.text, w-2), l.style)
	}
}

func (c *Calculator) drawHelp(w, h int) {
	help := []string{
		"Pick the graph a calculation starts from, then answer each prompt:",
		"the value entering the first graph, then the parameter of each graph",
		"(altitude, mass, wind...). The first graph's parameter is optional.",
		"",
		"Wind graphs accept value:headwind or value:tailwind; a bare negative",
		"value means tailwind.",
		"",
		"Simple mode reads every graph on its first curve without parameters.",
		"",
		"Result view:  t:Trace  r:Restart  ↑↓:Scroll  Esc:Menu  q:Quit",
	}
	boxW := 76
	if boxW > w {
		boxW = w
	}
	boxH := len(help) + 4
	x, y := (w-boxW)/2, (h-boxH)/2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	c.drawTitledBox(x, y, boxW, boxH, "Help")
	for i, line := range help {
		c.drawString(x+2, y+2+i, truncate(line, boxW-4), styleMenu)
	}
}

func (c *Calculator) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		c.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	c.drawString(1, y, truncate(c.title(), w/3), styleStatus)

	modeStr := c.modeString()
	c.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if c.message != "" {
		style := styleMsgInfo
		switch c.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess, MsgWarning:
			style = styleMsgSuccess
		}
		if flashes(c.messageType) && c.messageFlashStart > 0 {
			elapsed := nowMillis() - c.messageFlashStart
			if flashInverted(elapsed) {
				style = style.Reverse(true)
			}
		}
		msg := truncate(c.message, w/3)
		c.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		c.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	c.drawString(1, y, c.helpString(), styleHelp)
}

func (c *Calculator) drawBox(x, y, w, h int, style tcell.Style) {
	c.screen.SetContent(x, y, '┌', nil, styleBorder)
	c.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	c.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	c.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		c.screen.SetContent(i, y, '─', nil, styleBorder)
		c.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		c.screen.SetContent(x, i, '│', nil, styleBorder)
		c.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			c.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (c *Calculator) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		c.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func (c *Calculator) modeString() string {
	switch c.mode {
	case ModeMenu:
		return "MENU"
	case ModeInput:
		return "INPUT"
	case ModeResult:
		if c.showTrace {
			return "RESULT + TRACE"
		}
		return "RESULT"
	case ModeHelp:
		return "HELP"
	default:
		return ""
	}
}

func (c *Calculator) helpString() string {
	switch c.mode {
	case ModeMenu:
		return "↑↓:Select  Enter:Start  ?:Help  q:Quit"
	case ModeInput:
		return "Type a value  Enter:Confirm  Esc:Menu"
	case ModeResult:
		return "t:Trace  r:Restart  ↑↓:Scroll  Esc:Menu  q:Quit"
	default:
		return "Any key:Back"
	}
}

// line is one styled row of the result view.
type line struct {
	text  string
	style tcell.Style
}

// resultLines formats a cascade result, with the resolver trace appended
// when trace is set.
func resultLines(res *cascade.Result, trace bool) []line {
	if res == nil {
		return nil
	}
	var out []line
	out = append(out, line{"Steps", styleHeading})
	for i, s := range res.Steps {
		text := fmt.Sprintf("%d. %s: %.2f -> %.2f", i+1, s.GraphName, s.Input, s.Output)
		if s.Parameter != nil {
			text += fmt.Sprintf(" at %g", *s.Parameter)
		}
		if s.Kind != "" {
			text += " [" + s.Kind + "]"
		}
		out = append(out, line{text, styleStep})
		if s.CurveUsed != "" {
			out = append(out, line{"     " + s.CurveUsed, styleMenu})
		}
	}
	out = append(out, line{"", styleDefault})
	if res.Success {
		out = append(out, line{fmt.Sprintf("Result: %.2f", res.FinalValue), styleHeading})
	} else {
		out = append(out, line{fmt.Sprintf("Failed at %.2f: %s", res.FinalValue, res.Error), styleFailed})
	}

	if trace && len(res.Trace) > 0 {
		out = append(out, line{"", styleDefault}, line{"Trace", styleHeading})
		for _, e := range res.Trace {
			var kv []string
			for i := 0; i+1 < len(e.KeysAndValues); i += 2 {
				kv = append(kv, fmt.Sprintf("%v=%v", e.KeysAndValues[i], e.KeysAndValues[i+1]))
			}
			out = append(out, line{fmt.Sprintf("%s: %s %s", e.Graph, e.Message, strings.Join(kv, " ")), styleTrace})
		}
	}
	return out
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
