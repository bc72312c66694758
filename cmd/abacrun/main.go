// Command abacrun is an interactive terminal calculator for abac systems.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
	"github.com/ha1tch/abac-toolkit/pkg/cascade"
)

// Calculator holds all UI state
type Calculator struct {
	screen   tcell.Screen
	system   *abacfile.System
	session  *Session
	filename string
	mode     Mode

	message           string
	messageType       MessageType
	messageFlashStart int64

	// Menu state
	menuItems    []string
	menuGraphs   []string // graph id per menu item, "" for commands
	menuSelected int

	// Input state
	inputBuffer string

	// Result view
	startGraph string
	showTrace  bool
	scrollY    int
}

// Mode represents calculator mode
type Mode int

const (
	ModeMenu Mode = iota
	ModeInput
	ModeResult
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // Results, flash
	MsgWarning                    // Warnings, flash
)

const (
	itemMode = "mode"
	itemQuit = "quit"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: abacrun <system.json>")
		os.Exit(1)
	}

	filename := os.Args[1]
	sys, err := abacfile.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.Clear()

	calc := NewCalculator(screen, sys, filename)
	calc.run()

	screen.Fini()
}

// NewCalculator creates a calculator showing the graph menu.
func NewCalculator(screen tcell.Screen, sys *abacfile.System, filename string) *Calculator {
	c := &Calculator{
		screen:   screen,
		system:   sys,
		session:  NewSession(sys, cascade.NewResolver(cascade.WithTrace())),
		filename: filename,
		mode:     ModeMenu,
	}
	c.updateMenuItems()
	return c
}

// updateMenuItems lists entry graphs first, then the rest.
func (c *Calculator) updateMenuItems() {
	c.menuItems = c.menuItems[:0]
	c.menuGraphs = c.menuGraphs[:0]

	entries := abac.EntryGraphs(c.system.Graphs)
	seen := make(map[string]bool)
	add := func(id string) {
		g, ok := c.system.Graph(id)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		n := len(cascade.FindChain(c.system.Graphs, id))
		c.menuItems = append(c.menuItems, fmt.Sprintf("%s (%d graph chain)", g.Name, n))
		c.menuGraphs = append(c.menuGraphs, id)
	}
	for _, id := range entries {
		add(id)
	}
	for i := range c.system.Graphs {
		add(c.system.Graphs[i].ID)
	}

	modeLabel := "Mode: Parameters"
	if c.session.Simple() {
		modeLabel = "Mode: Simple"
	}
	c.menuItems = append(c.menuItems, modeLabel, "Quit")
	c.menuGraphs = append(c.menuGraphs, itemMode, itemQuit)
	if c.menuSelected >= len(c.menuItems) {
		c.menuSelected = len(c.menuItems) - 1
	}
}

func (c *Calculator) run() {
	// Periodic refresh while a message flashes
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if c.message != "" && c.messageFlashStart > 0 {
				elapsed := nowMillis() - c.messageFlashStart
				if elapsed >= 0 && elapsed < 700 {
					c.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		c.draw()
		c.screen.Show()

		ev := c.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.screen.Sync()
		case *tcell.EventKey:
			if c.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

func (c *Calculator) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}

	switch c.mode {
	case ModeMenu:
		return c.handleMenuKey(ev)
	case ModeInput:
		return c.handleInputKey(ev)
	case ModeResult:
		return c.handleResultKey(ev)
	case ModeHelp:
		c.mode = ModeMenu
	}
	return false
}

func (c *Calculator) handleMenuKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		if c.menuSelected > 0 {
			c.menuSelected--
		}
	case tcell.KeyDown:
		if c.menuSelected < len(c.menuItems)-1 {
			c.menuSelected++
		}
	case tcell.KeyEnter:
		return c.executeMenuItem()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '?':
			c.mode = ModeHelp
		}
	}
	return false
}

func (c *Calculator) executeMenuItem() bool {
	switch id := c.menuGraphs[c.menuSelected]; id {
	case itemQuit:
		return true
	case itemMode:
		c.session.SetSimple(!c.session.Simple())
		c.updateMenuItems()
		if c.session.Simple() {
			c.showMessage("Simple mode: first curve only", MsgInfo)
		} else {
			c.showMessage("Parameter mode", MsgInfo)
		}
	default:
		c.start(id)
	}
	return false
}

// start begins a run from graph id and asks for the first value.
func (c *Calculator) start(id string) {
	if err := c.session.Start(id); err != nil {
		c.showMessage(err.Error(), MsgError)
		return
	}
	c.startGraph = id
	c.inputBuffer = ""
	c.scrollY = 0
	c.mode = ModeInput
}

func (c *Calculator) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.mode = ModeMenu
	case tcell.KeyEnter:
		c.submit()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.inputBuffer) > 0 {
			c.inputBuffer = c.inputBuffer[:len(c.inputBuffer)-1]
		}
	case tcell.KeyRune:
		c.inputBuffer += string(ev.Rune())
	}
	return false
}

func (c *Calculator) submit() {
	err := c.session.Submit(c.inputBuffer)
	c.inputBuffer = ""
	if err != nil {
		c.showMessage(err.Error(), MsgError)
		return
	}
	res := c.session.Result()
	if res == nil {
		return
	}
	c.mode = ModeResult
	if res.Success {
		c.showMessage(fmt.Sprintf("Result: %.2f", res.FinalValue), MsgSuccess)
	} else {
		c.showMessage(res.Error, MsgError)
	}
}

func (c *Calculator) handleResultKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.mode = ModeMenu
	case tcell.KeyUp:
		if c.scrollY > 0 {
			c.scrollY--
		}
	case tcell.KeyDown:
		c.scrollY++
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 't':
			c.showTrace = !c.showTrace
		case 'r':
			c.start(c.startGraph)
		}
	}
	return false
}

func (c *Calculator) showMessage(msg string, msgType MessageType) {
	c.message = msg
	c.messageType = msgType
	c.messageFlashStart = nowMillis()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func (c *Calculator) title() string {
	name := c.system.Metadata.SystemName
	if name == "" {
		name = filepath.Base(c.filename)
	}
	if c.system.Metadata.AircraftModel != "" {
		name += " - " + c.system.Metadata.AircraftModel
	}
	return name
}
