// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/a1s/ntable/internal/config"
	"github.com/a1s/ntable/internal/config/data"
	"github.com/a1s/ntable/internal/model"
	"github.com/a1s/ntable/internal/params"
	"github.com/a1s/ntable/internal/ui"
)

const (
	tablePage = "table"
	helpPage  = "help"
)

// App represents the main application container.
type App struct {
	*tview.Application

	Main    *tview.Pages
	table   *ui.Table
	prompt  *ui.FilterPrompt
	pager   *ui.Pager
	menu    *ui.Menu
	flash   *Flash
	help    *Help
	log     *slog.Logger
	running bool
	mx      sync.RWMutex
}

// NewApp creates the application showing m under name.
func NewApp(name string, m model.TableModel, settings data.UI, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if settings.MaxPageButtons <= 0 {
		settings.MaxPageButtons = data.DefaultMaxPageButtons
	}

	a := &App{
		Application: tview.NewApplication(),
		Main:        tview.NewPages(),
		table:       ui.NewTable(name, m),
		pager:       ui.NewPager(settings.MaxPageButtons),
		menu:        ui.NewMenu(),
		log:         log,
	}
	a.flash = NewFlash(a.queue)
	a.prompt = a.table.Prompt()
	a.EnableMouse(settings.EnableMouse)

	return a
}

// Init binds the hotkeys and lays the views out.
func (a *App) Init(hk *config.HotKeys) error {
	if hk == nil {
		hk = config.NewHotKeys()
	}

	a.table.SetQueuer(a.queue)
	a.table.SetErrorFn(a.flash.Err)
	a.table.SetPagedFn(func(p *params.Params) { a.pager.Update(p) })
	a.prompt.SetActiveFn(func(active bool) {
		if active {
			a.flash.Infof("filtering %s", a.prompt.Field())
		}
	})
	if err := a.table.Init(hk); err != nil {
		return fmt.Errorf("init table: %w", err)
	}
	if k := hk.Get(config.ActionQuit); k != nil {
		key, err := ui.AsKey(k.ShortCut)
		if err != nil {
			return fmt.Errorf("hotkey %s: %w", config.ActionQuit, err)
		}
		a.table.Actions().Add(key, ui.NewKeyAction(k.Description, a.quitCmd, true))
	}
	a.table.Actions().Add(tcell.Key('?'), ui.NewKeyAction("Help", a.helpCmd, true))

	a.menu.HydrateMenu(a.table.Hints())
	a.help = NewHelp(a.table.Hints())
	a.help.SetCloseFn(func() {
		a.Main.SwitchToPage(tablePage)
		a.SetFocus(a.table)
	})

	a.Main.AddPage(tablePage, a.buildLayout(), true, true)
	a.Main.AddPage(helpPage, a.help, true, false)
	a.SetInputCapture(a.keyboard)
	a.SetRoot(a.Main, true)
	a.SetFocus(a.table)

	return nil
}

// Run starts the application.
func (a *App) Run() error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()
	a.log.Info("ui started", "table", a.table.Name())

	return a.Application.Run()
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.running = false
	a.Application.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Table returns the table view.
func (a *App) Table() *ui.Table {
	return a.table
}

// queue hands fn to the UI goroutine. Model listeners fire from arbitrary
// goroutines, so the handoff must not block.
func (a *App) queue(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

func (a *App) buildLayout() *tview.Flex {
	bottom := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pager, 1, 0, false).
		AddItem(a.prompt, 1, 0, false).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, 2, 0, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.table, 0, 1, true).
		AddItem(bottom, 5, 0, false)
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if name, _ := a.Main.GetFrontPage(); name == helpPage {
		return evt
	}
	if evt.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}

	return evt
}

func (a *App) quitCmd(*tcell.EventKey) *tcell.EventKey {
	a.Stop()
	return nil
}

func (a *App) helpCmd(*tcell.EventKey) *tcell.EventKey {
	a.Main.SwitchToPage(helpPage)
	a.SetFocus(a.help)
	return nil
}
