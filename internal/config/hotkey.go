package config

import (
	"os"
	"sort"
	"sync"

	"github.com/a1s/ntable/internal/config/data"
)

// Table actions a hotkey can be bound to.
const (
	ActionFilter    = "filter"
	ActionSort      = "sort"
	ActionMultiSort = "multiSort"
	ActionNextPage  = "nextPage"
	ActionPrevPage  = "prevPage"
	ActionGrow      = "grow"
	ActionShrink    = "shrink"
	ActionReload    = "reload"
	ActionQuit      = "quit"
)

// HotKey represents a single hotkey binding.
type HotKey struct {
	ShortCut    string `yaml:"shortCut"`
	Description string `yaml:"description"`
}

// HotKeys maps table actions to their shortcuts.
type HotKeys struct {
	HotKey map[string]HotKey `yaml:"hotKeys"`
	mx     sync.RWMutex      `yaml:"-"`
}

// DefaultHotKeys are the built-in table shortcuts.
var DefaultHotKeys = map[string]HotKey{
	ActionFilter:    {ShortCut: "/", Description: "Filter"},
	ActionSort:      {ShortCut: "s", Description: "Sort"},
	ActionMultiSort: {ShortCut: "S", Description: "Add Sort"},
	ActionNextPage:  {ShortCut: "n", Description: "Next Page"},
	ActionPrevPage:  {ShortCut: "p", Description: "Prev Page"},
	ActionGrow:      {ShortCut: "+", Description: "More Rows"},
	ActionShrink:    {ShortCut: "-", Description: "Fewer Rows"},
	ActionReload:    {ShortCut: "r", Description: "Reload"},
	ActionQuit:      {ShortCut: "q", Description: "Quit"},
}

// NewHotKeys creates HotKeys holding the defaults.
func NewHotKeys() *HotKeys {
	h := &HotKeys{HotKey: make(map[string]HotKey, len(DefaultHotKeys))}
	for k, v := range DefaultHotKeys {
		h.HotKey[k] = v
	}
	return h
}

// Load loads hotkeys from the default hotkeys file.
func (h *HotKeys) Load() error {
	return h.LoadFrom(AppHotkeysFile)
}

// LoadFrom merges hotkeys from a specific file path over the current ones.
// A missing file is not an error.
func (h *HotKeys) LoadFrom(path string) error {
	h.mx.Lock()
	defer h.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	loaded := &HotKeys{}
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}
	for name, hk := range loaded.HotKey {
		h.HotKey[name] = hk
	}

	return nil
}

// Get returns a hotkey by action name, or nil if not found.
func (h *HotKeys) Get(name string) *HotKey {
	h.mx.RLock()
	defer h.mx.RUnlock()

	hk, ok := h.HotKey[name]
	if !ok {
		return nil
	}

	return &hk
}

// Names returns all action names.
func (h *HotKeys) Names() []string {
	h.mx.RLock()
	defer h.mx.RUnlock()

	names := make([]string, 0, len(h.HotKey))
	for name := range h.HotKey {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
