// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/derailed/tcell/v2"
)

// KeySlash is the filter key.
const KeySlash = tcell.Key('/')

// ActionHandler handles a keyboard event.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// KeyAction describes a bound key.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Visible     bool
}

// NewKeyAction returns a new key action.
func NewKeyAction(d string, a ActionHandler, visible bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: visible}
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// KeyActions is a concurrent safe key map.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty key map.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// Add binds a key.
func (a *KeyActions) Add(k tcell.Key, action KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.actions[k] = action
}

// Bulk binds several keys.
func (a *KeyActions) Bulk(m KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range m {
		a.actions[k] = v
	}
}

// Get returns the action bound to k.
func (a *KeyActions) Get(k tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()
	v, ok := a.actions[k]
	return v, ok
}

// Len returns the number of bound keys.
func (a *KeyActions) Len() int {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return len(a.actions)
}

// Hints returns the visible bindings as menu hints.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	hh := make(MenuHints, 0, len(a.actions))
	for k, v := range a.actions {
		if !v.Visible {
			continue
		}
		hh = append(hh, MenuHint{Mnemonic: KeyName(k), Description: v.Description, Visible: true})
	}
	sort.Sort(hh)

	return hh
}

// KeyName returns the printable name of k.
func KeyName(k tcell.Key) string {
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	return string(rune(k))
}

// AsKey parses a shortcut: a single character or a tcell key name such as "Ctrl-R".
func AsKey(shortcut string) (tcell.Key, error) {
	if utf8.RuneCountInString(shortcut) == 1 {
		r, _ := utf8.DecodeRuneInString(shortcut)
		return tcell.Key(r), nil
	}
	for k, name := range tcell.KeyNames {
		if name == shortcut {
			return k, nil
		}
	}

	return 0, fmt.Errorf("invalid shortcut %q", shortcut)
}
