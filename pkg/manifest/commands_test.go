// SPDX-License-Identifier: MPL-2.0

package manifest_test

import (
	"fmt"
	"strings"
	"testing"

	"webextc/pkg/manifest"
)

func TestParseShortcut(t *testing.T) {
	tests := []struct {
		shortcut      string
		wantKey       string
		wantModifiers manifest.ModifierFlags
		wantValid     bool
	}{
		{shortcut: "", wantValid: true},
		{shortcut: "Ctrl+K", wantKey: "k", wantModifiers: manifest.ModifierCommand, wantValid: true},
		{shortcut: "Command+K", wantKey: "k", wantModifiers: manifest.ModifierCommand, wantValid: true},
		{shortcut: "Ctrl+Shift+F1", wantKey: string(rune(manifest.KeyF1)), wantModifiers: manifest.ModifierCommand | manifest.ModifierShift, wantValid: true},
		{shortcut: "Alt+Shift+9", wantKey: "9", wantModifiers: manifest.ModifierOption | manifest.ModifierShift, wantValid: true},
		{shortcut: "MacCtrl+Comma", wantKey: ",", wantModifiers: manifest.ModifierControl, wantValid: true},
		{shortcut: "Ctrl+PageDown", wantKey: string(rune(manifest.KeyPageDown)), wantModifiers: manifest.ModifierCommand, wantValid: true},
		{shortcut: "F1", wantValid: false},
		{shortcut: "Ctrl", wantValid: false},
		{shortcut: "Ctrl+Alt+Shift+K", wantValid: false},
		{shortcut: "Ctrl+Escape", wantValid: false},
		{shortcut: "Meta+K", wantValid: false},
		{shortcut: "Ctrl+KK", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.shortcut, func(t *testing.T) {
			key, modifiers, valid := manifest.ParseShortcut(tt.shortcut)
			if valid != tt.wantValid {
				t.Fatalf("ParseShortcut(%q) valid = %v, want %v", tt.shortcut, valid, tt.wantValid)
			}
			if key != tt.wantKey || modifiers != tt.wantModifiers {
				t.Errorf("ParseShortcut(%q) = %q, %b; want %q, %b", tt.shortcut, key, modifiers, tt.wantKey, tt.wantModifiers)
			}
		})
	}
}

func TestModifierFlagsContains(t *testing.T) {
	flags := manifest.ModifierCommand | manifest.ModifierShift
	if !flags.Contains(manifest.ModifierShift) {
		t.Error("Contains(Shift) = false")
	}
	if flags.Contains(manifest.ModifierOption) {
		t.Error("Contains(Option) = true")
	}
}

func TestCommandsResolveShortcuts(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"name": "Clips",
		"commands": {
			"copy-page": {
				"description": "Copy the page",
				"suggested_key": {"default": "Ctrl+Shift+C"}
			},
			"unassigned": {"description": "No shortcut yet"},
			"broken": {
				"description": "Bad shortcut",
				"suggested_key": {"default": "C"}
			}
		}
	}`)

	commands := d.Commands()
	byID := make(map[string]manifest.Command, len(commands))
	for _, command := range commands {
		byID[command.Identifier] = command
	}

	copyPage := byID["copy-page"]
	if copyPage.ActivationKey != "c" || !copyPage.Modifiers.Contains(manifest.ModifierCommand|manifest.ModifierShift) {
		t.Errorf("copy-page resolved to %q %b", copyPage.ActivationKey, copyPage.Modifiers)
	}
	if byID["unassigned"].HasShortcut() {
		t.Error("unassigned command has a shortcut")
	}
	if byID["broken"].HasShortcut() {
		t.Error("command with an invalid shortcut kept it")
	}
	if got := countKind(d.Ledger().All(), manifest.InvalidCommands); got != 1 {
		t.Errorf("InvalidCommands count = %d, want 1", got)
	}
}

func TestCommandsShortcutCap(t *testing.T) {
	var entries []string
	for i := 1; i <= manifest.MaxAssignedCommandShortcuts+1; i++ {
		entries = append(entries, fmt.Sprintf(
			`"cmd-%d": {"suggested_key": {"default": "Ctrl+%d"}}`, i, i))
	}
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"commands": {`+strings.Join(entries, ",")+`}
	}`)

	commands := d.Commands()
	assigned := 0
	kept := 0
	for _, command := range commands {
		if command.IsActionCommand() {
			continue
		}
		kept++
		if command.HasShortcut() {
			assigned++
		}
	}
	if kept != manifest.MaxAssignedCommandShortcuts+1 {
		t.Errorf("kept %d commands, want %d", kept, manifest.MaxAssignedCommandShortcuts+1)
	}
	if assigned != manifest.MaxAssignedCommandShortcuts {
		t.Errorf("%d assigned shortcuts, want %d", assigned, manifest.MaxAssignedCommandShortcuts)
	}
	if got := countKind(d.Ledger().All(), manifest.InvalidCommands); got != 1 {
		t.Errorf("InvalidCommands count = %d, want 1", got)
	}
}

func TestSyntheticActionCommand(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"name": "Weather Glance",
		"short_name": "Weather",
		"action": {"default_title": "Show forecast"}
	}`)

	commands := d.Commands()
	if len(commands) != 1 {
		t.Fatalf("Commands() = %v, want the single synthetic command", commands)
	}
	synthetic := commands[0]
	if synthetic.Identifier != manifest.ActionCommandIdentifier {
		t.Errorf("Identifier = %q", synthetic.Identifier)
	}
	if synthetic.Description != "Show forecast" {
		t.Errorf("Description = %q, want the action title", synthetic.Description)
	}
	if synthetic.HasShortcut() {
		t.Error("synthetic command carries a shortcut")
	}
}

func TestSyntheticActionCommandFallsBackToShortName(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"name": "Weather Glance",
		"short_name": "Weather"
	}`)

	commands := d.Commands()
	if len(commands) != 1 || commands[0].Description != "Weather" {
		t.Fatalf("Commands() = %v, want one command described by the short name", commands)
	}
}

func TestDeclaredActionCommandSuppressesSynthetic(t *testing.T) {
	d := newTestDescriptor(t, `{
		"manifest_version": 3,
		"commands": {
			"_execute_action": {"suggested_key": {"default": "Ctrl+Shift+Y"}}
		}
	}`)

	commands := d.Commands()
	if len(commands) != 1 {
		t.Fatalf("Commands() = %v, want only the declared action command", commands)
	}
	if !commands[0].HasShortcut() {
		t.Error("declared action command lost its shortcut")
	}
}
