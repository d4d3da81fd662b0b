// SPDX-License-Identifier: MPL-2.0

package manifest

import "strings"

// MaxAssignedCommandShortcuts caps how many commands may carry a non-empty
// shortcut. Assignments past the cap are stripped; the command itself is
// kept with an unassigned shortcut.
const MaxAssignedCommandShortcuts = 4

// Synthetic and reserved command identifiers bound to the action surface.
const (
	// ActionCommandIdentifier is the schema v3 action command.
	ActionCommandIdentifier = "_execute_action"
	// BrowserActionCommandIdentifier is the schema v2 browser action command.
	BrowserActionCommandIdentifier = "_execute_browser_action"
	// PageActionCommandIdentifier is the schema v2 page action command.
	PageActionCommandIdentifier = "_execute_page_action"
)

// ModifierFlags is a set of keyboard shortcut modifiers.
type ModifierFlags uint8

const (
	// ModifierCommand is the primary modifier ("Ctrl" or "Command" tokens).
	ModifierCommand ModifierFlags = 1 << iota
	// ModifierShift is the shift modifier.
	ModifierShift
	// ModifierOption is the alt/option modifier ("Alt" token).
	ModifierOption
	// ModifierControl is the raw control modifier ("MacCtrl" token).
	ModifierControl
)

// Contains reports whether all flags in other are set.
func (m ModifierFlags) Contains(other ModifierFlags) bool { return m&other == other }

// Named activation keys resolve to the Apple function-key private-use code
// points so a single rune always identifies the key.
const (
	KeyUpArrow    = '\uF700'
	KeyDownArrow  = '\uF701'
	KeyLeftArrow  = '\uF702'
	KeyRightArrow = '\uF703'
	KeyF1         = '\uF704'
	KeyF2         = '\uF705'
	KeyF3         = '\uF706'
	KeyF4         = '\uF707'
	KeyF5         = '\uF708'
	KeyF6         = '\uF709'
	KeyF7         = '\uF70A'
	KeyF8         = '\uF70B'
	KeyF9         = '\uF70C'
	KeyF10        = '\uF70D'
	KeyF11        = '\uF70E'
	KeyF12        = '\uF70F'
	KeyInsert     = '\uF727'
	KeyDelete     = '\uF728'
	KeyHome       = '\uF729'
	KeyEnd        = '\uF72B'
	KeyPageUp     = '\uF72C'
	KeyPageDown   = '\uF72D'
)

// namedActivationKeys maps the named-key grammar tokens to their runes.
var namedActivationKeys = map[string]rune{
	"Comma": ',', "Period": '.', "Space": ' ',
	"F1": KeyF1, "F2": KeyF2, "F3": KeyF3, "F4": KeyF4,
	"F5": KeyF5, "F6": KeyF6, "F7": KeyF7, "F8": KeyF8,
	"F9": KeyF9, "F10": KeyF10, "F11": KeyF11, "F12": KeyF12,
	"Insert": KeyInsert, "Delete": KeyDelete,
	"Home": KeyHome, "End": KeyEnd,
	"PageUp": KeyPageUp, "PageDown": KeyPageDown,
	"Up": KeyUpArrow, "Down": KeyDownArrow,
	"Left": KeyLeftArrow, "Right": KeyRightArrow,
}

// shortcutModifierTokens maps grammar modifier tokens to canonical flags.
// "Ctrl" and "Command" are the same primary modifier; "MacCtrl" is the raw
// control key.
var shortcutModifierTokens = map[string]ModifierFlags{
	"Ctrl":    ModifierCommand,
	"Command": ModifierCommand,
	"Alt":     ModifierOption,
	"MacCtrl": ModifierControl,
	"Shift":   ModifierShift,
}

// Command is one resolved keyboard command. An empty ActivationKey means the
// command exists but has no assigned shortcut.
type Command struct {
	// Identifier is the manifest key for the command.
	Identifier string
	// Description is the human-readable label.
	Description string
	// ActivationKey is the resolved key as a one-rune string (a lowercase
	// ASCII alphanumeric or a named-key code point), or "" when unassigned.
	ActivationKey string
	// Modifiers are the canonical modifier flags for the shortcut.
	Modifiers ModifierFlags
}

// HasShortcut reports whether the command carries an assigned shortcut.
func (c Command) HasShortcut() bool { return c.ActivationKey != "" }

// IsActionCommand reports whether the identifier binds the action surface.
func (c Command) IsActionCommand() bool {
	switch c.Identifier {
	case ActionCommandIdentifier, BrowserActionCommandIdentifier, PageActionCommandIdentifier:
		return true
	}
	return false
}

// ParseShortcut parses a shortcut string of the form
// "Modifier+Key" or "Modifier+Modifier+Key". The empty string is valid and
// means unassigned. At least one modifier is required; the key is either a
// single ASCII alphanumeric character (normalized to lowercase) or one of
// the named keys.
func ParseShortcut(shortcut string) (string, ModifierFlags, bool) {
	if shortcut == "" {
		return "", 0, true
	}
	tokens := strings.Split(shortcut, "+")
	if len(tokens) < 2 || len(tokens) > 3 {
		return "", 0, false
	}

	var modifiers ModifierFlags
	for _, token := range tokens[:len(tokens)-1] {
		flag, ok := shortcutModifierTokens[token]
		if !ok {
			return "", 0, false
		}
		modifiers |= flag
	}

	key, ok := parseActivationKey(tokens[len(tokens)-1])
	if !ok {
		return "", 0, false
	}
	return key, modifiers, true
}

func parseActivationKey(token string) (string, bool) {
	if len(token) == 1 {
		c := token[0]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return token, true
		case c >= 'A' && c <= 'Z':
			return string(c - 'A' + 'a'), true
		}
		return "", false
	}
	if r, ok := namedActivationKeys[token]; ok {
		return string(r), true
	}
	return "", false
}

// Commands resolves the commands key into an ordered command list. A
// synthetic action command is appended when the manifest defines none, so
// the action surface always has an activation entry.
func (d *Descriptor) Commands() []Command {
	return d.commands.get(d.resolveCommands)
}

func (d *Descriptor) resolveCommands() []Command {
	if !d.parsed {
		return nil
	}
	commandsObject, ok := d.raw.objectValue("commands")
	if !ok && d.raw.has("commands") {
		d.ledger.Record(InvalidCommands, "commands must be an object")
	}

	var out []Command
	assigned := 0
	hasActionCommand := false
	for _, identifier := range sortedKeys(commandsObject) {
		entry, ok := asObject(commandsObject[identifier])
		if !ok {
			d.ledger.Recordf(InvalidCommands, "command %q must be an object", identifier)
			continue
		}

		command := Command{Identifier: identifier}
		if description, ok := asString(entry["description"]); ok {
			command.Description = description
		}

		if shortcut, ok := suggestedShortcut(entry); ok {
			key, modifiers, valid := ParseShortcut(shortcut)
			if !valid {
				d.ledger.Recordf(InvalidCommands, "command %q has an invalid shortcut %q", identifier, shortcut)
			} else {
				command.ActivationKey = key
				command.Modifiers = modifiers
			}
		}

		if command.HasShortcut() {
			if assigned >= MaxAssignedCommandShortcuts {
				d.ledger.Recordf(InvalidCommands, "too many assigned shortcuts; only %d commands may have one", MaxAssignedCommandShortcuts)
				command.ActivationKey = ""
				command.Modifiers = 0
			} else {
				assigned++
			}
		}

		if command.IsActionCommand() {
			hasActionCommand = true
		}
		out = append(out, command)
	}

	if !hasActionCommand {
		out = append(out, d.syntheticActionCommand())
	}
	return out
}

// suggestedShortcut extracts the suggested_key default string for an entry.
func suggestedShortcut(entry map[string]any) (string, bool) {
	suggested, ok := asObject(entry["suggested_key"])
	if !ok {
		return "", false
	}
	return asString(suggested["default"])
}

// syntheticActionCommand builds the injected action command, labelled with
// the action's title or the extension short name. It carries no shortcut.
func (d *Descriptor) syntheticActionCommand() Command {
	description := d.ActionLabel()
	if description == "" {
		description = d.ShortName()
	}
	return Command{Identifier: ActionCommandIdentifier, Description: description}
}
