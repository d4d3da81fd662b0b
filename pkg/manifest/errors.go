// SPDX-License-Identifier: MPL-2.0

package manifest

import "fmt"

// ErrorKind classifies a manifest resolution error.
type ErrorKind string

const (
	// InvalidManifest indicates manifest.json failed to parse as a JSON object.
	InvalidManifest ErrorKind = "invalid-manifest"
	// InvalidManifestVersion indicates manifest_version is missing or not 2 or 3.
	InvalidManifestVersion ErrorKind = "invalid-manifest-version"
	// InvalidName indicates the name key is missing, empty, or wrongly typed.
	InvalidName ErrorKind = "invalid-name"
	// InvalidShortName indicates the short_name key is wrongly typed.
	InvalidShortName ErrorKind = "invalid-short-name"
	// InvalidVersion indicates the version key is missing or malformed.
	InvalidVersion ErrorKind = "invalid-version"
	// InvalidDescription indicates the description key is wrongly typed.
	InvalidDescription ErrorKind = "invalid-description"
	// InvalidDefaultLocale indicates the default_locale key is malformed.
	InvalidDefaultLocale ErrorKind = "invalid-default-locale"
	// InvalidIcons indicates the icons or icon_variants key is wrongly typed.
	InvalidIcons ErrorKind = "invalid-icons"
	// InvalidAction indicates the action (or browser_action/page_action) key
	// is wrongly typed.
	InvalidAction ErrorKind = "invalid-action"
	// InvalidActionIcon indicates the action's default_icon is wrongly typed.
	InvalidActionIcon ErrorKind = "invalid-action-icon"
	// IconLoadFailed indicates a non-empty icon table produced no usable image.
	IconLoadFailed ErrorKind = "icon-load-failed"
	// InvalidBackgroundContent indicates the background key is structurally
	// unusable (missing scripts, page, and service worker).
	InvalidBackgroundContent ErrorKind = "invalid-background-content"
	// InvalidBackgroundPersistence indicates a persistent flag that conflicts
	// with the manifest version, the environment, or the platform.
	InvalidBackgroundPersistence ErrorKind = "invalid-background-persistence"
	// InvalidCommands indicates a commands entry is malformed or the assigned
	// shortcut budget is exceeded.
	InvalidCommands ErrorKind = "invalid-commands"
	// InvalidContentScripts indicates a content_scripts entry is unusable.
	InvalidContentScripts ErrorKind = "invalid-content-scripts"
	// InvalidPermissions indicates the permissions arrays are wrongly typed.
	InvalidPermissions ErrorKind = "invalid-permissions"
	// InvalidExternallyConnectable indicates externally_connectable carries an
	// unusable pattern or id.
	InvalidExternallyConnectable ErrorKind = "invalid-externally-connectable"
	// InvalidDeclarativeNetRequest indicates declarative_net_request is present
	// without the required capability permission or is wrongly typed.
	InvalidDeclarativeNetRequest ErrorKind = "invalid-declarative-net-request"
	// InvalidDeclarativeNetRequestEntry indicates a single ruleset entry was
	// rejected (structure, duplicate id, or a cap).
	InvalidDeclarativeNetRequestEntry ErrorKind = "invalid-declarative-net-request-entry"
	// InvalidWebAccessibleResources indicates a web_accessible_resources entry
	// was rejected.
	InvalidWebAccessibleResources ErrorKind = "invalid-web-accessible-resources"
	// InvalidContentSecurityPolicy indicates content_security_policy is
	// wrongly typed.
	InvalidContentSecurityPolicy ErrorKind = "invalid-content-security-policy"
	// ResourceNotFound indicates a user-requested resource path could not be
	// served by the resource provider.
	ResourceNotFound ErrorKind = "resource-not-found"
)

// ErrorRecord is a single structured resolution error. Equality is
// structural: two records are the same error when kind, message, and cause
// text all match.
type ErrorRecord struct {
	// Kind classifies the error.
	Kind ErrorKind
	// Message is the human-readable description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ErrorRecord) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As compatibility.
func (e *ErrorRecord) Unwrap() error { return e.Cause }

// equal reports structural equality with another record.
func (e *ErrorRecord) equal(other *ErrorRecord) bool {
	if e.Kind != other.Kind || e.Message != other.Message {
		return false
	}
	switch {
	case e.Cause == nil && other.Cause == nil:
		return true
	case e.Cause == nil || other.Cause == nil:
		return false
	default:
		return e.Cause.Error() == other.Cause.Error()
	}
}

// Ledger is an ordered, de-duplicated collection of resolution errors.
// Every resolver appends to it; it is never cleared.
type Ledger struct {
	records []*ErrorRecord
}

// Record appends a new error unless a structurally equal one already exists.
func (l *Ledger) Record(kind ErrorKind, message string) {
	l.RecordCause(kind, message, nil)
}

// Recordf appends a formatted error unless a structurally equal one exists.
func (l *Ledger) Recordf(kind ErrorKind, format string, args ...any) {
	l.RecordCause(kind, fmt.Sprintf(format, args...), nil)
}

// RecordCause appends an error carrying an underlying cause unless a
// structurally equal one already exists.
func (l *Ledger) RecordCause(kind ErrorKind, message string, cause error) {
	record := &ErrorRecord{Kind: kind, Message: message, Cause: cause}
	for _, existing := range l.records {
		if existing.equal(record) {
			return
		}
	}
	l.records = append(l.records, record)
}

// All returns the recorded errors in first-seen order.
func (l *Ledger) All() []*ErrorRecord {
	out := make([]*ErrorRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of distinct recorded errors.
func (l *Ledger) Len() int { return len(l.records) }
