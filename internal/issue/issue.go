// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"webextc/pkg/manifest"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ManifestVersionId
	IdentityFieldsId
	BackgroundContentId
	BackgroundPersistenceId
	CommandShortcutsId
	ContentScriptsId
	PermissionsId
	ExternallyConnectableId
	DeclarativeNetRequestId
	IconLoadFailedId
	WebAccessibleResourcesId
	ContentSecurityPolicyId
	ResourceNotFoundId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No manifest.json found!

We searched for a manifest.json but couldn't find one at the given path.

## Things you can try:
- Point webextc at your extension's root directory:
~~~
$ webextc validate path/to/extension
~~~

- Or name the manifest file directly:
~~~
$ webextc validate path/to/extension/manifest.json
~~~

## Minimal manifest.json:
~~~json
{
  "manifest_version": 3,
  "name": "My Extension",
  "version": "1.0"
}
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse manifest.json!

The file is not a JSON object, so nothing in it can be resolved.

## Common issues:
- Trailing commas (JSON forbids them)
- Comments (JSON has none; strip them before packaging)
- A top-level array or string instead of an object
- Truncated or mis-encoded file contents

## Things you can try:
- Run the file through a JSON validator to find the exact offset
- Re-export the manifest from your build tooling
- Inspect what the parser saw:
~~~
$ webextc inspect path/to/extension --format json
~~~`,
	}

	manifestVersionIssue = &Issue{
		id: ManifestVersionId,
		mdMsg: `
# Unsupported manifest_version!

manifest_version must be the integer 2 or 3. Anything else resolves with
version 2 field routing, which is probably not what you want.

## Things you can try:
- Declare version 3 for new extensions:
~~~json
{"manifest_version": 3}
~~~

- Make sure the value is a number, not a string:
~~~json
{"manifest_version": "3"}   // wrong
{"manifest_version": 3}     // right
~~~`,
	}

	identityFieldsIssue = &Issue{
		id: IdentityFieldsId,
		mdMsg: `
# Invalid identity fields!

name and version are required; short_name, version_name, description and
default_locale are validated when present.

## Rules:
- **name**: non-empty string
- **version**: 1 to 4 dot-separated integers, each up to 5 digits
- **default_locale**: a locale code like "en" or "en_US"

## Example:
~~~json
{
  "name": "Weather Glance",
  "short_name": "Weather",
  "version": "1.4.0",
  "version_name": "1.4 beta",
  "default_locale": "en"
}
~~~`,
	}

	backgroundContentIssue = &Issue{
		id: BackgroundContentId,
		mdMsg: `
# Background content did not resolve!

A background object needs at least one content source. When several are
declared, scripts win over page, and page wins over service_worker — unless
preferred_environment says otherwise.

## Valid shapes:
~~~json
{"background": {"scripts": ["bg.js"]}}
{"background": {"page": "bg.html"}}
{"background": {"service_worker": "sw.js"}}
~~~

## With an explicit preference:
~~~json
{
  "background": {
    "scripts": ["bg.js"],
    "preferred_environment": "service_worker"
  }
}
~~~

Note the first recognized preference is final: if its required field is
missing, resolution fails rather than trying the next preference.`,
	}

	backgroundPersistenceIssue = &Issue{
		id: BackgroundPersistenceId,
		mdMsg: `
# Background persistence problem!

The persistent flag is constrained by the schema version, the execution
environment, and the host platform.

## Rules:
- Manifest v3 never allows a persistent background
- A service worker background is never persistent
- Restricted platforms (mobile) reject persistence outright
- The webRequest permission needs a persistent background to observe
  requests reliably — drop the permission or make the background persistent

## Non-persistent v2 background:
~~~json
{"background": {"scripts": ["bg.js"], "persistent": false}}
~~~`,
	}

	commandShortcutsIssue = &Issue{
		id: CommandShortcutsId,
		mdMsg: `
# Command shortcut problem!

Shortcuts are "Modifier+Key" or "Modifier+Modifier+Key". At most 4 commands
may carry an assigned shortcut; assignments past the cap are stripped but the
commands themselves are kept.

## Grammar:
- Modifiers: Ctrl, Command, Alt, MacCtrl, Shift
- Keys: a single letter or digit, or a named key
  (F1-F12, Comma, Period, Space, Insert, Delete, Home, End,
  PageUp, PageDown, Up, Down, Left, Right)

## Example:
~~~json
{
  "commands": {
    "copy-page": {
      "description": "Copy the page",
      "suggested_key": {"default": "Ctrl+Shift+C"}
    }
  }
}
~~~`,
	}

	contentScriptsIssue = &Issue{
		id: ContentScriptsId,
		mdMsg: `
# Content script entry rejected!

Each content_scripts entry needs at least one usable match pattern and at
least one js or css path. Entries failing either rule are dropped; the rest
keep their manifest order.

## Example:
~~~json
{
  "content_scripts": [
    {
      "matches": ["https://example.com/*"],
      "js": ["inject.js"],
      "run_at": "document_idle"
    }
  ]
}
~~~

## Recognized option values:
- **run_at**: document_start, document_end, document_idle
- **world**: ISOLATED, MAIN
- **css_origin**: author, user`,
	}

	permissionsIssue = &Issue{
		id: PermissionsId,
		mdMsg: `
# Permissions did not resolve!

permissions and optional_permissions must be arrays of strings. In manifest
v2, entries that parse as match patterns become host permissions; in v3, host
access lives in host_permissions / optional_host_permissions.

## Manifest v3 example:
~~~json
{
  "permissions": ["storage", "tabs"],
  "host_permissions": ["https://example.com/*"]
}
~~~

Unrecognized permission names are ignored silently so manifests written for
newer engines still resolve.`,
	}

	externallyConnectableIssue = &Issue{
		id: ExternallyConnectableId,
		mdMsg: `
# externally_connectable rejected a pattern!

Connectable patterns must name specific hosts: the all-URLs wildcard and bare
public suffixes (like "https://com/*") are rejected.

## Example:
~~~json
{
  "externally_connectable": {
    "matches": ["https://app.example.com/*"],
    "ids": ["abcdefghijklmnop"]
  }
}
~~~`,
	}

	declarativeNetRequestIssue = &Issue{
		id: DeclarativeNetRequestId,
		mdMsg: `
# declarative_net_request problem!

The key requires one of the declarativeNetRequest permissions, and each
rule_resources entry needs an id, an enabled flag, and a path.

## Limits:
- At most 100 ruleset entries are processed
- At most 50 rulesets may be enabled; over-cap entries are rejected entirely
- Duplicate ids keep the first entry

## Example:
~~~json
{
  "permissions": ["declarativeNetRequest"],
  "declarative_net_request": {
    "rule_resources": [
      {"id": "ads", "enabled": true, "path": "rules/ads.json"}
    ]
  }
}
~~~`,
	}

	iconLoadFailedIssue = &Issue{
		id: IconLoadFailedId,
		mdMsg: `
# Icon failed to load!

No icon in the table satisfied the requested size, or every candidate failed
to load or decode. An icon is never scaled up from an undersized entry.

## Things you can try:
- Provide the common sizes:
~~~json
{"icons": {"16": "icon16.png", "32": "icon32.png", "128": "icon128.png"}}
~~~

- Or a scalable entry that serves every size:
~~~json
{"icons": {"any": "icon.svg"}}
~~~

- Check the paths exist inside the extension bundle:
~~~
$ webextc icons path/to/extension
~~~`,
	}

	webAccessibleResourcesIssue = &Issue{
		id: WebAccessibleResourcesId,
		mdMsg: `
# web_accessible_resources entry rejected!

Manifest v2 takes a flat array of path globs. Manifest v3 entries must carry
a resources array plus at least one scope: matches or extension_ids.

## Manifest v3 example:
~~~json
{
  "web_accessible_resources": [
    {
      "resources": ["images/*.png"],
      "matches": ["https://example.com/*"]
    }
  ]
}
~~~`,
	}

	contentSecurityPolicyIssue = &Issue{
		id: ContentSecurityPolicyId,
		mdMsg: `
# content_security_policy did not resolve!

Manifest v2 takes a policy string; manifest v3 takes an object whose
extension_pages key holds the policy. Wrong shapes fall back to the engine
default policy.

## Manifest v3 example:
~~~json
{
  "content_security_policy": {
    "extension_pages": "script-src 'self'; object-src 'self'"
  }
}
~~~`,
	}

	resourceNotFoundIssue = &Issue{
		id: ResourceNotFoundId,
		mdMsg: `
# Bundled resource not found!

A manifest field references a path that does not resolve inside the
extension bundle.

## Things you can try:
- Check the path spelling and case; lookups are exact
- Make sure your build copies the file into the bundle
- Paths are relative to the extension root; ".." never escapes it`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the webextc configuration file.

## Configuration file locations:
- Linux: ~/.config/webextc/config.cue
- macOS: ~/Library/Application Support/webextc/config.cue
- Windows: %APPDATA%\webextc\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ webextc config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/webextc/config.cue
~~~

## Example configuration:
~~~cue
platform: "desktop"
display_scales: [1.0, 2.0]

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():       manifestNotFoundIssue,
		manifestParseErrorIssue.Id():     manifestParseErrorIssue,
		manifestVersionIssue.Id():        manifestVersionIssue,
		identityFieldsIssue.Id():         identityFieldsIssue,
		backgroundContentIssue.Id():      backgroundContentIssue,
		backgroundPersistenceIssue.Id():  backgroundPersistenceIssue,
		commandShortcutsIssue.Id():       commandShortcutsIssue,
		contentScriptsIssue.Id():         contentScriptsIssue,
		permissionsIssue.Id():            permissionsIssue,
		externallyConnectableIssue.Id():  externallyConnectableIssue,
		declarativeNetRequestIssue.Id():  declarativeNetRequestIssue,
		iconLoadFailedIssue.Id():         iconLoadFailedIssue,
		webAccessibleResourcesIssue.Id(): webAccessibleResourcesIssue,
		contentSecurityPolicyIssue.Id():  contentSecurityPolicyIssue,
		resourceNotFoundIssue.Id():       resourceNotFoundIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
	}

	// kindIssues routes manifest error kinds to their remediation issue.
	kindIssues = map[manifest.ErrorKind]Id{
		manifest.InvalidManifest:                   ManifestParseErrorId,
		manifest.InvalidManifestVersion:            ManifestVersionId,
		manifest.InvalidName:                       IdentityFieldsId,
		manifest.InvalidShortName:                  IdentityFieldsId,
		manifest.InvalidVersion:                    IdentityFieldsId,
		manifest.InvalidDescription:                IdentityFieldsId,
		manifest.InvalidDefaultLocale:              IdentityFieldsId,
		manifest.InvalidIcons:                      IconLoadFailedId,
		manifest.InvalidAction:                     IdentityFieldsId,
		manifest.InvalidActionIcon:                 IconLoadFailedId,
		manifest.IconLoadFailed:                    IconLoadFailedId,
		manifest.InvalidBackgroundContent:          BackgroundContentId,
		manifest.InvalidBackgroundPersistence:      BackgroundPersistenceId,
		manifest.InvalidCommands:                   CommandShortcutsId,
		manifest.InvalidContentScripts:             ContentScriptsId,
		manifest.InvalidPermissions:                PermissionsId,
		manifest.InvalidExternallyConnectable:      ExternallyConnectableId,
		manifest.InvalidDeclarativeNetRequest:      DeclarativeNetRequestId,
		manifest.InvalidDeclarativeNetRequestEntry: DeclarativeNetRequestId,
		manifest.InvalidWebAccessibleResources:     WebAccessibleResourcesId,
		manifest.InvalidContentSecurityPolicy:      ContentSecurityPolicyId,
		manifest.ResourceNotFound:                  ResourceNotFoundId,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForKind returns the remediation issue for a manifest error kind, or nil
// for kinds without dedicated guidance.
func ForKind(kind manifest.ErrorKind) *Issue {
	id, ok := kindIssues[kind]
	if !ok {
		return nil
	}
	return issues[id]
}
