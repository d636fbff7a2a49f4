// Package config loads and layers the editor's settings.
//
// Settings come from three layers, lowest priority first: built-in
// defaults, the user's global settings file, and a workspace-local
// override file. TOML is parsed with pelletier/go-toml, matching the
// format the rest of the retrieval pack uses. The user and workspace
// files are watched with fsnotify; a changed file is re-parsed and its
// layer replaced, and subscribers registered via Subscribe receive a
// reload change naming the file that changed; the new merged Settings
// are read back from the manager.
package config
