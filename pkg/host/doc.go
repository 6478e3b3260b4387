// Package host drives an instantiation interactively.
//
// The core packages (catalog, config, instantiate) never ask the user
// anything. Flow fills in whatever RunOptions leaves empty by asking a
// Presenter: which template, which name, where to put it. After a
// successful instantiation it hands the template's main file to the
// presenter for editing.
//
// TerminalPresenter is the Presenter used by the CLI.
package host
