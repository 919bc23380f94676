// Package reactive implements the signal/memo core used by table state.
//
// A Signal is a mutable reactive value. A Memo is a lazy cached computation
// that tracks the signals it reads and invalidates when any of them change.
// Reading a signal inside a tracked computation (see WithListener and Memo)
// subscribes the current listener to that signal.
//
// The package is safe for concurrent use; notification uses a
// copy-before-notify pattern so no lock is held while listeners run.
package reactive
