// Package dispatch bridges host events to the metamusic tag editor.
//
// The host registers the table returned by Setup and routes three event kinds
// through it: named commands, context-menu queries and key presses. A matching
// command or key resolves the host's working directory, launches
// "metamusic <cwd>" through the host, waits for it to exit and then asks the
// host to refresh via the "update" signal. A matching menu query contributes a
// single "Edit MP3 Tags" entry.
//
// Matching rules (all case-sensitive, no trimming):
//   - Command: text is exactly "metamusic" or "mp3edit"
//   - Key: key is "e" with the ctrl modifier set
//   - Menu: target type is "file" and the name matches `\.mp3$`
//
// Launch policy:
//   - The launch blocks the calling handler until the tool exits
//   - No timeout, no retry, no cancellation once started
//   - Launch failures and non-zero exits are logged but not surfaced; the
//     update signal is emitted and the event reported handled regardless
//
// The only error a handler returns is a failed working-directory query.
package dispatch
