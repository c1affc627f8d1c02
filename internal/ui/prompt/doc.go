// Package prompt provides small interactive prompts for terminal sessions.
//
// Callers must check that stdin is a terminal first; a prompt on a pipe
// would block forever.
package prompt
