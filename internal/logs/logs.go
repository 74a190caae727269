// Package logs provides verbose-gated logging for the client. Network
// chatter is only worth printing when debugging, so it goes through
// Debugf; unconditional messages use Printf.
package logs

import "log"

// Verbose enables Debugf output. Set once at startup from config/flags.
var Verbose bool

// Debugf prints a formatted message only when verbose logging is on.
func Debugf(format string, args ...any) {
	if Verbose {
		log.Printf(format, args...)
	}
}

// Printf prints a formatted message unconditionally.
func Printf(format string, args ...any) {
	log.Printf(format, args...)
}
