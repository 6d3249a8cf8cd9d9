// Package classify assigns a danger severity to an incoming SOS report.
// It tries the configured LLM provider first and falls back to a
// deterministic keyword rule; provider failures never reach the caller.
package classify
