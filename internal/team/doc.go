// Package team owns rescue team registration, login, and the
// token-to-identity check every mutating operation depends on.
package team
