// Package signal provides the business boundary for the SOS signal
// lifecycle. It defines the Service (creation, listing, claim/status
// transitions, dashboard stats), the Store interface (persistence),
// and the domain models.
package signal
