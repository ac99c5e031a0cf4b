// Package browser implements a reusable tabular record browser: an ordered
// record store, a search filter, single-column stable sorting, pagination and
// a selection set keyed by record id.
//
// The Controller is the only public entry point a UI binds to. Every
// operation runs under one mutex and recomputes the derived view
// (filter → sort → paginate) before returning, so a Snapshot never observes
// a half-applied update.
//
// Selection is keyed by record id and is independent of filtering and
// pagination. A selected record that is filtered out stays selected; only
// removing it from the store prunes it.
package browser
