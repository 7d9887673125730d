// Package reconcile converges a server's albums toward a desired catalog.
//
// The engine processes albums in name order and, per album, ensures it
// exists, adds missing assets, converges its properties and its share
// list. A failing album is recorded in the run summary and never aborts
// the loop. Post-actions cover the cleanup sweeps that run after the main
// loop: deleting empty albums, randomizing thumbnails and tearing managed
// albums down.
package reconcile
