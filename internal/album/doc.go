// Package album models the desired state of one Immich album and the
// property sources that shape it.
//
// A Model carries tri-state properties (pointer fields distinguish "unset"
// from an explicit false) so that merging and patching never clobber server
// state with defaults. Property sources are folder-level .albumprops files
// (key=value syntax) and CLI defaults; merge modes decide whether existing
// values are kept, strictly checked, or overridden.
package album
