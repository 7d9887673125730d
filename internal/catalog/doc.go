// Package catalog builds the desired album state for one run.
//
// Two builders exist: FromFolders groups remote assets by the folder
// components of their paths under the library root, and FromTakeout maps a
// photo-backup archive (embedded sqlite index plus JSON album manifests)
// onto already-imported remote assets. Both produce the same Catalog, which
// then absorbs per-folder properties files and CLI defaults before the
// reconciliation engine consumes it.
package catalog
