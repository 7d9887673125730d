// Command immichsync creates and maintains Immich albums from a folder
// structure or a Google Photos takeout archive.
package main
