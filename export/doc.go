// Package export writes documents out of the store as JSON files.
//
// FileDownloader is the store.Downloader used outside a browser: it drops
// each download into a directory. Archiver writes every saved document at
// once, spreading the work over a worker pool.
package export
