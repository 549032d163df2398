// Package history keeps a SQLite log of downloaded wallpapers.
//
// Besides the download records it stores a monotonically increasing backup
// counter. Numbering backups from the counter instead of a directory scan
// keeps names unique even when an earlier backup was deleted or a previous
// run failed halfway.
package history
