//go:build linux

package diag

import "syscall"

// readFlashBytes reports the size of the root filesystem, the closest
// analogue of on-board flash for an SD-card based board.
func readFlashBytes() uint64 {
	var fs syscall.Statfs_t
	if err := syscall.Statfs("/", &fs); err != nil {
		return 0
	}
	return fs.Blocks * uint64(fs.Bsize)
}
