//go:build linux

package watch

import "golang.org/x/sys/unix"

// Superblock magic numbers from statfs(2). sshfs and friends surface
// as FUSE, which is conservative in the right direction for us.
const (
	nfsSuperMagic  int64 = 0x6969
	cifsSuperMagic int64 = 0xFF534D42
	fuseSuperMagic int64 = 0x65735546
)

func detectFilesystemType(path string) FilesystemType {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return FSTypeUnknown
	}

	switch int64(stat.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case cifsSuperMagic:
		return FSTypeSMB
	case fuseSuperMagic:
		return FSTypeFUSE
	default:
		return FSTypeLocal
	}
}
