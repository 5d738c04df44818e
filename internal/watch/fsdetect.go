package watch

import (
	"os"
	"path/filepath"
)

// FilesystemType is a best-effort classification of the filesystem
// holding the hive. Its only consumer is the polling decision: on the
// remote types, change events are unreliable enough that the watcher
// starts in polling mode outright.
type FilesystemType int

const (
	FSTypeUnknown FilesystemType = iota
	FSTypeLocal
	FSTypeNFS
	FSTypeSMB
	FSTypeFUSE
)

func (t FilesystemType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeNFS:
		return "nfs"
	case FSTypeSMB:
		return "smb"
	case FSTypeFUSE:
		return "fuse"
	default:
		return "unknown"
	}
}

func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeFUSE:
		return true
	default:
		return false
	}
}

// Seam for tests.
var detectFilesystemTypeFunc = detectFilesystemType

// DetectFilesystemType classifies the filesystem for the given path.
// Files are resolved to their containing directory first, which also
// covers hives that do not exist yet.
func DetectFilesystemType(path string) FilesystemType {
	if path == "" {
		return FSTypeUnknown
	}

	target := path
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			target = filepath.Dir(path)
		}
	} else {
		target = filepath.Dir(path)
		if target == "." || target == "" {
			target = path
		}
	}

	return detectFilesystemTypeFunc(target)
}
