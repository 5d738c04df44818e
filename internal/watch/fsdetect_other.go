//go:build !linux && !darwin && !windows

package watch

func detectFilesystemType(string) FilesystemType {
	return FSTypeUnknown
}
