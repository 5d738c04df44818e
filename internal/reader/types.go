package reader

import (
	"fmt"
	"time"
)

// NodeID and ValueID are small, copyable handles referring to NK/VK records.
// They encode cell offsets relative to the first hive bin, which keeps
// traversals allocation-light and makes handles stable for a hive's lifetime.
type (
	NodeID  uint32
	ValueID uint32
)

// RegType enumerates Windows registry value types commonly encountered.
// (The numbers align with Windows definitions.)
type RegType uint32

const (
	REG_NONE                       RegType = 0
	REG_SZ                         RegType = 1
	REG_EXPAND_SZ                  RegType = 2
	REG_BINARY                     RegType = 3
	REG_DWORD                      RegType = 4
	REG_DWORD_BE                   RegType = 5
	REG_LINK                       RegType = 6
	REG_MULTI_SZ                   RegType = 7
	REG_RESOURCE_LIST              RegType = 8
	REG_FULL_RESOURCE_DESCRIPTOR   RegType = 9
	REG_RESOURCE_REQUIREMENTS_LIST RegType = 10
	REG_QWORD                      RegType = 11
)

func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_DWORD_BE:
		return "REG_DWORD_BE"
	case REG_LINK:
		return "REG_LINK"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_RESOURCE_LIST:
		return "REG_RESOURCE_LIST"
	case REG_FULL_RESOURCE_DESCRIPTOR:
		return "REG_FULL_RESOURCE_DESCRIPTOR"
	case REG_RESOURCE_REQUIREMENTS_LIST:
		return "REG_RESOURCE_REQUIREMENTS_LIST"
	case REG_QWORD:
		return "REG_QWORD"
	default:
		// Signed formatting matches how most registry tools render bogus types.
		return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
	}
}

// KeyMeta is the decoded metadata of a registry key.
type KeyMeta struct {
	Name      string
	LastWrite time.Time
	SubkeyN   int
	ValueN    int
	IsRoot    bool
}

// ValueMeta is the decoded metadata of a registry value. Name is empty for a
// key's default value.
type ValueMeta struct {
	Name   string
	Type   RegType
	Size   int
	Inline bool
}

// HiveInfo exposes registry hive header (REGF) metadata.
type HiveInfo struct {
	Path         string
	LastWrite    time.Time
	MajorVersion uint32
	MinorVersion uint32
	Type         uint32 // 0 = primary, 1 = alternate
	FileSize     int64
	Bins         int
	Dirty        bool // sequence numbers disagree; last flush was interrupted
	ChecksumOK   bool
}
