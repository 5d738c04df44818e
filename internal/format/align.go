package format

// Align8 returns n aligned up to the next cell boundary. Cell sizes are
// always multiples of 8 bytes.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + CellAlignmentMask) & ^CellAlignmentMask
}

// AlignHBIN returns n aligned up to the next bin boundary. Hive bins are
// sized in 4 KiB multiples.
//
// Example:
//
//	AlignHBIN(1)    = 4096
//	AlignHBIN(4096) = 4096
//	AlignHBIN(4097) = 8192
func AlignHBIN(n int) int {
	return (n + HBINAlignmentMask) & ^HBINAlignmentMask
}
