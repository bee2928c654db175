package encoding

// Split64 splits a uint64 into its high & low uint32 halves
func Split64(in uint64) (uint32, uint32) {
	return uint32(in >> 32), uint32(in)
}

// Merge32 two uint32 to uint64, a holds the significant bits
func Merge32(a, b uint32) uint64 {
	return (uint64(a) << 32) + uint64(b)
}
