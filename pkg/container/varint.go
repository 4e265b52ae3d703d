package container

// zigzag maps a signed integer onto an unsigned one so small
// magnitudes of either sign encode in few varint bytes.
func zigzag(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// appendVarint appends the base-128 varint encoding of v to buf.
func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// appendLong appends the Avro long encoding (zigzag varint) of n.
func appendLong(buf []byte, n int64) []byte {
	return appendVarint(buf, zigzag(n))
}

// longSize returns the number of bytes appendLong will write for n.
func longSize(n int64) int {
	v := zigzag(n)
	size := 1
	for v >= 0x80 {
		v >>= 7
		size++
	}
	return size
}
