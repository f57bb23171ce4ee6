package domain

// Zero overwrites b with zeros. Used on derived keys, decrypted secrets and
// prompt buffers once they are no longer needed.
func Zero(b []byte) {
	clear(b)
}

// ZeroAll zeroes every buffer in bufs.
func ZeroAll(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
