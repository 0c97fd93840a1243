package tunnel

// Base16Encode encodes src into the tunnel's base-16 alphabet (`A`..`P`,
// nibble values 0..15), emitting the high nibble of each source byte
// followed by the low nibble. The returned slice has length 2*len(src).
func Base16Encode(src []byte) []byte {
	dst := make([]byte, len(src)*2)
	Base16EncodeInto(dst, src)
	return dst
}

// Base16EncodeInto encodes src into dst, which must be at least 2*len(src)
// bytes. It never allocates.
func Base16EncodeInto(dst, src []byte) {
	for i, b := range src {
		dst[2*i] = (b >> 4) + 'A'
		dst[2*i+1] = (b & 0x0f) + 'A'
	}
}

// Base16Decode decodes src, which must be text in the `A`..`P` alphabet,
// back into raw bytes. If len(src) is odd, the trailing character is
// ignored and not treated as an error, matching the reference codec.
func Base16Decode(src []byte) []byte {
	n := len(src)
	if n%2 != 0 {
		n--
	}
	dst := make([]byte, n/2)
	Base16DecodeInto(dst, src[:n])
	return dst
}

// Base16DecodeInto decodes src (already truncated to an even length) into
// dst, which must be at least len(src)/2 bytes. dst and src may alias the
// same backing array as long as the source index never trails the
// destination index by more than one byte — true for every call site in
// this package, since decoding always shrinks data in place or writes to a
// fresh buffer.
func Base16DecodeInto(dst, src []byte) {
	for i := 0; i+1 < len(src); i += 2 {
		dst[i/2] = (src[i]-'A')<<4 | (src[i+1] - 'A')
	}
}
