package content

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

const blockSize = 64

// counterSpan is the number of keystream bytes addressable by one nonce,
// i.e. 2^32 blocks of 64 bytes.
const counterSpan = (uint64(1) << 32) * blockSize

// fillRandom writes the keystream bytes [offset, offset+len(dst)) into dst.
// Block index offset/64 is split into a 32-bit counter (low bits) and a
// nonce (high bits), so any offset can be addressed without replaying the
// stream from the start.
func (p Pattern) fillRandom(dst []byte, offset uint64) {
	for len(dst) > 0 {
		// Keystream left until the 32-bit counter wraps into the next nonce.
		left := counterSpan - offset%counterSpan

		n := len(dst)
		if uint64(n) > left {
			n = int(left)
		}

		p.keystream(dst[:n], offset)
		dst = dst[n:]
		offset += uint64(n)
	}
}

// keystream must not cross a counterSpan boundary.
func (p Pattern) keystream(dst []byte, offset uint64) {
	block := offset / blockSize

	var nonce [chacha20.NonceSize]byte
	binary.LittleEndian.PutUint64(nonce[4:], block>>32)

	c, err := chacha20.NewUnauthenticatedCipher(p.key[:], nonce[:])
	if err != nil {
		// Key and nonce have fixed, valid sizes.
		panic(err)
	}
	c.SetCounter(uint32(block))

	if skip := offset % blockSize; skip > 0 {
		var scratch [blockSize]byte
		c.XORKeyStream(scratch[:skip], scratch[:skip])
	}

	clear(dst)
	c.XORKeyStream(dst, dst)

	if n := len(p.alphabet); n > 0 {
		for i, b := range dst {
			dst[i] = p.alphabet[int(b)%n]
		}
	}
}
