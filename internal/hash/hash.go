// Package hash provides the content-hash primitives used by the module
// metadata cache, the build cache, and the test cache. CRC32C and SHA
// are both implemented with the standard library: the binary formats
// that consume them (spec §4.4, §4.11, §4.12) are bit-exact contracts
// tied to these exact algorithms, so there is no ecosystem library to
// substitute in for them.
package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash/crc32"
	"os"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32C (Castagnoli) checksum of b.
func CRC32C(b []byte) uint32 {
	return crc32.Checksum(b, castagnoli)
}

// CRC32CConcat returns the CRC32C checksum over the concatenation of
// chunks in order, without allocating the concatenated buffer.
func CRC32CConcat(chunks ...[]byte) uint64 {
	h := crc32.New(castagnoli)
	for _, c := range chunks {
		_, _ = h.Write(c)
	}
	return uint64(h.Sum32())
}

// SHA512Hex returns the lowercase hex SHA-512 digest of b.
func SHA512Hex(b []byte) string {
	sum := sha512.Sum512(b)
	return hex.EncodeToString(sum[:])
}

// SHA512File hashes a file's contents; used by the test cache.
func SHA512File(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return SHA512Hex(content), nil
}

// SHA256Hex returns the lowercase hex SHA-256 digest of b.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// SHA256File hashes a file's contents; used by the RLIB archive writer.
func SHA256File(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return SHA256Hex(content), nil
}
