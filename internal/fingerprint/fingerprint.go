// Package fingerprint derives stable cache keys from logical requests.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Key is an opaque, deterministic identifier for one logical request.
// Equal requests always produce equal keys.
type Key string

// New derives a key from an operation name and its parameters, in order.
// Parameters are hashed byte-for-byte: use Term for free-text fields like
// search terms or role names where surrounding whitespace and letter case
// carry no meaning, and pass resume or job-description bodies verbatim:
// two resumes differing only in a trailing newline are distinct requests.
func New(operation string, params ...string) Key {
	h := sha256.New()
	h.Write([]byte(operation))
	for _, p := range params {
		// Length-prefix each part so ("ab","c") never collides with ("a","bc").
		h.Write([]byte{0})
		writeLen(h, len(p))
		h.Write([]byte(p))
	}
	return Key(operation + ":" + hex.EncodeToString(h.Sum(nil)))
}

// NewMap derives a key from map-like parameters, independent of map order.
func NewMap(operation string, params map[string]string) Key {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	flat := make([]string, 0, 2*len(names))
	for _, name := range names {
		flat = append(flat, name, params[name])
	}
	return New(operation, flat...)
}

// Term normalizes a free-text parameter whose whitespace and case are not
// semantically meaningful: trim, lowercase, collapse inner runs of spaces.
func Term(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func writeLen(h interface{ Write([]byte) (int, error) }, n int) {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	h.Write(buf[:])
}
