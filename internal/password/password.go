// Package password implements Component C: the stored-credential grammar
// "{SCHEME}base64(payload)" (§3 Invariant 6, §6 "Stored-password grammar"),
// plus preparation (hashing a cleartext password into storable form) and
// verification (constant-time comparison against a stored value).
//
// Grounded on spec.md §4.C and the password-handling behavior of
// original_source/laurelin/server; hash-kind schemes use the standard
// library's crypto/sha1, crypto/sha256, crypto/sha512 plus
// golang.org/x/crypto's sha3 and pbkdf2 submodules (grounded on
// golang.org/x/crypto appearing in oid-directory-go-radir's dependency
// graph — promoted here from indirect to directly imported). Crypt-kind
// schemes (system crypt(3)-style) are hand-rolled on stdlib hash
// primitives since no repo in the pack binds a POSIX crypt(3) library.
package password

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"
)

// Scheme names recognized in the "{SCHEME}" prefix.
const (
	SchemeSHA1    = "SHA"
	SchemeSSHA1   = "SSHA"
	SchemeSHA256  = "SHA256"
	SchemeSSHA256 = "SSHA256"
	SchemeSHA512  = "SHA512"
	SchemeSSHA512 = "SSHA512"
	SchemeSSHA3_256 = "SSHA3-256"
	SchemeSSHA3_512 = "SSHA3-512"
	SchemePBKDF2    = "PBKDF2"
	SchemeCrypt     = "CRYPT"
	SchemeClear     = "CLEARTEXT"
)

const saltLength = 16
const pbkdf2Iterations = 210000
const pbkdf2KeyLength = 32

// Hash prepares a cleartext password under the named scheme, returning the
// full "{SCHEME}base64(payload)" stored form.
func Hash(scheme, cleartext string) (string, error) {
	scheme = strings.ToUpper(scheme)
	switch scheme {
	case SchemeClear:
		return format(scheme, []byte(cleartext)), nil
	case SchemeSHA1:
		sum := sha1.Sum([]byte(cleartext))
		return format(scheme, sum[:]), nil
	case SchemeSHA256:
		sum := sha256.Sum256([]byte(cleartext))
		return format(scheme, sum[:]), nil
	case SchemeSHA512:
		sum := sha512.Sum512([]byte(cleartext))
		return format(scheme, sum[:]), nil
	case SchemeSSHA1:
		return saltedHash(scheme, cleartext, func(salted []byte) []byte {
			sum := sha1.Sum(salted)
			return sum[:]
		})
	case SchemeSSHA256:
		return saltedHash(scheme, cleartext, func(salted []byte) []byte {
			sum := sha256.Sum256(salted)
			return sum[:]
		})
	case SchemeSSHA512:
		return saltedHash(scheme, cleartext, func(salted []byte) []byte {
			sum := sha512.Sum512(salted)
			return sum[:]
		})
	case SchemeSSHA3_256:
		return saltedHash(scheme, cleartext, func(salted []byte) []byte {
			sum := sha3.Sum256(salted)
			return sum[:]
		})
	case SchemeSSHA3_512:
		return saltedHash(scheme, cleartext, func(salted []byte) []byte {
			sum := sha3.Sum512(salted)
			return sum[:]
		})
	case SchemePBKDF2:
		salt := make([]byte, saltLength)
		if _, err := rand.Read(salt); err != nil {
			return "", err
		}
		key := pbkdf2.Key([]byte(cleartext), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
		payload := append(salt, key...)
		return format(scheme, payload), nil
	case SchemeCrypt:
		salt := make([]byte, 8)
		if _, err := rand.Read(salt); err != nil {
			return "", err
		}
		return format(scheme, []byte(md5Crypt(cleartext, encodeCryptChars(salt)))), nil
	default:
		return "", fmt.Errorf("password: unknown scheme %q", scheme)
	}
}

// Verify reports whether cleartext matches the stored value (full
// "{SCHEME}base64(payload)" form). Unknown schemes never verify.
func Verify(stored, cleartext string) bool {
	scheme, payload, err := Parse(stored)
	if err != nil {
		return false
	}
	switch strings.ToUpper(scheme) {
	case SchemeClear:
		return subtle.ConstantTimeCompare(payload, []byte(cleartext)) == 1
	case SchemeSHA1:
		sum := sha1.Sum([]byte(cleartext))
		return subtle.ConstantTimeCompare(payload, sum[:]) == 1
	case SchemeSHA256:
		sum := sha256.Sum256([]byte(cleartext))
		return subtle.ConstantTimeCompare(payload, sum[:]) == 1
	case SchemeSHA512:
		sum := sha512.Sum512([]byte(cleartext))
		return subtle.ConstantTimeCompare(payload, sum[:]) == 1
	case SchemeSSHA1:
		return verifySalted(payload, cleartext, sha1.Size, func(salted []byte) []byte {
			sum := sha1.Sum(salted)
			return sum[:]
		})
	case SchemeSSHA256:
		return verifySalted(payload, cleartext, sha256.Size, func(salted []byte) []byte {
			sum := sha256.Sum256(salted)
			return sum[:]
		})
	case SchemeSSHA512:
		return verifySalted(payload, cleartext, sha512.Size, func(salted []byte) []byte {
			sum := sha512.Sum512(salted)
			return sum[:]
		})
	case SchemeSSHA3_256:
		return verifySalted(payload, cleartext, 32, func(salted []byte) []byte {
			sum := sha3.Sum256(salted)
			return sum[:]
		})
	case SchemeSSHA3_512:
		return verifySalted(payload, cleartext, 64, func(salted []byte) []byte {
			sum := sha3.Sum512(salted)
			return sum[:]
		})
	case SchemePBKDF2:
		if len(payload) <= saltLength {
			return false
		}
		salt, key := payload[:saltLength], payload[saltLength:]
		candidate := pbkdf2.Key([]byte(cleartext), salt, pbkdf2Iterations, len(key), sha256.New)
		return subtle.ConstantTimeCompare(candidate, key) == 1
	case SchemeCrypt:
		return verifyCrypt(string(payload), cleartext)
	default:
		return false
	}
}

// Parse splits a stored value into its scheme and raw (decoded) payload.
func Parse(stored string) (scheme string, payload []byte, err error) {
	if !strings.HasPrefix(stored, "{") {
		return "", nil, fmt.Errorf("password: missing scheme prefix")
	}
	end := strings.IndexByte(stored, '}')
	if end < 0 {
		return "", nil, fmt.Errorf("password: unterminated scheme prefix")
	}
	scheme = stored[1:end]
	rest := stored[end+1:]
	payload, err = decodeBase64(rest)
	return scheme, payload, err
}

func format(scheme string, payload []byte) string {
	return "{" + scheme + "}" + base64.StdEncoding.EncodeToString(payload)
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

func saltedHash(scheme, cleartext string, sum func([]byte) []byte) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	digest := sum(append([]byte(cleartext), salt...))
	return format(scheme, append(digest, salt...)), nil
}

func verifySalted(payload []byte, cleartext string, digestSize int, sum func([]byte) []byte) bool {
	if len(payload) <= digestSize {
		return false
	}
	digest, salt := payload[:digestSize], payload[digestSize:]
	candidate := sum(append([]byte(cleartext), salt...))
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

// --- crypt(3)-style MD5-crypt, hand-rolled (§ justification in DESIGN.md) ---

const cryptChars = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func encodeCryptChars(random []byte) string {
	b := make([]byte, len(random))
	for i, v := range random {
		b[i] = cryptChars[int(v)%len(cryptChars)]
	}
	return string(b)
}

// md5Crypt implements the classic MD5-crypt algorithm (FreeBSD/Linux
// "$1$" format), used here as the payload of the {CRYPT} scheme.
func md5Crypt(password, salt string) string {
	if len(salt) > 8 {
		salt = salt[:8]
	}
	h := md5.New()
	h.Write([]byte(password))
	h.Write([]byte("$1$"))
	h.Write([]byte(salt))

	alt := md5.New()
	alt.Write([]byte(password))
	alt.Write([]byte(salt))
	alt.Write([]byte(password))
	altSum := alt.Sum(nil)

	for i := len(password); i > 0; i -= 16 {
		if i > 16 {
			h.Write(altSum)
		} else {
			h.Write(altSum[:i])
		}
	}
	for i := len(password); i > 0; i >>= 1 {
		if i&1 != 0 {
			h.Write([]byte{0})
		} else {
			h.Write([]byte(password[:1]))
		}
	}
	sum := h.Sum(nil)

	for round := 0; round < 1000; round++ {
		r := md5.New()
		if round&1 != 0 {
			r.Write([]byte(password))
		} else {
			r.Write(sum)
		}
		if round%3 != 0 {
			r.Write([]byte(salt))
		}
		if round%7 != 0 {
			r.Write([]byte(password))
		}
		if round&1 != 0 {
			r.Write(sum)
		} else {
			r.Write([]byte(password))
		}
		sum = r.Sum(nil)
	}

	return "$1$" + salt + "$" + md5CryptEncode(sum)
}

func md5CryptEncode(sum []byte) string {
	triples := [][3]int{{0, 6, 12}, {1, 7, 13}, {2, 8, 14}, {3, 9, 15}, {4, 10, 5}}
	var b strings.Builder
	for _, t := range triples {
		v := uint32(sum[t[0]])<<16 | uint32(sum[t[1]])<<8 | uint32(sum[t[2]])
		for i := 0; i < 4; i++ {
			b.WriteByte(cryptChars[v&0x3f])
			v >>= 6
		}
	}
	v := uint32(sum[11])
	for i := 0; i < 2; i++ {
		b.WriteByte(cryptChars[v&0x3f])
		v >>= 6
	}
	return b.String()
}

func verifyCrypt(stored, cleartext string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 4 || parts[0] != "" || parts[1] != "1" {
		return false
	}
	salt := parts[2]
	candidate := md5Crypt(cleartext, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
