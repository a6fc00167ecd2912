// Package password hashes back-office credentials. New hashes are Argon2id;
// accounts imported from the previous storefront still carry bcrypt hashes
// and are upgraded on their next successful login.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

type argonParams struct {
	memory  uint32
	passes  uint32
	threads uint8
	keyLen  uint32
}

var current = argonParams{memory: 64 * 1024, passes: 1, threads: 4, keyLen: 32}

const saltLen = 16

var errMalformed = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

func Hash(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plain), salt, current.passes, current.memory, current.threads, current.keyLen)
	return encode(current, salt, key), nil
}

// Verify reports whether plain matches encoded, which may be Argon2id or bcrypt.
func Verify(plain, encoded string) bool {
	if isBcrypt(encoded) {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain)) == nil
	}
	p, salt, key, err := decode(encoded)
	if err != nil {
		return false
	}
	check := argon2.IDKey([]byte(plain), salt, p.passes, p.memory, p.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, check) == 1
}

// NeedsRehash reports whether a verified hash should be replaced with Hash.
func NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}
	p, _, key, err := decode(encoded)
	if err != nil {
		return true
	}
	p.keyLen = uint32(len(key))
	return p != current
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func encode(p argonParams, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.passes, p.threads,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

// decode parses $argon2id$v=19$m=..,t=..,p=..$salt$key.
func decode(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, nil, nil, errMalformed
	}
	if fields[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return p, nil, nil, errMalformed
	}
	var rest string
	n, _ := fmt.Sscanf(fields[3]+";", "m=%d,t=%d,p=%d%s", &p.memory, &p.passes, &p.threads, &rest)
	if n != 4 || rest != ";" || p.passes == 0 || p.threads == 0 {
		return p, nil, nil, errMalformed
	}
	salt, err := b64.DecodeString(fields[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errMalformed
	}
	key, err := b64.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errMalformed
	}
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}
