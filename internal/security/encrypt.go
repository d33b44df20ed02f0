// Package security wraps age passphrase encryption for files that must be
// carried into a backup verbatim instead of being redacted (.env files and
// similar). Output is ASCII-armored so it stores cleanly in text-oriented
// version control.
package security

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/moinsen-dev/scrubber/internal/fsutil"
)

const armorHeader = "-----BEGIN AGE ENCRYPTED FILE-----"

// Encrypt encrypts data with an age scrypt recipient derived from the passphrase.
func Encrypt(data []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)
	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.Bytes(), nil
}

// Decrypt decrypts armored age data with a passphrase.
func Decrypt(data []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(data)), identity)
	if err != nil {
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}
	return plaintext, nil
}

// EncryptFile encrypts src and writes the armored result to dst atomically.
func EncryptFile(src, dst, passphrase string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading source file: %w", err)
	}
	encrypted, err := Encrypt(data, passphrase)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(dst, encrypted, 0o600)
}

// DecryptFile decrypts src and writes the plaintext to dst atomically.
func DecryptFile(src, dst, passphrase string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading encrypted file: %w", err)
	}
	plaintext, err := Decrypt(data, passphrase)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(dst, plaintext, 0o600)
}

// IsEncrypted reports whether data is an armored age file. The sanitizer
// skips such inputs: rewriting ciphertext would only corrupt it.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(armorHeader))
}
