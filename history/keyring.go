package history

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
)

// KeySize is the length in bytes of a history key, selecting AES-256.
const KeySize = 32

var (
	// ErrCorrupt is returned when stored history or its key cannot be decoded
	// or fails authentication.
	ErrCorrupt = errors.New("history: corrupt data")
)

// Keyring holds the key used to encrypt history. The key is read from its file
// on first use, or generated and written there if the file does not exist.
// A Keyring is safe for concurrent use.
type Keyring struct {
	mu   sync.Mutex
	path string
	key  []byte
}

// NewKeyring creates a Keyring backed by the key file at path. The file is not
// touched until the key is first needed.
func NewKeyring(path string) *Keyring {
	return &Keyring{path: path}
}

// Path returns the location of the key file.
func (k *Keyring) Path() string {
	return k.path
}

// load returns the current key, reading or creating it as needed.
// k.mu must be held.
func (k *Keyring) load() ([]byte, error) {
	if k.key != nil {
		return k.key, nil
	}
	b, err := os.ReadFile(k.path)
	switch {
	case err == nil:
		key, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(b)))
		if err != nil || len(key) != KeySize {
			return nil, fmt.Errorf("%w: key file %s", ErrCorrupt, k.path)
		}
		k.key = key
		return key, nil
	case errors.Is(err, fs.ErrNotExist):
		key, err := newKey()
		if err != nil {
			return nil, err
		}
		if err := writeKey(k.path, key); err != nil {
			return nil, err
		}
		k.key = key
		return key, nil
	default:
		return nil, fmt.Errorf("history: reading key: %w", err)
	}
}

// Seal encrypts plaintext under the current key. The result is the base64
// nonce and the base64 ciphertext separated by a colon.
func (k *Keyring) Seal(plaintext []byte) (string, error) {
	k.mu.Lock()
	key, err := k.load()
	k.mu.Unlock()
	if err != nil {
		return "", err
	}
	return seal(key, plaintext)
}

// Open decrypts a string produced by Seal.
func (k *Keyring) Open(sealed string) ([]byte, error) {
	k.mu.Lock()
	key, err := k.load()
	k.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return open(key, sealed)
}

// rotate replaces the key with a fresh one. Data sealed under the old key can
// no longer be opened. k.mu must be held.
func (k *Keyring) rotate() ([]byte, error) {
	key, err := newKey()
	if err != nil {
		return nil, err
	}
	if err := writeKey(k.path, key); err != nil {
		return nil, err
	}
	k.key = key
	return key, nil
}

func newKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("history: generating key: %w", err)
	}
	return key, nil
}

func writeKey(path string, key []byte) error {
	s := base64.StdEncoding.EncodeToString(key) + "\n"
	if err := writeFile(path, []byte(s)); err != nil {
		return fmt.Errorf("history: writing key: %w", err)
	}
	return nil
}

func seal(key, plaintext []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("history: generating nonce: %w", err)
	}
	ct := gcm.Seal(nil, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(nonce) + ":" + base64.StdEncoding.EncodeToString(ct), nil
}

func open(key []byte, sealed string) ([]byte, error) {
	ns, cs, ok := strings.Cut(strings.TrimSpace(sealed), ":")
	if !ok || ns == "" || cs == "" {
		return nil, fmt.Errorf("%w: missing nonce or ciphertext", ErrCorrupt)
	}
	nonce, err := base64.StdEncoding.DecodeString(ns)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrCorrupt, err)
	}
	ct, err := base64.StdEncoding.DecodeString(cs)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", ErrCorrupt, err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: nonce length %d", ErrCorrupt, len(nonce))
	}
	pt, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return gcm, nil
}
