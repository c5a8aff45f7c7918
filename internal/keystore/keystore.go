package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/stylelens/stylelens/internal/errors"
)

// Client-owned keys. The names mirror what the backend and the web client
// use for the same data, so support can reason about both.
const (
	KeyCalendarToken        = "google_calendar_token"
	KeyCalendarRefreshToken = "google_calendar_refresh_token"
	KeyCalendarExpiresAt    = "google_calendar_expires_at"
	KeyCalendarUserEmail    = "google_calendar_user_email"
	KeyCalendarUserName     = "google_calendar_user_name"
	KeyVerificationEmail    = "verification_email"
	KeyLoginUsername        = "login_username"
)

// calendarKeys are the keys removed as a unit when the calendar link dies.
var calendarKeys = []string{
	KeyCalendarToken,
	KeyCalendarRefreshToken,
	KeyCalendarExpiresAt,
	KeyCalendarUserEmail,
	KeyCalendarUserName,
}

const pbkdf2Iterations = 100000

// envelope is the on-disk format: a random salt per store, a nonce per
// write, and the AES-GCM sealed key/value map.
type envelope struct {
	Salt  string `json:"salt"`
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

// Store is an encrypted file-backed key/value store for the client-owned
// keys. Values are sealed at rest; the whole map is rewritten on every
// mutation.
type Store struct {
	mu     sync.RWMutex
	path   string
	salt   []byte
	key    []byte
	values map[string]string
}

// Open loads (or initializes) the keystore at path. The passphrase derives
// the encryption key; the same passphrase must be used across runs.
func Open(path, passphrase string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.salt = make([]byte, 16)
			if _, err := io.ReadFull(rand.Reader, s.salt); err != nil {
				return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, "failed to generate salt", err)
			}
			s.key = deriveKey(passphrase, s.salt)
			return s, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed,
			fmt.Sprintf("failed to read keystore: %s", path), err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreCorrupt,
			fmt.Sprintf("keystore file is not valid: %s", path), err).
			WithSuggestion("Remove the keystore file to reset it; calendar reconnect will be required")
	}

	s.salt, err = base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, "keystore salt is not valid", err)
	}
	s.key = deriveKey(passphrase, s.salt)

	if err := s.unseal(env); err != nil {
		return nil, err
	}

	return s, nil
}

// Get returns the value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return s.save()
}

// SetAll stores several values in one write.
func (s *Store) SetAll(values map[string]string) error {
	s.mu.Lock()
	for k, v := range values {
		s.values[k] = v
	}
	s.mu.Unlock()
	return s.save()
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return s.save()
}

// ClearCalendar removes exactly the five calendar keys. It implements the
// response policy's CalendarClearer.
func (s *Store) ClearCalendar() error {
	s.mu.Lock()
	for _, key := range calendarKeys {
		delete(s.values, key)
	}
	s.mu.Unlock()
	return s.save()
}

// HasCalendar reports whether a calendar token is held locally.
func (s *Store) HasCalendar() bool {
	_, ok := s.Get(KeyCalendarToken)
	return ok
}

func (s *Store) save() error {
	s.mu.RLock()
	plain, err := json.Marshal(s.values)
	s.mu.RUnlock()
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to encode keystore", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to initialize cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to initialize cipher", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to generate nonce", err)
	}

	sealed := gcm.Seal(nil, nonce, plain, nil)
	env := envelope{
		Salt:  base64.StdEncoding.EncodeToString(s.salt),
		Nonce: base64.StdEncoding.EncodeToString(nonce),
		Data:  base64.StdEncoding.EncodeToString(sealed),
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to encode keystore", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to create data directory", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("failed to write keystore: %s", s.path), err)
	}
	return nil
}

func (s *Store) unseal(env envelope) error {
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreCorrupt, "keystore nonce is not valid", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreCorrupt, "keystore data is not valid", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreDecrypt, "failed to initialize cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreDecrypt, "failed to initialize cipher", err)
	}

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreDecrypt, "failed to decrypt keystore", err).
			WithSuggestion("The keystore passphrase changed, or the file is damaged")
	}

	if err := json.Unmarshal(plain, &s.values); err != nil {
		return errors.Wrap(errors.ErrCodeStoreCorrupt, "keystore content is not valid", err)
	}
	return nil
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, 32, sha256.New)
}
