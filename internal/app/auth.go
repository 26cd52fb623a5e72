package app

import (
	"bufio"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"
)

// AuthRealm is sent in the WWW-Authenticate challenge
const AuthRealm = "Menus de la semaine - saisie"

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// ErrAborted is returned when the user refuses to overwrite an auth file
var ErrAborted = errors.New("aborted")

// Auth holds the credentials protecting edit mode
type Auth struct {
	User string
	File string
	hash []byte
}

// ResolveAuthFile makes a relative auth file path relative to the binary
func ResolveAuthFile(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(execPath), path), nil
}

// LoadAuth reads credentials from file (format: username:hash).
// A missing file returns nil, nil and leaves edit mode unprotected.
func LoadAuth(file string) (*Auth, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("╔══════════════════════════════════════════════════════════════════╗")
			log.Println("║                         ⚠️  WARNING ⚠️                            ║")
			log.Println("║                                                                  ║")
			log.Println("║  NO AUTH FILE FOUND - EDIT MODE UNPROTECTED!                    ║")
			log.Println("║                                                                  ║")
			log.Println("║  This is for LOCAL DEVELOPMENT ONLY!                            ║")
			log.Println("║                                                                  ║")
			log.Printf("║  Expected file: %-47s ║\n", file)
			log.Println("║                                                                  ║")
			log.Println("║  To create auth file, run:                                      ║")
			log.Println("║    ./menu-planer hash-password                                  ║")
			log.Println("║                                                                  ║")
			log.Println("╚══════════════════════════════════════════════════════════════════╝")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	line := strings.TrimSpace(string(data))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid auth file format (expected: username:hash)")
	}

	log.Printf("✅ Basic Auth enabled for edit mode (user: %s, file: %s)", parts[0], file)
	return &Auth{User: parts[0], File: file, hash: []byte(parts[1])}, nil
}

// HashPassword creates an Argon2id hash of the password
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// VerifyPassword verifies a password against an Argon2id hash
func VerifyPassword(password, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	computedHash := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decodedHash)))
	return subtle.ConstantTimeCompare(decodedHash, computedHash) == 1, nil
}

// Require enforces Basic Auth with Argon2id. A nil Auth lets every request through.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a == nil || a.hash == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(a.User)) == 1

		passMatch := false
		if ok && userMatch {
			var err error
			passMatch, err = VerifyPassword(pass, string(a.hash))
			if err != nil {
				log.Printf("Error verifying password: %v", err)
				passMatch = false
			}
		}

		if !ok || !userMatch || !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+AuthRealm+`"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			log.Printf("⚠️  Failed auth attempt from %s (user: %s)", r.RemoteAddr, user)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CreateAuthFile writes username and hashed password to authFile.
// Without overwrite an existing file is only replaced after confirmation on in.
func CreateAuthFile(authFile, username, password string, overwrite bool, in io.Reader, out io.Writer) error {
	if _, err := os.Stat(authFile); err == nil {
		if !overwrite {
			fmt.Fprintf(out, "Auth file already exists: %s\n", authFile)
			fmt.Fprint(out, "Overwrite? (y/N): ")
			response, _ := bufio.NewReader(in).ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				return ErrAborted
			}
		}
		// 0400 files cannot be truncated in place
		if err := os.Remove(authFile); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if dir := filepath.Dir(authFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create auth directory: %w", err)
		}
	}

	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(authFile, []byte(content), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	fmt.Fprintf(out, "✅ Auth file created: %s (mode: 0400 read-only)\n", authFile)
	fmt.Fprintf(out, "   Username: %s\n", username)
	return nil
}
