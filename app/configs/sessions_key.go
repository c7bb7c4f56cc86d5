package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

const newKeysFile = ".env.new_keys"

type SessionKeys struct {
	AuthKey   []byte
	EncKey    []byte
	JWTSecret []byte
}

func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	if env.AppAuthKey == "" {
		return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
	}
	if env.AppEncKey == "" {
		return nil, fmt.Errorf("APP_ENC_KEY environment variable not set")
	}
	if env.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	authKey, err := base64.URLEncoding.DecodeString(env.AppAuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_AUTH_KEY from Base64: %w", err)
	}
	encKey, err := base64.URLEncoding.DecodeString(env.AppEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_ENC_KEY from Base64: %w", err)
	}

	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}

	return &SessionKeys{
		AuthKey:   authKey,
		EncKey:    encKey,
		JWTSecret: []byte(env.JWTSecret),
	}, nil
}

// GenerateAndPrintSessionKeys prints a fresh key set to out and writes it to .env.new_keys.
func GenerateAndPrintSessionKeys(out io.Writer) error {
	authKey := securecookie.GenerateRandomKey(64)
	if authKey == nil {
		return fmt.Errorf("error: could not generate authentication key")
	}

	encKey := securecookie.GenerateRandomKey(32)
	if encKey == nil {
		return fmt.Errorf("error: could not generate encryption key")
	}

	jwtSecret := securecookie.GenerateRandomKey(32)
	if jwtSecret == nil {
		return fmt.Errorf("error: could not generate jwt secret")
	}

	lines := fmt.Sprintf("APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\nJWT_SECRET=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey),
		base64.RawURLEncoding.EncodeToString(jwtSecret),
	)

	fmt.Fprintln(out, "Generated keys:")
	fmt.Fprint(out, lines)

	if err := os.WriteFile(newKeysFile, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", newKeysFile, err)
	}

	fmt.Fprintf(out, "Keys have been written to '%s'. Copy them into your .env file.\n", newKeysFile)
	fmt.Fprintln(out, "Regenerating keys invalidates existing guest carts and tokens.")
	return nil
}
