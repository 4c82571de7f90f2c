package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Recognized staff roles. Role checks gate every mutating operation; reads
// are open to any authenticated role.
const (
	RoleAdmin   = "admin"
	RoleWaiter  = "waiter"
	RoleKitchen = "kitchen"
	RoleCounter = "counter"
)

var validRoles = map[string]struct{}{
	RoleAdmin:   {},
	RoleWaiter:  {},
	RoleKitchen: {},
	RoleCounter: {},
}

const SessionCookie = "pos_session"

var (
	ErrNoSession      = errors.New("missing session token")
	ErrInvalidSession = errors.New("invalid session token")
)

type Session struct {
	Name string
	Role string
}

// Verifier parses and checks the signed session tokens issued by the login
// service. Token issuance itself lives there; this side only consumes the
// token as an input to authorization checks.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Mint signs a session token. Exposed for tests and operational tooling; the
// production issuer uses the same format.
func (v *Verifier) Mint(name, role string, ttl time.Duration) string {
	payload := fmt.Sprintf("%s|%s|%d", name, role, time.Now().Add(ttl).Unix())
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + v.sign(payload)
}

// Parse validates the token signature and expiry and returns the session.
func (v *Verifier) Parse(token string) (Session, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return Session{}, ErrInvalidSession
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Session{}, ErrInvalidSession
	}
	payload := string(raw)

	if !hmac.Equal([]byte(v.sign(payload)), []byte(sig)) {
		return Session{}, ErrInvalidSession
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return Session{}, ErrInvalidSession
	}

	exp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return Session{}, ErrInvalidSession
	}

	role := parts[1]
	if _, known := validRoles[role]; !known {
		return Session{}, ErrInvalidSession
	}

	return Session{Name: parts[0], Role: role}, nil
}

// FromRequest extracts the session from the pos_session cookie or a bearer
// token, cookie first.
func (v *Verifier) FromRequest(r *http.Request) (Session, error) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return v.Parse(c.Value)
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return v.Parse(strings.TrimPrefix(h, "Bearer "))
	}
	return Session{}, ErrNoSession
}

func (v *Verifier) sign(payload string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
