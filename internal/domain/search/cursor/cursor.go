// Package cursor encodes the stateless continuation token of unified search.
//
// A token carries, per document kind, the ordering key of the last item of that
// kind already returned, plus a fingerprint of the query it belongs to. Tokens are
// signed so that tampering is detected; they are only valid for one paging session
// and one token version.
package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/cookfind/internal/domain"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
	"github.com/kailas-cloud/cookfind/internal/domain/match"
)

// Version is bumped whenever the ranking or the payload layout changes.
const Version byte = 1

const macSize = 16

var defaultSecret = []byte("cookfind-cursor-v1")

// ErrInvalid is returned for malformed, tampered, or foreign tokens.
var ErrInvalid = fmt.Errorf("cursor: %w", domain.ErrInvalidCursor)

// Cursor is the decoded resume position of a unified search.
type Cursor struct {
	// Query is the fingerprint of the keyword/locale pair the cursor was issued for.
	Query string
	// After holds, per kind, the key of the last returned document of that kind.
	After map[document.Kind]document.Key
}

// Resume returns the key to resume kind after, or nil to start from the beginning.
func (c Cursor) Resume(kind document.Kind) *document.Key {
	k, ok := c.After[kind]
	if !ok {
		return nil
	}
	return &k
}

// Fingerprint binds a cursor to a query.
func Fingerprint(keyword, loc string) string {
	h := sha256.Sum256([]byte(match.Normalize(keyword) + "\x00" + locale.Canonical(loc)))
	return hex.EncodeToString(h[:8])
}

// Codec signs and verifies tokens.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec. An empty secret falls back to a built-in key.
func NewCodec(secret []byte) *Codec {
	if len(secret) == 0 {
		secret = defaultSecret
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Codec{secret: s}
}

type wireKey struct {
	Score float64 `json:"s"`
	Sec   int64   `json:"t"`
	Nsec  int     `json:"n,omitempty"`
	ID    string  `json:"i"`
}

type wirePayload struct {
	Query string                    `json:"q"`
	After map[document.Kind]wireKey `json:"a,omitempty"`
}

// Encode serializes and signs a cursor.
func (c *Codec) Encode(cur Cursor) (string, error) {
	p := wirePayload{Query: cur.Query}
	if len(cur.After) > 0 {
		p.After = make(map[document.Kind]wireKey, len(cur.After))
	}
	for kind, k := range cur.After {
		if err := validKey(kind, k); err != nil {
			return "", err
		}
		p.After[kind] = wireKey{
			Score: k.Score,
			Sec:   k.CreatedAt.Unix(),
			Nsec:  k.CreatedAt.Nanosecond(),
			ID:    k.ID,
		}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}

	buf := make([]byte, 0, 1+len(body)+macSize)
	buf = append(buf, Version)
	buf = append(buf, body...)
	buf = append(buf, c.sign(buf)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Decode verifies and parses a token. Every failure wraps ErrInvalid.
func (c *Codec) Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: encoding: %w", ErrInvalid, err)
	}
	if len(raw) < 1+macSize {
		return Cursor{}, fmt.Errorf("%w: too short", ErrInvalid)
	}
	if raw[0] != Version {
		return Cursor{}, fmt.Errorf("%w: version %d", ErrInvalid, raw[0])
	}

	signed, mac := raw[:len(raw)-macSize], raw[len(raw)-macSize:]
	if !hmac.Equal(mac, c.sign(signed)) {
		return Cursor{}, fmt.Errorf("%w: signature mismatch", ErrInvalid)
	}

	var p wirePayload
	if err := json.Unmarshal(signed[1:], &p); err != nil {
		return Cursor{}, fmt.Errorf("%w: payload: %w", ErrInvalid, err)
	}

	cur := Cursor{Query: p.Query}
	if len(p.After) > 0 {
		cur.After = make(map[document.Kind]document.Key, len(p.After))
	}
	for kind, w := range p.After {
		k := document.Key{
			Score:     w.Score,
			CreatedAt: time.Unix(w.Sec, int64(w.Nsec)).UTC(),
			ID:        w.ID,
		}
		if w.Nsec < 0 || w.Nsec >= int(time.Second) {
			return Cursor{}, fmt.Errorf("%w: nanoseconds out of range", ErrInvalid)
		}
		if err := validKey(kind, k); err != nil {
			return Cursor{}, err
		}
		cur.After[kind] = k
	}
	return cur, nil
}

// DecodeFor decodes a token and checks it was issued for the given query fingerprint.
func (c *Codec) DecodeFor(token, fingerprint string) (Cursor, error) {
	cur, err := c.Decode(token)
	if err != nil {
		return Cursor{}, err
	}
	if cur.Query != fingerprint {
		return Cursor{}, fmt.Errorf("%w: issued for another query", ErrInvalid)
	}
	return cur, nil
}

func (c *Codec) sign(data []byte) []byte {
	m := hmac.New(sha256.New, c.secret)
	m.Write(data)
	return m.Sum(nil)[:macSize]
}

func validKey(kind document.Kind, k document.Key) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalid, kind)
	}
	if math.IsNaN(k.Score) || k.Score < 0 || k.Score > 1 {
		return fmt.Errorf("%w: score %v outside [0,1]", ErrInvalid, k.Score)
	}
	if k.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalid)
	}
	return nil
}

// IsInvalid reports whether err is a cursor decoding failure.
func IsInvalid(err error) bool { return errors.Is(err, domain.ErrInvalidCursor) }
