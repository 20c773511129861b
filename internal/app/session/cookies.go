package session

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 24 * 60 * 60

// CookiePersistence stores session entries as HTTP cookies on the
// current request/response pair. Values are base64url-encoded because
// the user entry is JSON, which cookies cannot carry raw.
//
// Writes are mirrored in a local map so a Get issued later in the same
// request observes the value even though the Set-Cookie header has not
// round-tripped yet.
type CookiePersistence struct {
	c       *gin.Context
	written map[string]*string
}

func NewCookiePersistence(c *gin.Context) *CookiePersistence {
	return &CookiePersistence{c: c, written: make(map[string]*string)}
}

func (p *CookiePersistence) Get(key string) (string, bool) {
	if v, ok := p.written[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	raw, err := p.c.Cookie(key)
	if err != nil {
		return "", false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

func (p *CookiePersistence) Set(key, value string) {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	p.c.SetSameSite(http.SameSiteLaxMode)
	// TODO: set secure to true in production with HTTPS
	p.c.SetCookie(key, encoded, cookieMaxAge, "/", "", false, true)
	v := value
	p.written[key] = &v
}

func (p *CookiePersistence) Remove(key string) {
	p.c.SetSameSite(http.SameSiteLaxMode)
	p.c.SetCookie(key, "", -1, "/", "", false, true)
	p.written[key] = nil
}
