// Package cookiex defines the client-cookie collaborator and its net/http
// implementation.
package cookiex

import (
	"net/http"
	"time"
)

// Jar is the cookie transport the auth core writes through. Get reads from
// the incoming request; Set and Delete queue Set-Cookie headers on the
// response.
type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string, ttl time.Duration)
	Delete(name string)
}

// HTTPJar binds a Jar to one request/response pair.
type HTTPJar struct {
	w http.ResponseWriter
	r *http.Request
}

func NewHTTPJar(w http.ResponseWriter, r *http.Request) *HTTPJar {
	return &HTTPJar{w: w, r: r}
}

func (j *HTTPJar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (j *HTTPJar) Set(name, value string, ttl time.Duration) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (j *HTTPJar) Delete(name string) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
