package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// DraftCookie identifies a visitor's in-progress intake form.
const DraftCookie = "ferweb_draft"

// Cookies sets the attributes shared by every cookie the site issues.
type Cookies struct {
	Secure   bool
	DraftTTL time.Duration
}

func (c Cookies) set(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// draftID returns the visitor's draft id, issuing a fresh one when the
// cookie is absent or malformed. The cookie is refreshed on every call.
func (c Cookies) draftID(w http.ResponseWriter, r *http.Request) string {
	id := ""
	if ck, err := r.Cookie(DraftCookie); err == nil {
		if _, err := uuid.Parse(ck.Value); err == nil {
			id = ck.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	c.set(w, DraftCookie, id, time.Now().Add(c.DraftTTL))
	return id
}
