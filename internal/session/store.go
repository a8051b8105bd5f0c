package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Jar is an http.CookieJar that persists the backend session cookies to a
// file, so that a login survives across CLI invocations the way a browser
// session survives page loads.
type Jar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	path   string
	origin *url.URL

	// cookies tracks the full attributes of the backend's cookies by
	// name. The inner jar returns only Name and Value from Cookies(), so
	// persistence works from the attributes captured in SetCookies.
	cookies map[string]storedCookie
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
	Secure  bool      `json:"secure,omitempty"`
}

// NewJar creates a cookie jar persisted at path, scoped to the backend
// origin. Cookies previously saved for that origin are loaded back in.
func NewJar(path, backendURL string) (*Jar, error) {
	origin, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}

	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	j := &Jar{
		inner:   inner,
		path:    path,
		origin:  origin,
		cookies: make(map[string]storedCookie),
	}
	if err := j.load(); err != nil {
		// A corrupt or missing session file means "not logged in", the
		// same way a cleared browser cookie store does.
		j.cookies = make(map[string]storedCookie)
	}
	return j, nil
}

// SetCookies stores cookies and persists those belonging to the backend
// origin. A cookie set with MaxAge < 0 or an expiry in the past is a
// deletion, mirroring the inner jar's behavior.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
	if u.Host != j.origin.Host {
		return
	}

	now := time.Now()
	for _, c := range cookies {
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && expires.Before(now)) {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: expires,
			Secure:  c.Secure,
		}
	}
	_ = j.save()
}

// Cookies returns the cookies to send for u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Clear drops all persisted session state.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.inner = inner
	j.cookies = make(map[string]storedCookie)

	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// HasSession reports whether any unexpired cookie exists for the backend.
func (j *Jar) HasSession() bool {
	return len(j.Cookies(j.origin)) > 0
}

func (j *Jar) load() error {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return err
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("invalid session file: %w", err)
	}

	now := time.Now()
	kept := make(map[string]storedCookie, len(stored))
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		kept[c.Name] = c
		cookies = append(cookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
			Secure:  c.Secure,
		})
	}

	j.cookies = kept
	j.inner.SetCookies(j.origin, cookies)
	return nil
}

func (j *Jar) save() error {
	stored := make([]storedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		stored = append(stored, c)
	}
	sort.Slice(stored, func(a, b int) bool { return stored[a].Name < stored[b].Name })

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
