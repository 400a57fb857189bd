package server

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"curve/internal/ctxlog"
	"curve/internal/curve"
	"curve/internal/db"
	"curve/internal/keypack"
	"curve/internal/plot"
	"curve/internal/subst"
)

// KeyStore resolves and manages named keys.
type KeyStore interface {
	PutKey(name, key string, now time.Time) error
	Key(name string, now time.Time) (string, error)
	DeleteKey(name string) error
	All() iter.Seq2[string, db.Entry]
}

type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string {
	return e.msg
}

func badRequest(format string, a ...any) error {
	return &apiError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, a...)}
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		writeError(w, r, ae.status, ae.msg)
		return
	}

	ctxlog.Get(r.Context()).Error("request failed", "error", err)
	writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// keySource names a key directly, as a packed token, or by its stored name.
// Exactly one must be set.
type keySource struct {
	Key       string `json:"key,omitempty"`
	PackedKey string `json:"packedKey,omitempty"`
	KeyName   string `json:"keyName,omitempty"`
}

type api struct {
	keys KeyStore
	now  func() time.Time
}

// tag returns r with its logger naming the stored key src refers to, if any.
func tag(r *http.Request, src keySource) *http.Request {
	if src.KeyName == "" {
		return r
	}
	return r.WithContext(ctxlog.With(r.Context(), "keyName", src.KeyName))
}

func (a *api) resolve(src keySource) (string, error) {
	set := 0
	for _, s := range []string{src.Key, src.PackedKey, src.KeyName} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return "", badRequest("exactly one of key, packedKey and keyName is required")
	}

	switch {
	case src.Key != "":
		return src.Key, nil

	case src.PackedKey != "":
		key, err := keypack.Unpack(src.PackedKey)
		if err != nil {
			return "", badRequest("packedKey: %v", err)
		}
		return key, nil

	default:
		if a.keys == nil {
			return "", badRequest("keyName: no key store configured")
		}
		key, err := a.keys.Key(src.KeyName, a.now())
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", &apiError{status: http.StatusNotFound, msg: fmt.Sprintf("keyName: %q not found", src.KeyName)}
		}
		if err != nil {
			return "", fmt.Errorf("resolve key %q: %w", src.KeyName, err)
		}
		return key, nil
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &apiError{status: http.StatusRequestEntityTooLarge, msg: "request body too large"}
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// transformRequest carries either a key source or an explicit curve in
// letter form.
type transformRequest struct {
	keySource
	Curve string `json:"curve,omitempty"`
	Text  string `json:"text"`
}

type transformResponse struct {
	Text      string `json:"text"`
	PackedKey string `json:"packedKey,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
}

// table parses an explicit curve for direction d.
func table(letters string, d subst.Direction) (curve.Permutation, error) {
	p, err := curve.Parse(letters)
	if err != nil {
		return nil, badRequest("curve: %v", err)
	}
	if d == subst.Decrypt {
		return curve.Invert(p)
	}
	return p, nil
}

func (a *api) transformCurve(w http.ResponseWriter, r *http.Request, req transformRequest, d subst.Direction) {
	if req.keySource != (keySource{}) {
		fail(w, r, badRequest("curve cannot be combined with key, packedKey or keyName"))
		return
	}

	p, err := table(req.Curve, d)
	if err != nil {
		fail(w, r, err)
		return
	}
	text, err := subst.Apply(req.Text, p)
	if err != nil {
		fail(w, r, badRequest("curve: %v", err))
		return
	}

	writeJSON(w, r, http.StatusOK, transformResponse{Text: text})
}

func (a *api) transform(d subst.Direction) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transformRequest
		if err := decode(r, &req); err != nil {
			fail(w, r, err)
			return
		}

		if req.Curve != "" {
			a.transformCurve(w, r, req, d)
			return
		}

		r = tag(r, req.keySource)
		key, err := a.resolve(req.keySource)
		if err != nil {
			fail(w, r, err)
			return
		}

		packed, err := keypack.Pack(key)
		if err != nil {
			fail(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, transformResponse{
			Text:      subst.Transform(req.Text, key, d),
			PackedKey: packed,
			Seed:      curve.DeriveSeed(key),
		})
	})
}

type curveResponse struct {
	Seed           uint64 `json:"seed"`
	Permutation    []int  `json:"permutation"`
	Inverse        []int  `json:"inverse"`
	Letters        string `json:"letters"`
	InverseLetters string `json:"inverseLetters"`
}

func (a *api) curve(w http.ResponseWriter, r *http.Request) {
	var src keySource
	if err := decode(r, &src); err != nil {
		fail(w, r, err)
		return
	}

	r = tag(r, src)
	key, err := a.resolve(src)
	if err != nil {
		fail(w, r, err)
		return
	}

	p := curve.Generate(key)
	inv := p.Inverse()
	writeJSON(w, r, http.StatusOK, curveResponse{
		Seed:           curve.DeriveSeed(key),
		Permutation:    p,
		Inverse:        inv,
		Letters:        p.String(),
		InverseLetters: inv.String(),
	})
}

// curveETag names the SVG rendering of p. The curve alone determines the
// image, so anagram keys share it.
func curveETag(p curve.Permutation) string {
	h := md5.New()
	h.Write([]byte("svg:" + p.String()))
	return `"` + base64.RawURLEncoding.EncodeToString(h.Sum(nil)) + `"`
}

// curveImage answers revalidations from the ETag alone and only passes
// actual rendering through throttled.
func (a *api) curveImage(throttled func(http.Handler) http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		src := keySource{
			Key:       q.Get("key"),
			PackedKey: q.Get("packedKey"),
			KeyName:   q.Get("keyName"),
		}
		r = tag(r, src)
		key, err := a.resolve(src)
		if err != nil {
			fail(w, r, err)
			return
		}

		p := curve.Generate(key)
		etag := curveETag(p)

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		throttled(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := &strings.Builder{}
			if _, err := plot.WriteTo(buf, p, "svg"); err != nil {
				fail(w, r, err)
				return
			}

			w.Header().Set("Content-Type", "image/svg+xml")
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte(buf.String())); err != nil {
				log := ctxlog.Get(r.Context())
				log.Error("failed to write response", "error", err)
			}
		})).ServeHTTP(w, r)
	})
}

type keyInfo struct {
	Name     string     `json:"name"`
	Seed     uint64     `json:"seed"`
	Created  time.Time  `json:"created"`
	LastUsed *time.Time `json:"lastUsed,omitempty"`
	Uses     uint64     `json:"uses"`
}

func (a *api) listKeys(w http.ResponseWriter, r *http.Request) {
	keys := []keyInfo{}
	for name, entry := range a.keys.All() {
		info := keyInfo{
			Name:    name,
			Seed:    entry.Seed,
			Created: entry.Created,
			Uses:    entry.Uses,
		}
		if !entry.LastUsed.IsZero() {
			info.LastUsed = &entry.LastUsed
		}
		keys = append(keys, info)
	}

	writeJSON(w, r, http.StatusOK, keys)
}

type putKeyRequest struct {
	Key string `json:"key"`
}

func (a *api) putKey(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !db.ValidName(name) {
		fail(w, r, badRequest("invalid key name %q", name))
		return
	}

	var req putKeyRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Key == "" {
		fail(w, r, badRequest("key is required"))
		return
	}

	if err := a.keys.PutKey(name, req.Key, a.now()); err != nil {
		fail(w, r, err)
		return
	}

	ctxlog.Get(r.Context()).Info("stored key", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) deleteKey(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	err := a.keys.DeleteKey(name)
	if errors.Is(err, db.ErrKeyNotFound) {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("key %q not found", name))
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	ctxlog.Get(r.Context()).Info("deleted key", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
