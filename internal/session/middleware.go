package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const contextKey = "lpaste.session"

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	// Secure forces the Secure cookie attribute. Requests that arrived over
	// TLS, directly or through a proxy, get it regardless.
	Secure bool
	Logger zerolog.Logger
}

// Middleware loads the request's session before the handler runs and
// persists it once the handler has changed it. A modified session is saved
// before the response header goes out, so the request that follows a
// redirect observes it.
func Middleware(store Store, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var id string
		if cookie, err := c.Request.Cookie(opts.CookieName); err == nil {
			id = cookie.Value
		}

		sess, err := store.Get(ctx, id)
		if err != nil {
			opts.Logger.Warn().Err(err).Msg("session load failed, using a new session")
			sess = New()
		}
		c.Set(contextKey, sess)

		w := &committingWriter{ResponseWriter: c.Writer, c: c, store: store, sess: sess, opts: opts}
		c.Writer = w

		c.Next()

		w.commit()
	}
}

// FromContext returns the session loaded by Middleware. Without the
// middleware a detached session is returned whose changes are discarded.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return New()
}

// committingWriter saves the session the moment the handler starts its
// response.
type committingWriter struct {
	gin.ResponseWriter

	c     *gin.Context
	store Store
	sess  *Session
	opts  Options
}

func (w *committingWriter) commit() {
	if !w.sess.Modified() {
		return
	}
	if err := w.store.Save(w.c.Request.Context(), w.sess); err != nil {
		w.opts.Logger.Error().Err(err).Str("session", w.sess.ID).Msg("session save failed")
		return
	}
	if w.ResponseWriter.Written() {
		return
	}
	http.SetCookie(w.ResponseWriter, &http.Cookie{
		Name:     w.opts.CookieName,
		Value:    w.sess.ID,
		Path:     "/",
		MaxAge:   int(w.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   w.opts.Secure || isHTTPS(w.c.Request),
		SameSite: http.SameSiteLaxMode,
	})
}

func (w *committingWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *committingWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

// isHTTPS detects if the original request was HTTPS, even behind proxies
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	switch {
	case r.Header.Get("X-Forwarded-Proto") == "https",
		r.Header.Get("X-Forwarded-Protocol") == "https",
		r.Header.Get("X-Forwarded-Scheme") == "https",
		r.Header.Get("X-Scheme") == "https",
		r.Header.Get("X-Forwarded-Ssl") == "on":
		return true
	}
	return false
}
