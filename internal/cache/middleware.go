package cache

import (
	"bytes"
	"net/http"

	"github.com/dustin/movies-backend/internal/auth"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Header reporting whether a response was served from cache
const Header = "X-Cache"

// bodyRecorder copies everything written to the client
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves GET requests from store and caches successful JSON
// responses under tag. Entries are keyed per viewer because responses embed
// the viewer's own rating. Must run after auth.Authenticate.
func Middleware(store Store, tag string, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("cache-middleware")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := Key(c)

		body, ok, err := store.Get(ctx, key)
		if err != nil {
			log.Warn("Cache read failed for " + key + ": " + err.Error())
		}
		if ok {
			c.Header(Header, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Header(Header, "MISS")

		c.Next()

		if recorder.Status() != http.StatusOK || recorder.body.Len() == 0 {
			return
		}
		if err := store.Set(ctx, key, recorder.body.Bytes(), tag); err != nil {
			log.Warn("Cache write failed for " + key + ": " + err.Error())
		}
	}
}

// Key identifies a cached response by method, URL and viewer
func Key(c *gin.Context) string {
	viewer := "anonymous"
	if id := auth.ViewerID(c); id != nil {
		viewer = id.String()
	}
	return c.Request.Method + " " + c.Request.URL.RequestURI() + " " + viewer
}
