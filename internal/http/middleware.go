package http

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"plantid-go/internal/config"
	"plantid-go/internal/models"
)

const sessionCookie = "plantid_session"

// requirePage guards HTML pages: unauthenticated requests are sent to the
// login form.
func (s *Server) requirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := s.lookupUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// requireAPI guards JSON endpoints.
func (s *Server) requireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := s.lookupUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Not authenticated"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

func (s *Server) lookupUser(c *gin.Context) *models.User {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	user, err := s.sessions.Resolve(token)
	if err != nil {
		return nil
	}
	return user
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

func redirectFlash(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusFound, path+"?flash="+url.QueryEscape(msg))
}

// bodyLimit rejects oversized requests before any handler logic runs.
func bodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "file too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func cors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
