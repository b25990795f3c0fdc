package http

import (
	"context"
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantid-go/internal/ai"
	"plantid-go/internal/config"
	"plantid-go/internal/session"
	"plantid-go/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Identifier is the identification client seen by the handlers. The real
// Gemini client satisfies it; tests substitute a fake.
type Identifier interface {
	Identify(ctx context.Context, imageData []byte, mimeType string) ai.PlantResult
}

type Server struct {
	cfg      *config.Config
	db       *gorm.DB
	store    *storage.Store
	sessions session.Store
	ai       Identifier
}

func NewServer(cfg *config.Config, db *gorm.DB, identifier Identifier, store *storage.Store, sessions session.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(logging())
	r.Use(bodyLimit(cfg.MaxUploadMB * 1024 * 1024))

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	s := &Server{cfg: cfg, db: db, store: store, sessions: sessions, ai: identifier}

	r.GET("/", s.index)
	r.GET("/register", s.registerPage)
	r.POST("/register", s.register)
	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)

	pages := r.Group("/", s.requirePage())
	{
		pages.GET("/detect", s.detectPage)
		pages.GET("/profile", s.profilePage)
		pages.POST("/profile", s.updateProfile)
		pages.POST("/profile/reset", s.resetProfile)
	}

	api := r.Group("/", s.requireAPI())
	{
		api.POST("/upload", s.handleUpload)
	}

	r.Static("/uploads", store.Root())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	return r
}
