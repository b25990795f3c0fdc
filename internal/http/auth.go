package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"plantid-go/internal/models"
)

const defaultAvatar = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop&crop=face"

// invalidCredentials is shared between the unknown-email and wrong-password
// paths so login failures carry no enumeration signal.
const invalidCredentials = "Invalid email or password."

func (s *Server) index(c *gin.Context) {
	if s.lookupUser(c) == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Redirect(http.StatusFound, "/detect")
}

func (s *Server) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Flash": c.Query("flash")})
}

func (s *Server) register(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm")

	if name == "" || email == "" || password == "" {
		redirectFlash(c, "/register", "Please fill in all required fields.")
		return
	}
	if password != confirm {
		redirectFlash(c, "/register", "Passwords do not match.")
		return
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		redirectFlash(c, "/login", "An account with that email already exists. Please log in.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		redirectFlash(c, "/register", "Could not create account.")
		return
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		AvatarURL:    defaultAvatar,
		Bio:          "",
	}
	if err := s.db.Create(&user).Error; err != nil {
		// unique index on email catches the register/register race
		redirectFlash(c, "/login", "An account with that email already exists. Please log in.")
		return
	}

	redirectFlash(c, "/login", "Account created successfully. Please log in.")
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Flash": c.Query("flash")})
}

func (s *Server) login(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			redirectFlash(c, "/login", "Something went wrong. Please try again.")
			return
		}
		redirectFlash(c, "/login", invalidCredentials)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		redirectFlash(c, "/login", invalidCredentials)
		return
	}

	ttl := time.Duration(s.cfg.SessionDays) * 24 * time.Hour
	token, err := s.sessions.Create(user.ID, ttl)
	if err != nil {
		redirectFlash(c, "/login", "Something went wrong. Please try again.")
		return
	}

	c.SetCookie(sessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/detect")
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.Destroy(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	redirectFlash(c, "/login", "You have been logged out.")
}
