package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantid-go/internal/models"
	"plantid-go/internal/storage"
)

const historyLimit = 6

func (s *Server) detectPage(c *gin.Context) {
	user := currentUser(c)

	var latest *models.Identification
	var ident models.Identification
	err := s.db.Where("user_id = ?", user.ID).Order("created_at desc").First(&ident).Error
	if err == nil {
		latest = &ident
	}

	c.HTML(http.StatusOK, "detect.html", gin.H{
		"User":   user,
		"Latest": latest,
		"Flash":  c.Query("flash"),
	})
}

func (s *Server) profilePage(c *gin.Context) {
	user := currentUser(c)

	var history []models.Identification
	s.db.Where("user_id = ?", user.ID).Order("created_at desc").Limit(historyLimit).Find(&history)

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User":    user,
		"History": history,
		"Flash":   c.Query("flash"),
	})
}

func (s *Server) updateProfile(c *gin.Context) {
	user := currentUser(c)

	name := strings.TrimSpace(c.PostForm("name"))
	bio := strings.TrimSpace(c.PostForm("bio"))

	if name == "" {
		redirectFlash(c, "/profile", "Name cannot be empty.")
		return
	}

	user.Name = name
	user.Bio = bio

	if header, err := c.FormFile("avatar_file"); err == nil && header.Filename != "" {
		data, err := readUpload(header)
		if err != nil {
			redirectFlash(c, "/profile", "Could not read profile picture.")
			return
		}

		stored, err := s.store.SaveAvatar(data, header.Filename, user.ID)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrUnsupportedType):
				redirectFlash(c, "/profile", "Profile picture must be an image (png, jpg, jpeg, gif).")
			case errors.Is(err, storage.ErrInvalidImage):
				redirectFlash(c, "/profile", "Invalid image file.")
			default:
				redirectFlash(c, "/profile", "Could not save profile picture.")
			}
			return
		}
		user.AvatarURL = "/uploads/" + stored
	}

	if err := s.db.Save(user).Error; err != nil {
		redirectFlash(c, "/profile", "Could not update profile.")
		return
	}

	redirectFlash(c, "/profile", "Profile updated successfully.")
}

// resetProfile wipes the identification history and the running counter in
// one transaction.
func (s *Server) resetProfile(c *gin.Context) {
	user := currentUser(c)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Identification{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("plants_identified", 0).Error
	})
	if err != nil {
		redirectFlash(c, "/profile", "Could not reset profile.")
		return
	}

	redirectFlash(c, "/profile", "Your profile statistics have been reset.")
}
