package http

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantid-go/internal/models"
	"plantid-go/internal/storage"
)

// handleUpload runs the identify workflow: validate and store the image,
// ask the model for a best guess, persist the result together with the
// counter increment, and answer with the full identification payload. The
// identification step itself can never fail the request.
func (s *Server) handleUpload(c *gin.Context) {
	user := currentUser(c)

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No file uploaded"})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No file selected"})
		return
	}

	data, err := readUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Failed to read file"})
		return
	}

	stored, err := s.store.Save(data, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "File type not allowed"})
		case errors.Is(err, storage.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid image file"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to save file"})
		}
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(s.cfg.ReqTimeoutSec)*time.Second)
	defer cancel()

	result := s.ai.Identify(ctx, data, s.store.MIMEType(stored))

	ident := models.Identification{
		UserID:     user.ID,
		Filename:   stored,
		PlantName:  result.PlantName,
		CommonName: result.CommonName,
		Confidence: result.Confidence,
		CareLight:  result.CareLight,
		CareWater:  result.CareWater,
		CareSoil:   result.CareSoil,
		CareNotes:  result.CareNotes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ident).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("plants_identified", gorm.Expr("plants_identified + ?", 1)).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to save identification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"identification": gin.H{
			"id":          ident.ID,
			"plant_name":  ident.PlantName,
			"common_name": ident.CommonName,
			"confidence":  ident.Confidence,
			"care_light":  ident.CareLight,
			"care_water":  ident.CareWater,
			"care_soil":   ident.CareSoil,
			"care_notes":  ident.CareNotes,
			"image_url":   "/uploads/" + ident.Filename,
		},
	})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
