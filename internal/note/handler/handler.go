package handler

import (
	"errors"
	"net/http"

	"github.com/carpeta/organizer/internal/note"
	"github.com/carpeta/organizer/internal/note/service"
	"github.com/carpeta/organizer/pkg/logger"
	"github.com/gin-gonic/gin"
)

func RegisterNoteRoutes(r gin.IRoutes, svc service.Service) {
	r.GET("/api/notes", func(c *gin.Context) {
		list, err := svc.List(c.Query("search"))
		if err != nil {
			logger.Errorf("list notes: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list notes"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/api/notes", func(c *gin.Context) {
		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Color   string `json:"color"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		v, err := svc.Create(req.Title, req.Content, req.Color)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	})

	r.GET("/api/notes/:id", func(c *gin.Context) {
		v, err := svc.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})

	r.PUT("/api/notes/:id", func(c *gin.Context) {
		var p note.Patch
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		v, err := svc.Update(c.Param("id"), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})

	r.DELETE("/api/notes/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("notes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
