package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carpeta/organizer/internal/calendar"
	"github.com/carpeta/organizer/internal/persistence"
	"github.com/carpeta/organizer/internal/snapshot/service"
	"github.com/carpeta/organizer/pkg/logger"
	"github.com/gin-gonic/gin"
)

// maxSnapshotBytes bounds the /api/save body.
const maxSnapshotBytes = 16 << 20

func RegisterSnapshotRoutes(r gin.IRoutes, svc service.Service) {
	r.POST("/api/save", func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSnapshotBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		snap, err := persistence.Decode(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.Save(c.Request.Context(), snap); err != nil {
			if errors.Is(err, service.ErrInvalid) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Errorf("save snapshot: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store snapshot"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "saved"})
	})

	r.GET("/api/load", func(c *gin.Context) {
		snap, err := svc.Load(c.Request.Context())
		if err != nil {
			logger.Errorf("load snapshot: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load snapshot"})
			return
		}
		if snap == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	r.GET("/api/documents", func(c *gin.Context) {
		list, err := svc.ListDocuments(c.Request.Context(), c.Query("search"))
		if err != nil {
			logger.Errorf("list documents: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list documents"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/events", func(c *gin.Context) {
		f, err := parseEventFilter(c.Query("month"), c.Query("day"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		events, err := svc.ListEvents(c.Request.Context(), f)
		if err != nil {
			logger.Errorf("list events: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list events"})
			return
		}
		c.JSON(http.StatusOK, events)
	})
}

// parseEventFilter reads month=YYYY-M (or YYYY-MM) and an optional day.
func parseEventFilter(month, day string) (service.EventFilter, error) {
	var f service.EventFilter
	if month == "" {
		if day != "" {
			return f, fmt.Errorf("day requires month")
		}
		return f, nil
	}
	y, m, ok := strings.Cut(month, "-")
	year, yerr := strconv.Atoi(y)
	mon, merr := strconv.Atoi(m)
	if !ok || yerr != nil || merr != nil || year < 1 || year > 9999 || mon < 1 || mon > 12 {
		return f, fmt.Errorf("invalid month %q, want YYYY-M", month)
	}
	f.Year, f.Month = year, time.Month(mon)
	if day != "" {
		d, err := strconv.Atoi(day)
		if err != nil || d < 1 || d > calendar.DaysIn(year, f.Month) {
			return f, fmt.Errorf("invalid day %q for %s", day, month)
		}
		f.Day = d
	}
	return f, nil
}
