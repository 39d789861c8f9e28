package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-newton-rings/internal/config"
	apperrors "go-newton-rings/internal/errors"
	"go-newton-rings/internal/history"
	"go-newton-rings/internal/logger"
	"go-newton-rings/internal/observer"
	"go-newton-rings/internal/service"
	"go-newton-rings/pkg/models"
)

// NewHandler builds the HTTP API around the measurement service. The history
// store and metrics observer are optional; pass nil to disable them.
func NewHandler(
	svc service.MeasurementService,
	store history.Store,
	publisher observer.Subject,
	metrics *observer.MetricsObserver,
	cfg *config.ServerConfig,
) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/measure", measureImage(svc, store, publisher, cfg))
	r.GET("/measurements", listMeasurements(store))
	r.GET("/metrics", showMetrics(metrics))

	return r
}

func measureImage(svc service.MeasurementService, store history.Store, publisher observer.Subject, cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing measurement request")

		var req models.MeasurementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		publish(ctx, publisher, observer.MeasurementEvent{
			EventType: observer.MeasurementStarted,
			Timestamp: startTime,
			ImageURL:  req.URL,
		})

		response, err := svc.MeasureFromURL(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = apperrors.NewTimeoutError("measurement timed out", err)
			}
			publish(ctx, publisher, observer.MeasurementEvent{
				EventType:      observer.MeasurementFailed,
				Timestamp:      time.Now(),
				ImageURL:       req.URL,
				ProcessingTime: time.Since(startTime),
				ErrorMessage:   err.Error(),
			})
			logger.WithError(err).WithFields(logrus.Fields{
				"url": req.URL,
				"ip":  c.ClientIP(),
			}).Error("Measurement failed")
			respondError(c, apperrors.GetStatusCode(err), "measurement failed", err)
			return
		}

		if store != nil {
			if err := store.SaveMeasurement(ctx, response); err != nil {
				// Persisting history must not fail the measurement.
				logger.WithError(err).Warn("Failed to record measurement history")
			}
		}

		eventType := observer.MeasurementCompleted
		if response.ErrorReport != nil && !response.ErrorReport.Passed {
			eventType = observer.QualityFlagged
		}
		publish(ctx, publisher, observer.MeasurementEvent{
			EventType:      eventType,
			Timestamp:      time.Now(),
			ImageURL:       req.URL,
			ProcessingTime: time.Since(startTime),
			Success:        true,
			Metadata: map[string]interface{}{
				"fringe_count": response.FringeCount,
				"radius_mm":    response.Fit.RadiusMM,
				"r_squared":    response.Fit.RSquared,
			},
		})

		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"fringe_count":       response.FringeCount,
			"radius_mm":          response.Fit.RadiusMM,
			"r_squared":          response.Fit.RSquared,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Measurement completed successfully")

		c.JSON(http.StatusOK, response)
	}
}

func listMeasurements(store history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusNotImplemented, models.ErrorResponse{
				Error:   http.StatusText(http.StatusNotImplemented),
				Message: "measurement history is not configured",
			})
			return
		}

		limit := 20
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondError(c, http.StatusBadRequest, "invalid limit", err)
				return
			}
			limit = parsed
		}

		records, err := store.RecentMeasurements(c.Request.Context(), limit)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to list measurements", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"measurements": records})
	}
}

func showMetrics(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func publish(ctx context.Context, publisher observer.Subject, event observer.MeasurementEvent) {
	if publisher != nil {
		publisher.NotifyObservers(ctx, event)
	}
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
