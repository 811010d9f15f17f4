package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/MaurerErik/power-data-downloader/internal/models"

	"github.com/gin-gonic/gin"
)

const defaultRunsLimit = 20

type RunProvider interface {
	GetRuns(ctx context.Context, limit int, dataType string) ([]models.HarvestRun, error)
}

type RunsController struct {
	service RunProvider
}

func NewRunsController(service RunProvider) (*RunsController, error) {
	if service == nil {
		return nil, errors.New("run service is nil")
	}

	return &RunsController{service: service}, nil
}

func (c *RunsController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("runs controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/runs", c.getRuns)
	return nil
}

func (c *RunsController) getRuns(ctx *gin.Context) {
	limit, err := parseRunsLimit(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid runs limit"})
		return
	}

	dataType := ctx.Query("type")
	runs, err := c.service.GetRuns(ctx.Request.Context(), limit, dataType)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load runs"})
		return
	}

	ctx.JSON(http.StatusOK, runs)
}

func parseRunsLimit(ctx *gin.Context) (int, error) {
	value := ctx.Query("n")
	if value == "" {
		return defaultRunsLimit, nil
	}

	limit, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, errors.New("limit must be positive")
	}

	return limit, nil
}
