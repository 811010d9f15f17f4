package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HarvestService interface {
	Refresh(ctx context.Context) error
}

type HarvestController struct {
	service HarvestService
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HarvestResponse struct {
	Status string `json:"status"`
}

func NewHarvestController(service HarvestService) (*HarvestController, error) {
	if service == nil {
		return nil, errors.New("harvest service is nil")
	}

	return &HarvestController{service: service}, nil
}

func (c *HarvestController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("harvest controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.POST("/harvest", c.harvest)
	return nil
}

func (c *HarvestController) harvest(ctx *gin.Context) {
	if err := c.service.Refresh(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "harvest finished with errors"})
		return
	}

	ctx.JSON(http.StatusOK, HarvestResponse{Status: "ok"})
}
