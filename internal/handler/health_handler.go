package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/casestudyai/casestudyai/internal/pkg/response"
	"github.com/casestudyai/casestudyai/internal/service"
)

type HealthHandler struct {
	svc *service.HealthService
}

func NewHealthHandler(svc *service.HealthService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Check always answers 200; degradation is reported in the body.
func (h *HealthHandler) Check(c *gin.Context) {
	response.Success(c, h.svc.Check(c.Request.Context()))
}
