package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casestudyai/casestudyai/internal/model"
	"github.com/casestudyai/casestudyai/internal/pkg/response"
	"github.com/casestudyai/casestudyai/internal/service"
)

type QueryHandler struct {
	svc *service.QueryService
}

func NewQueryHandler(svc *service.QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

func (h *QueryHandler) Query(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request body")
		return
	}
	resp, err := h.svc.Query(c.Request.Context(), req.Question)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
