package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/server/http/dto"
)

type HealthHandler struct {
	facade HealthFacade
}

func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Check handles GET /healthz. Any store error reports 503.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.facade.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, dto.Failure(domainErrors.ErrStoreUnavailable.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK("ok"))
}
