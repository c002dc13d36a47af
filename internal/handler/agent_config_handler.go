package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"visaprep/internal/service"
)

// AgentConfigHandler exposes the runtime extraction settings.
type AgentConfigHandler struct {
	settings *service.AgentSettings
}

// NewAgentConfigHandler creates a new AgentConfigHandler.
func NewAgentConfigHandler(settings *service.AgentSettings) *AgentConfigHandler {
	return &AgentConfigHandler{settings: settings}
}

// Get handles GET /api/v1/agent/config
func (h *AgentConfigHandler) Get(c *gin.Context) {
	RespondOK(c, h.settings.Get())
}

// Update handles PATCH /api/v1/agent/config
func (h *AgentConfigHandler) Update(c *gin.Context) {
	var patch service.AgentConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	cfg, err := h.settings.Update(patch)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	RespondOK(c, cfg)
}
