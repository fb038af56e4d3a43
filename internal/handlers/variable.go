package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/repos"
	"github.com/yungbote/designmill-backend/internal/types"
)

type VariableHandler struct {
	log  *logger.Logger
	vars repos.VariableRepo
}

func NewVariableHandler(log *logger.Logger, vars repos.VariableRepo) *VariableHandler {
	return &VariableHandler{
		log:  log.With("handler", "VariableHandler"),
		vars: vars,
	}
}

// GET /api/variable-lists
func (h *VariableHandler) ListLists(c *gin.Context) {
	lists, err := h.vars.ListLists(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, lists)
}

type createListRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// POST /api/variable-lists
func (h *VariableHandler) CreateList(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	list := types.VariableList{Name: req.Name, Description: req.Description}
	if err := h.vars.CreateList(c.Request.Context(), &list); err != nil {
		RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}
	RespondCreated(c, list)
}

// GET /api/variable-lists/:name/items
func (h *VariableHandler) ListItems(c *gin.Context) {
	items, err := h.vars.ListItems(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, items)
}

type createItemRequest struct {
	Value        string   `json:"value" binding:"required"`
	Weight       *float64 `json:"weight"`
	Enabled      *bool    `json:"enabled"`
	CooldownDays int      `json:"cooldown_days"`
}

// POST /api/variable-lists/:name/items
// Creates the owning list on first use.
func (h *VariableHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item := types.VariableItem{
		Value:        req.Value,
		Weight:       1.0,
		Enabled:      true,
		CooldownDays: req.CooldownDays,
	}
	if req.Weight != nil {
		item.Weight = *req.Weight
	}
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}
	if err := h.vars.CreateItem(c.Request.Context(), c.Param("name"), &item); err != nil {
		RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}
	RespondCreated(c, item)
}

type updateItemRequest struct {
	Value        *string  `json:"value"`
	Weight       *float64 `json:"weight"`
	Enabled      *bool    `json:"enabled"`
	CooldownDays *int     `json:"cooldown_days"`
}

// PATCH /api/variable-items/:id
func (h *VariableHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	updates := map[string]interface{}{}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.CooldownDays != nil {
		updates["cooldown_days"] = *req.CooldownDays
	}
	if len(updates) == 0 {
		RespondError(c, http.StatusBadRequest, "empty_update", nil)
		return
	}
	if err := h.vars.UpdateItem(c.Request.Context(), id, updates); err != nil {
		RespondError(c, http.StatusInternalServerError, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"updated": id})
}

// DELETE /api/variable-items/:id
func (h *VariableHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.vars.DeleteItem(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// GET /api/variable-defaults
func (h *VariableHandler) ListDefaults(c *gin.Context) {
	defs, err := h.vars.DefaultsMap(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, defs)
}

type upsertDefaultRequest struct {
	KeyPath      string  `json:"key_path" binding:"required"`
	Mode         string  `json:"mode" binding:"required"`
	DefaultValue string  `json:"default_value"`
	LLMTemplate  *string `json:"llm_template"`
}

// PUT /api/variable-defaults
func (h *VariableHandler) UpsertDefault(c *gin.Context) {
	var req upsertDefaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	switch req.Mode {
	case types.ModeLocked, types.ModeWeighted, types.ModeRandom, types.ModeSequence, types.ModeLLM:
	default:
		RespondError(c, http.StatusBadRequest, "invalid_mode", nil)
		return
	}
	def := types.VariableDefault{
		KeyPath:      req.KeyPath,
		Mode:         req.Mode,
		DefaultValue: req.DefaultValue,
		LLMTemplate:  req.LLMTemplate,
	}
	if err := h.vars.UpsertDefault(c.Request.Context(), &def); err != nil {
		RespondError(c, http.StatusInternalServerError, "upsert_failed", err)
		return
	}
	RespondOK(c, def)
}
