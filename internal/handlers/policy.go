package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/repos"
)

type PolicyHandler struct {
	log  *logger.Logger
	vars repos.VariableRepo
}

func NewPolicyHandler(log *logger.Logger, vars repos.VariableRepo) *PolicyHandler {
	return &PolicyHandler{
		log:  log.With("handler", "PolicyHandler"),
		vars: vars,
	}
}

// GET /api/policy
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	policy, err := h.vars.Policy(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "policy_load_failed", err)
		return
	}
	RespondOK(c, policy)
}

type updatePolicyRequest struct {
	MinDaysBetweenSimilarPrompt *int     `json:"min_days_between_similar_prompt"`
	MinNoveltyScore             *float64 `json:"min_novelty_score"`
	MaxSimilarityPct            *float64 `json:"max_similarity_pct"`
	ImageDupeThreshold          *int     `json:"image_dupe_threshold"`
	PromptDupeThreshold         *int     `json:"prompt_dupe_threshold"`
	CooldownMultiplier          *float64 `json:"cooldown_multiplier"`
	TopicDriftRate              *float64 `json:"topic_drift_rate"`
	Provider                    *string  `json:"provider"`
}

// PATCH /api/policy
// Partial update; absent fields keep their current value.
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	var req updatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	updates := map[string]interface{}{}
	if req.MinDaysBetweenSimilarPrompt != nil {
		updates["min_days_between_similar_prompt"] = *req.MinDaysBetweenSimilarPrompt
	}
	if req.MinNoveltyScore != nil {
		updates["min_novelty_score"] = *req.MinNoveltyScore
	}
	if req.MaxSimilarityPct != nil {
		updates["max_similarity_pct"] = *req.MaxSimilarityPct
	}
	if req.ImageDupeThreshold != nil {
		updates["image_dupe_threshold"] = *req.ImageDupeThreshold
	}
	if req.PromptDupeThreshold != nil {
		updates["prompt_dupe_threshold"] = *req.PromptDupeThreshold
	}
	if req.CooldownMultiplier != nil {
		updates["cooldown_multiplier"] = *req.CooldownMultiplier
	}
	if req.TopicDriftRate != nil {
		updates["topic_drift_rate"] = *req.TopicDriftRate
	}
	if req.Provider != nil {
		updates["provider"] = *req.Provider
	}
	if len(updates) == 0 {
		RespondError(c, http.StatusBadRequest, "empty_update", nil)
		return
	}
	policy, err := h.vars.UpdatePolicy(c.Request.Context(), updates)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "policy_update_failed", err)
		return
	}
	RespondOK(c, policy)
}
