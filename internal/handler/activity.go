package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wallforfry/associsse/internal/activity"
	"github.com/wallforfry/associsse/internal/middleware"
	"github.com/wallforfry/associsse/internal/util"
)

// ActivityHandler serves the organization activity feed.
type ActivityHandler struct {
	Activity *activity.Recorder
}

func NewActivityHandler(recorder *activity.Recorder) *ActivityHandler {
	return &ActivityHandler{Activity: recorder}
}

// ListActivities returns the organization's recent activities.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	org, ok := middleware.CurrentOrganization(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	activities, err := h.Activity.Recent(org.ID, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to fetch activities")
		return
	}

	util.Success(c, util.Response{
		"activities": activities,
		"total":      len(activities),
	})
}
