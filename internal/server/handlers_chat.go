package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	UserID  string `json:"user_id" binding:"required"`
}

type chatResponse struct {
	Response string          `json:"response"`
	Profiles []ProfileRecord `json:"profiles"`
	UserID   string          `json:"user_id"`
}

// chat runs the full pipeline for one request: read session context, compose
// the prompt, call the model, split structure from the reply, record the
// turn. The stored assistant response is the cleaned reply, not the raw
// completion, so follow-up prompts never re-feed profile JSON to the model.
func (a *App) chat(c *gin.Context) {
	var payload chatRequest
	if !mustJSON(c, &payload) {
		return
	}

	log.Printf("chat request user=%s message=%q", payload.UserID, payload.Message)

	context := a.sessions.Context(payload.UserID)
	prompt, err := composePrompt(payload.UserID, payload.Message, context, a.profiles, time.Now())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	completion, err := a.ai.Generate(c.Request.Context(), prompt)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	extraction := ExtractReply(completion.Text)
	a.sessions.Append(payload.UserID, payload.Message, extraction.Reply)

	// Zero-or-one profile, always as a list for API shape uniformity.
	profiles := []ProfileRecord{}
	if extraction.Profile != nil {
		profiles = append(profiles, *extraction.Profile)
	}

	c.JSON(http.StatusOK, chatResponse{
		Response: extraction.Reply,
		Profiles: profiles,
		UserID:   payload.UserID,
	})
}
