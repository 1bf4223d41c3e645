package endpoint

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/kbukum/flowstack/errors"
	"github.com/kbukum/flowstack/server"
	"github.com/kbukum/flowstack/storage"
	"github.com/kbukum/flowstack/workflow"
)

type chatRequest struct {
	Message    string `json:"message" validate:"required"`
	SessionID  string `json:"session_id"`
	WorkflowID int64  `json:"workflow_id" validate:"required"`
	DocumentID *int64 `json:"document_id"`
}

type chatResponse struct {
	SessionID     string  `json:"session_id"`
	Response      string  `json:"response"`
	ContextUsed   bool    `json:"context_used"`
	ExecutionTime float64 `json:"execution_time"`
}

// Chat runs a workflow for a conversational message, keeping the transcript
// in a Redis-backed session. A missing or expired session id starts a new
// session transparently.
func Chat(store *storage.Store, sessions *storage.SessionStore, engine *workflow.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if !bindJSON(c, &req) {
			return
		}
		ctx := c.Request.Context()

		var session *storage.ChatSession
		if req.SessionID != "" {
			session, _ = sessions.GetSession(ctx, req.SessionID)
		}
		if session == nil {
			session = &storage.ChatSession{
				ID:         uuid.New().String(),
				WorkflowID: &req.WorkflowID,
				CreatedAt:  time.Now().UTC(),
			}
		}

		w, err := store.GetWorkflow(ctx, req.WorkflowID)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		var nodes []workflow.Node
		var edges []workflow.Edge
		if err := json.Unmarshal(w.Nodes, &nodes); err != nil {
			server.RespondWithError(c, apperrors.Internal(err))
			return
		}
		if err := json.Unmarshal(w.Edges, &edges); err != nil {
			server.RespondWithError(c, apperrors.Internal(err))
			return
		}

		out := engine.Execute(ctx, nodes, edges, req.Message, req.DocumentID)

		now := time.Now().UTC()
		session.Messages = append(session.Messages,
			storage.ChatMessage{Role: "user", Content: req.Message, Timestamp: now},
			storage.ChatMessage{Role: "assistant", Content: out.Response, Timestamp: now},
		)
		if err := sessions.SaveSession(ctx, session); err != nil {
			server.RespondWithError(c, err)
			return
		}

		if !out.Success {
			server.RespondWithError(c, apperrors.Validation(out.Error))
			return
		}
		server.RespondOK(c, chatResponse{
			SessionID:     session.ID,
			Response:      out.Response,
			ContextUsed:   out.ContextUsed,
			ExecutionTime: out.ExecutionTime.Seconds(),
		})
	}
}

// GetChatSession returns a session transcript.
func GetChatSession(sessions *storage.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.GetSession(c.Request.Context(), c.Param("id"))
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, session)
	}
}

// DeleteChatSession ends a session immediately.
func DeleteChatSession(sessions *storage.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondNoContent(c)
	}
}
