package endpoint

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/flowstack/errors"
	"github.com/kbukum/flowstack/server"
	"github.com/kbukum/flowstack/storage"
	"github.com/kbukum/flowstack/workflow"
)

type workflowRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Nodes       []workflow.Node `json:"nodes" validate:"required,min=1"`
	Edges       []workflow.Edge `json:"edges" validate:"required,min=1"`
}

type executeRequest struct {
	Query      string `json:"query" validate:"required"`
	DocumentID *int64 `json:"document_id"`
}

// executeResponse mirrors workflow.Outcome with execution time in seconds.
type executeResponse struct {
	Success       bool                `json:"success"`
	Response      string              `json:"response,omitempty"`
	ContextUsed   bool                `json:"context_used"`
	ExecutionTime float64             `json:"execution_time"`
	Logs          []workflow.LogEntry `json:"logs"`
	Error         string              `json:"error,omitempty"`
}

func toExecuteResponse(out workflow.Outcome) executeResponse {
	return executeResponse{
		Success:       out.Success,
		Response:      out.Response,
		ContextUsed:   out.ContextUsed,
		ExecutionTime: out.ExecutionTime.Seconds(),
		Logs:          out.Logs,
		Error:         out.Error,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("id", "must be an integer"))
		return 0, false
	}
	return id, true
}

// CreateWorkflow stores a new workflow definition.
func CreateWorkflow(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req workflowRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := workflow.Validate(req.Nodes, req.Edges); err != nil {
			server.RespondWithError(c, apperrors.Validation(err.Error()))
			return
		}

		nodes, _ := json.Marshal(req.Nodes)
		edges, _ := json.Marshal(req.Edges)
		w := &storage.Workflow{
			Name:        req.Name,
			Description: req.Description,
			Nodes:       nodes,
			Edges:       edges,
		}
		if err := store.CreateWorkflow(c.Request.Context(), w); err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondCreated(c, w)
	}
}

// ListWorkflows returns all active workflows.
func ListWorkflows(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		workflows, err := store.ListWorkflows(c.Request.Context())
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, workflows)
	}
}

// GetWorkflow returns one workflow by id.
func GetWorkflow(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		w, err := store.GetWorkflow(c.Request.Context(), id)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, w)
	}
}

// UpdateWorkflow replaces a workflow definition.
func UpdateWorkflow(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req workflowRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := workflow.Validate(req.Nodes, req.Edges); err != nil {
			server.RespondWithError(c, apperrors.Validation(err.Error()))
			return
		}

		nodes, _ := json.Marshal(req.Nodes)
		edges, _ := json.Marshal(req.Edges)
		w := &storage.Workflow{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Nodes:       nodes,
			Edges:       edges,
		}
		if err := store.UpdateWorkflow(c.Request.Context(), w); err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, w)
	}
}

// DeleteWorkflow deactivates a workflow.
func DeleteWorkflow(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := store.DeleteWorkflow(c.Request.Context(), id); err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondNoContent(c)
	}
}

// ValidateWorkflow checks a workflow definition without storing it. The
// response always carries 200 with a valid flag so editors can poll it.
func ValidateWorkflow() gin.HandlerFunc {
	type validateRequest struct {
		Nodes []workflow.Node `json:"nodes"`
		Edges []workflow.Edge `json:"edges"`
	}
	return func(c *gin.Context) {
		var req validateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondWithError(c, apperrors.Validation(err.Error()))
			return
		}

		if err := workflow.Validate(req.Nodes, req.Edges); err != nil {
			server.RespondOK(c, gin.H{"valid": false, "error": err.Error()})
			return
		}
		graph, err := workflow.BuildGraph(req.Nodes, req.Edges)
		if err == nil {
			_, err = graph.TopoSort()
		}
		if err != nil {
			server.RespondOK(c, gin.H{"valid": false, "error": err.Error()})
			return
		}
		server.RespondOK(c, gin.H{"valid": true})
	}
}

// ExecuteWorkflow runs a stored workflow against a query.
func ExecuteWorkflow(store *storage.Store, engine *workflow.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req executeRequest
		if !bindJSON(c, &req) {
			return
		}

		w, err := store.GetWorkflow(c.Request.Context(), id)
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

		out := engine.Execute(c.Request.Context(), nodes, edges, req.Query, req.DocumentID)
		server.RespondOK(c, toExecuteResponse(out))
	}
}
