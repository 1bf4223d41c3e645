package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/flowstack/config"
	"github.com/kbukum/flowstack/knowledge"
	"github.com/kbukum/flowstack/observability"
	"github.com/kbukum/flowstack/storage"
	"github.com/kbukum/flowstack/workflow"
)

// Dependencies bundles everything the API routes need.
type Dependencies struct {
	Store     *storage.Store
	Sessions  *storage.SessionStore
	Knowledge *knowledge.Service
	Engine    *workflow.Engine
	Upload    config.UploadConfig

	ServiceName string
	Version     string
	Checkers    []observability.HealthChecker
}

// Register mounts all API routes on the engine.
func Register(r *gin.Engine, deps Dependencies) {
	r.GET("/health", Health(deps.ServiceName, deps.Version, deps.Checkers...))
	r.GET("/metrics", Metrics())

	api := r.Group("/api")
	{
		workflows := api.Group("/workflows")
		{
			workflows.POST("", CreateWorkflow(deps.Store))
			workflows.GET("", ListWorkflows(deps.Store))
			workflows.POST("/validate", ValidateWorkflow())
			workflows.GET("/:id", GetWorkflow(deps.Store))
			workflows.PUT("/:id", UpdateWorkflow(deps.Store))
			workflows.DELETE("/:id", DeleteWorkflow(deps.Store))
			workflows.POST("/:id/execute", ExecuteWorkflow(deps.Store, deps.Engine))
		}

		documents := api.Group("/documents")
		{
			documents.POST("", UploadDocument(deps.Store, deps.Knowledge, deps.Upload))
			documents.GET("", ListDocuments(deps.Store))
			documents.GET("/:id", GetDocument(deps.Store))
			documents.DELETE("/:id", DeleteDocument(deps.Store))
		}

		chat := api.Group("/chat")
		{
			chat.POST("", Chat(deps.Store, deps.Sessions, deps.Engine))
			chat.GET("/sessions/:id", GetChatSession(deps.Sessions))
			chat.DELETE("/sessions/:id", DeleteChatSession(deps.Sessions))
		}
	}
}
