package server

import (
	"github.com/gin-gonic/gin"

	"github.com/roboco-io/larkdocx/internal/logger"
)

// RouterConfig wires handlers and middleware settings.
type RouterConfig struct {
	Log          *logger.Logger
	APIKey       string
	AllowOrigins []string
	DocHandler   *DocHandler
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(AttachRequestID())
	r.Use(RequestLogger(cfg.Log))
	r.Use(CORS(cfg.AllowOrigins))

	r.GET("/healthz", Health)

	protected := r.Group("/")
	protected.Use(RequireAPIKey(cfg.APIKey))
	{
		if cfg.DocHandler != nil {
			protected.POST("/update_feishu_xiaobao", cfg.DocHandler.Update)
			protected.POST("/find_block", cfg.DocHandler.Find)
		}
	}

	return r
}
