// Package router 注册HTTP路由和全局中间件
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
	"github.com/xiebiao/cafearoma/internal/interface/http/handler"
	"github.com/xiebiao/cafearoma/internal/interface/http/middleware"
	"github.com/xiebiao/cafearoma/pkg/response"
)

// New 创建Gin引擎
// 中间件顺序：Logger → Recovery → Metrics → 路由匹配 → Auth → Handler
func New(
	cfg *config.Config,
	logger *zap.Logger,
	staffHandler *handler.StaffHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 访问 /swagger/index.html
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		staff := v1.Group("/staff")
		{
			staff.POST("/register", staffHandler.Register)
			staff.POST("/login", staffHandler.Login)
			staff.POST("/refresh", staffHandler.Refresh)
			staff.POST("/logout", authMiddleware.RequireAuth(), staffHandler.Logout)
		}

		inv := v1.Group("/inventory")
		inv.Use(authMiddleware.RequireAuth())
		{
			inv.GET("", inventoryHandler.Dashboard)
			inv.GET("/items/:sku", inventoryHandler.GetItem)
			inv.GET("/low-stock", inventoryHandler.LowStock)
			inv.GET("/report", inventoryHandler.Report)

			inv.POST("/stock/add", inventoryHandler.AddStock)
			inv.POST("/stock/consume", inventoryHandler.ConsumeStock)
			inv.POST("/products", inventoryHandler.AddProduct)
			inv.POST("/undo", inventoryHandler.Undo)

			inv.GET("/history", inventoryHandler.History)
			inv.DELETE("/history", inventoryHandler.ClearHistory)
		}
	}

	return r
}
