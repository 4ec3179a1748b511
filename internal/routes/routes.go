package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/controllers"
	"github.com/jaiparmani/ToolBoxWebServices/internal/middleware"
	"github.com/jaiparmani/ToolBoxWebServices/internal/report"
	"github.com/jaiparmani/ToolBoxWebServices/internal/scope"
)

// Register wires the full HTTP surface onto a new engine.
func Register(db *gorm.DB, log *logrus.Logger) *gin.Engine {
	exp := controllers.ExpenseController{DB: db, Reports: report.NewEngine(db), Log: log}
	cat := controllers.CategoryController{DB: db, Log: log}
	tag := controllers.TagController{DB: db, Log: log}
	usr := controllers.UserController{DB: db, Log: log}
	tool := controllers.ToolController{DB: db, Log: log}

	metrics := middleware.NewMetrics("toolbox")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(log))
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api", scope.Middleware(scope.NewResolver(db)))

	api.GET("/expenses", exp.List)
	api.POST("/expenses", exp.Create)
	api.GET("/expenses/summary", exp.Summary)
	api.GET("/expenses/recent", exp.Recent)
	api.GET("/expenses/monthly_report", exp.MonthlyReport)
	api.GET("/expenses/:id", exp.Get)
	api.PUT("/expenses/:id", exp.Update)
	api.DELETE("/expenses/:id", exp.Delete)
	api.POST("/expenses/:id/add_tags", exp.AddTags)
	api.POST("/expenses/:id/remove_tags", exp.RemoveTags)
	api.DELETE("/expenses/:id/remove_tags", exp.RemoveTags)

	api.GET("/categories", cat.List)
	api.POST("/categories", cat.Create)
	api.GET("/categories/:id", cat.Get)
	api.PUT("/categories/:id", cat.Update)
	api.DELETE("/categories/:id", cat.Delete)

	api.GET("/tags", tag.List)
	api.POST("/tags", tag.Create)
	api.GET("/tags/:id", tag.Get)
	api.PUT("/tags/:id", tag.Update)
	api.DELETE("/tags/:id", tag.Delete)

	api.POST("/users", usr.Register)
	api.GET("/users/:id", usr.Get)
	api.GET("/profile", usr.Profile)
	api.PUT("/profile", usr.UpdateProfile)
	api.POST("/password-change", usr.ChangePassword)
	api.POST("/login", usr.Login)

	api.GET("/tool-categories", tool.ListCategories)
	api.POST("/tool-categories", tool.CreateCategory)
	api.GET("/tools", tool.ListTools)
	api.POST("/tools", tool.CreateTool)
	api.GET("/tools/:id", tool.GetTool)
	api.PUT("/tools/:id", tool.UpdateTool)
	api.DELETE("/tools/:id", tool.DeleteTool)
	api.GET("/executions", tool.ListExecutions)
	api.GET("/array-sum", tool.ArraySumQuery)
	api.POST("/array-sum", tool.ArraySumBody)

	return r
}
