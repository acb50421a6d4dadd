package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/app"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/handler"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/middleware"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/config"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/logger"
	corsmiddleware "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, a *app.App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics, "/metrics"))

	metricsHandler := handler.NewMetricsHandler(a.Metrics, a.ReadinessChecks())
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	progressHandler := handler.NewProgressHandler(a.Progress, a.Reports)
	studentHandler := handler.NewStudentHandler(a.Progress)
	courseHandler := handler.NewCourseHandler(a.Reconciler.Normalizer())
	reconcileHandler := handler.NewReconcileHandler(a.Sweeps)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	{
		api.GET("/metrics/summary", metricsHandler.Snapshot)
		api.GET("/courses/normalize", courseHandler.Normalize)

		students := api.Group("/students")
		students.GET("", studentHandler.List)
		students.GET("/:prn", studentHandler.Get)
		students.PUT("/:prn/next-course", studentHandler.UpdateNextCourse)
		students.GET("/:prn/progress/:slug", progressHandler.Get)
		students.GET("/:prn/progress/:slug/report", progressHandler.Report)
		students.PATCH("/:prn/tasks/:index", progressHandler.SetTaskStatus)
		students.PUT("/:prn/courses/:slug/certificate", progressHandler.SetCertificate)

		api.POST("/admin/reconcile", reconcileHandler.Enqueue)
	}

	return r
}
