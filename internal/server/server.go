package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/folio/internal/auth"
	authdomain "github.com/smallbiznis/folio/internal/auth/domain"
	"github.com/smallbiznis/folio/internal/auth/session"
	"github.com/smallbiznis/folio/internal/authorization"
	"github.com/smallbiznis/folio/internal/business"
	businessdomain "github.com/smallbiznis/folio/internal/business/domain"
	"github.com/smallbiznis/folio/internal/config"
	"github.com/smallbiznis/folio/internal/history"
	historydomain "github.com/smallbiznis/folio/internal/history/domain"
	"github.com/smallbiznis/folio/internal/invoice"
	invoicedomain "github.com/smallbiznis/folio/internal/invoice/domain"
	"github.com/smallbiznis/folio/internal/observability"
	obsmiddleware "github.com/smallbiznis/folio/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/folio/internal/observability/metrics"
	obstracing "github.com/smallbiznis/folio/internal/observability/tracing"
	"github.com/smallbiznis/folio/internal/providers/pdf"
	"github.com/smallbiznis/folio/internal/ratelimit"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	business.Module,
	invoice.Module,
	history.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	authsvc      authdomain.Service
	sessions     *session.Manager
	authzSvc     authorization.Service
	businessSvc  businessdomain.Service
	invoiceSvc   invoicedomain.Service
	historySvc   historydomain.Service
	loginLimiter *ratelimit.LoginLimiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	AuthzSvc     authorization.Service
	BusinessSvc  businessdomain.Service
	InvoiceSvc   invoicedomain.Service
	HistorySvc   historydomain.Service
	LoginLimiter *ratelimit.LoginLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		authzSvc:     p.AuthzSvc,
		businessSvc:  p.BusinessSvc,
		invoiceSvc:   p.InvoiceSvc,
		historySvc:   p.HistorySvc,
		loginLimiter: p.LoginLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/api/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
	auth.POST("/register",
		s.AuthRequired(),
		s.RequireAccess(authorization.ObjectUser, authorization.ActionCreate),
		s.Register,
	)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	businesses := api.Group("/businesses")
	{
		businesses.GET("",
			s.RequireAccess(authorization.ObjectBusiness, authorization.ActionView), s.ListBusinesses)
		businesses.POST("",
			s.RequireAccess(authorization.ObjectBusiness, authorization.ActionCreate), s.CreateBusiness)
		businesses.GET("/:id",
			s.RequireAccess(authorization.ObjectBusiness, authorization.ActionView), s.GetBusiness)
		businesses.GET("/:id/invoices",
			s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.ListBusinessInvoices)
		businesses.GET("/:id/history",
			s.RequireAccess(authorization.ObjectHistory, authorization.ActionView), s.BusinessHistory)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("",
			s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.ListInvoices)
		invoices.POST("",
			s.RequireAccess(authorization.ObjectInvoice, authorization.ActionCreate), s.CreateInvoice)
		invoices.GET("/:id",
			s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.GetInvoice)
		invoices.PUT("/:id",
			s.RequireAccess(authorization.ObjectInvoice, authorization.ActionUpdate), s.UpdateInvoice)
		invoices.DELETE("/:id",
			s.RequireAccess(authorization.ObjectInvoice, authorization.ActionDelete), s.DeleteInvoice)
		invoices.GET("/:id/document",
			s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.InvoiceDocument)
	}
}
