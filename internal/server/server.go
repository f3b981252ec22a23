package server

import (
	"context"
	"net/http"
	"time"

	"github.com/beanbook/beanbook/internal/catalog"
	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/beanbook/beanbook/internal/config"
	"github.com/beanbook/beanbook/internal/extraction"
	extractiondomain "github.com/beanbook/beanbook/internal/extraction/domain"
	"github.com/beanbook/beanbook/internal/observability"
	"github.com/beanbook/beanbook/internal/offers"
	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	"github.com/beanbook/beanbook/internal/orders"
	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	"github.com/beanbook/beanbook/internal/recommend"
	recommenddomain "github.com/beanbook/beanbook/internal/recommend/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	observability.Module,
	catalog.Module,
	extraction.Module,
	offers.Module,
	orders.Module,
	recommend.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	catalogSvc    catalogdomain.Service
	extractionSvc extractiondomain.Service
	offersSvc     offersdomain.Service
	ordersSvc     ordersdomain.Service
	recommendSvc  recommenddomain.Service
	metrics       *observability.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	CatalogSvc    catalogdomain.Service
	ExtractionSvc extractiondomain.Service
	OffersSvc     offersdomain.Service
	OrdersSvc     ordersdomain.Service
	RecommendSvc  recommenddomain.Service
	Metrics       *observability.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		catalogSvc:    p.CatalogSvc,
		extractionSvc: p.ExtractionSvc,
		offersSvc:     p.OffersSvc,
		ordersSvc:     p.OrdersSvc,
		recommendSvc:  p.RecommendSvc,
		metrics:       p.Metrics,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")
	v1.POST("/catalog/refresh", s.RefreshCatalog)
	v1.POST("/catalog/enhance", s.EnhanceCatalog)
	v1.GET("/offers", s.ListOffers)
	v1.GET("/orders", s.ListOrders)
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/spending", s.GetSpending)
	v1.POST("/recommendations", s.CreateRecommendation)
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
