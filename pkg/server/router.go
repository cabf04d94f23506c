package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"domly/pkg/access"
	"domly/pkg/alertas"
	"domly/pkg/ativos"
	"domly/pkg/condominios"
	"domly/pkg/config"
	"domly/pkg/documentos"
	"domly/pkg/leads"
	"domly/pkg/logger"
	"domly/pkg/manutencoes"
	"domly/pkg/middleware"
	"domly/pkg/notify"
	"domly/pkg/otp"
	"domly/pkg/response"
	"domly/pkg/sendemail"
	"domly/pkg/sessions"
	"domly/pkg/storage"
	"domly/pkg/users"
)

// Deps are the collaborators the API is built from.
type Deps struct {
	Config   *config.Config
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Sessions sessions.Store
	Storage  storage.Store
	Email    sendemail.EmailService
	Notify   *notify.ConnectionManager
	Log      *zap.Logger
}

// paths reachable without the public api key
var publicPrefixes = []string{"/uploads/", "/swagger/", "/healthz"}

func apiKeyExcept(key string, public []string) gin.HandlerFunc {
	check := middleware.RequireAPIKey(key)
	return func(c *gin.Context) {
		for _, p := range public {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}
		check(c)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "apikey"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.CORSCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// NewRouter wires every repository, service and handler onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	cfg, log := d.Config, d.Log

	router := gin.New()
	router.Use(logger.GinMiddleware(log), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(apiKeyExcept(cfg.PublicAPIKey, publicPrefixes))

	checker := access.NewPostgresChecker(d.Pool)
	auth := middleware.RequireAuth(d.Sessions)

	alertasRepo := alertas.NewPostgresAlertaRepository(d.Pool)
	manutencoesRepo := manutencoes.NewPostgresManutencaoRepository(d.Pool)
	documentosRepo := documentos.NewPostgresDocumentoRepository(d.Pool)

	usersRepo := users.NewPostgresUserRepository(d.Pool)
	usersService := users.NewUserService(usersRepo, d.Sessions, log)
	users.NewUserHandler(usersService).RegisterRoutes(router, auth)

	otpService := otp.NewOTPService(otp.NewRedisCodeRepository(d.Redis), usersRepo, d.Sessions, d.Email, log)
	otp.NewOTPHandler(otpService).RegisterRoutes(router)

	condominiosService := condominios.NewCondominioService(condominios.NewPostgresCondominioRepository(d.Pool), d.Storage, log)
	condominios.NewCondominioHandler(condominiosService).RegisterRoutes(router, auth)

	ativosService := ativos.NewAtivoService(ativos.NewPostgresAtivoRepository(d.Pool), ativos.Children{
		Alertas:     alertasRepo,
		Manutencoes: manutencoesRepo,
		Documentos:  documentosRepo,
	}, d.Storage, checker, d.Notify, log)
	ativos.NewAtivoHandler(ativosService).RegisterRoutes(router, auth)

	alertasService := alertas.NewAlertaService(alertasRepo, checker, d.Notify, log)
	alertas.NewAlertaHandler(alertasService).RegisterRoutes(router, auth)

	manutencoesService := manutencoes.NewManutencaoService(manutencoesRepo, checker, log)
	manutencoes.NewManutencaoHandler(manutencoesService).RegisterRoutes(router, auth)

	documentosService := documentos.NewDocumentoService(documentosRepo, d.Storage, checker, log)
	documentos.NewDocumentoHandler(documentosService).RegisterRoutes(router, auth)

	leadsService := leads.NewLeadService(leads.NewPostgresLeadRepository(d.Pool), d.Email, cfg.SalesEmail, log)
	leads.NewLeadHandler(leadsService).RegisterRoutes(router)

	notify.NewHandler(d.Notify, cfg.AllowedOrigins(), log).RegisterRoutes(router, auth)

	router.Static("/uploads", cfg.UploadDir)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", healthz(d.Pool))

	return router
}

func healthz(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				response.SendAPIResponse(c, http.StatusServiceUnavailable, false, "database unavailable", nil)
				return
			}
		}
		response.SendAPIResponse(c, http.StatusOK, true, "ok", nil)
	}
}
