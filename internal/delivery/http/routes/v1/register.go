package v1

import (
	"log"

	"hirelink/internal/config"
	"hirelink/internal/database"
	"hirelink/internal/delivery/http/handler"
	"hirelink/internal/delivery/http/middleware"
	"hirelink/internal/infrastructure/cache"
	"hirelink/internal/pkg/jwt"
	"hirelink/internal/repository"
	"hirelink/internal/usecase"
	"hirelink/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		d.Config.JWT.AccessSecret,
		d.Config.JWT.RefreshSecret,
		d.Config.JWT.AccessExpiresIn,
		d.Config.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	convRepo := repository.NewPostgresConversationRepository(d.DB)
	msgRepo := repository.NewPostgresMessageRepository(d.DB)
	notifRepo := repository.NewPostgresNotificationRepository(d.DB)
	followerRepo := repository.NewPostgresFollowerRepository(d.DB)
	userRepo := repository.NewPostgresUserRepository(d.DB)

	notifUC := usecase.NewNotificationUsecase(notifRepo, followerRepo, d.Cache, d.Logger)
	msgUC := usecase.NewMessagingUsecase(d.DB, convRepo, msgRepo, userRepo, notifUC, d.Hub, d.Logger)

	wsHandler := ws.NewHandler(d.Hub, jwtSvc, ws.ClientOptions{
		WriteWait:      d.Config.WS.WriteWait,
		PongWait:       d.Config.WS.PongWait,
		MaxMessageSize: d.Config.WS.MaxMessageSize,
	}, d.Logger)
	r.Get("/ws", wsHandler.HandleWS)

	protected := r.Group("", authMw.Middleware())

	handler.NewConversationHandler(msgUC).RegisterRoutes(protected)
	handler.NewMessageHandler(msgUC).RegisterRoutes(protected)
	handler.NewNotificationHandler(notifUC).RegisterRoutes(protected)
}
