package routes

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/renderer"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Dependencies struct {
	Store    repositories.KeyValueStore
	Users    repositories.UserRepositoryImpl
	Tokens   *services.TokenService
	Sessions sessions.SessionStore
	Logger   *zap.SugaredLogger
}

func NewRouter(deps Dependencies) *mux.Router {
	rnd := renderer.New(false)
	cartRepo := repositories.NewRemoteCartRepository(deps.Store)

	cartHandler := handlers.NewCartAPIHandler(rnd, cartRepo, deps.Logger)
	authHandler := handlers.NewAuthHandler(rnd, deps.Users, deps.Tokens, validator.New(), deps.Logger)
	healthHandler := handlers.NewHealthHandler(rnd)

	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger(deps.Logger))
	router.HandleFunc("/healthz", healthHandler.Healthz).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(middlewares.BearerAuth(deps.Tokens, rnd))
	cart.Use(middlewares.CartOwner(deps.Sessions, rnd, deps.Logger))
	cart.HandleFunc("", cartHandler.GetCart).Methods(http.MethodGet)
	cart.HandleFunc("", cartHandler.SaveCart).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.BearerAuth(deps.Tokens, rnd))
	admin.Use(middlewares.RequireRole(deps.Users, models.RoleAdmin, rnd, deps.Logger))
	admin.HandleFunc("/carts/{owner}", cartHandler.GetOwnerCart).Methods(http.MethodGet)

	return router
}
