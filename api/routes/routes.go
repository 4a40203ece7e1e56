package routes

import (
	"craftcurio/api/handler"
	"craftcurio/api/middleware"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	AuthMiddleware middleware.AuthMiddleware

	// SendRate guards passcode issuance, VerifyRate the guess endpoints.
	SendRate   echo.MiddlewareFunc
	VerifyRate echo.MiddlewareFunc
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	authMiddleware middleware.AuthMiddleware,
	sendRate echo.MiddlewareFunc,
	verifyRate echo.MiddlewareFunc,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
		SendRate:       sendRate,
		VerifyRate:     verifyRate,
	}
}

func (r *Router) RegisterRoutes() {
	api := r.Echo.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/send-otp-signin", r.Auth.SendOTPSignin, r.SendRate)
	auth.POST("/verify-otp-signin", r.Auth.VerifyOTPSignin, r.VerifyRate)
	auth.POST("/send-otp-signup", r.Auth.SendOTPSignup, r.SendRate)
	auth.POST("/verify-otp-signup", r.Auth.VerifyOTPSignup, r.VerifyRate)
	auth.POST("/logout", r.Auth.Logout)
	auth.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)

	admin := api.Group("/admin", r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	admin.GET("/users", r.Auth.AdminListUsers)
}
