package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/auth"
	"storefront/internal/controller"
	"storefront/internal/session"
)

// Deps carries the wired collaborators the routes need.
type Deps struct {
	Sessions    *session.Manager
	Controllers *controller.Registry
	Auth        *auth.Provider
	CORSOrigins []string
}

// buildRouter wires the storefront routes. Every route maps 1:1 to a
// page controller from the session's controller set.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = deps.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.Use(sessionMiddleware(deps.Sessions, deps.Controllers, deps.Auth))

	router.GET("/", homeHandler)

	router.GET("/products", productListHandler)
	router.DELETE("/product/:id", productDeleteHandler)
	router.GET("/product/:id", productDetailHandler)
	router.POST("/product/:id/add-to-cart", productAddToCartHandler)
	router.POST("/add-product", addProductHandler)
	router.GET("/edit-product/:id", editProductLoadHandler)
	router.PUT("/edit-product/:id", editProductSubmitHandler)

	router.POST("/register", registerHandler)
	router.POST("/login", loginHandler)
	router.POST("/logout", logoutHandler)
	router.GET("/profile", profileHandler)
	router.PUT("/profile", profileSaveHandler)
	router.DELETE("/profile", profileDeleteHandler)

	router.GET("/orders", orderHistoryHandler)
	router.GET("/order/:id", orderDetailHandler)

	router.GET("/cart", cartHandler)
	router.POST("/cart/items", cartAddHandler)
	router.DELETE("/cart/items/:id", cartRemoveHandler)
	router.DELETE("/cart", cartClearHandler)

	router.GET("/checkout", checkoutHandler)
	router.POST("/checkout", checkoutSubmitHandler)

	return router
}
