package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mtuci-campus/roombooking/internal/devserver/auth"
	"github.com/mtuci-campus/roombooking/internal/logging"
	"github.com/mtuci-campus/roombooking/internal/pkg/response"
)

// Config holds the dependencies and settings required to assemble the server.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Store        Store
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       *logrus.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Hasher     auth.PasswordHasher
}

// NewContainer initializes the server components and returns the container.
// When cfg.Store is nil a seeded in-memory store is used.
func NewContainer(cfg Config) (*Container, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	hasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store := cfg.Store
	if store == nil {
		mem := NewMemoryStore()
		if err := Seed(mem, hasher); err != nil {
			return nil, err
		}
		store = mem
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // front-end dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	m := newMetrics()
	r.Use(m.middleware())
	r.GET("/metrics", m.handler())

	authMiddleware := auth.Required(jwtManager)
	handler := NewHandler(store, jwtManager, hasher, log)

	// Login attempts are rate limited to slow down credential guessing.
	loginLimiter := rate.NewLimiter(rate.Limit(5), 20)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", rateLimited(loginLimiter), handler.Login)
			authGroup.POST("/logout", authMiddleware, handler.Logout)
			authGroup.GET("/verify", authMiddleware, handler.Verify)
		}

		users := api.Group("/users", authMiddleware)
		{
			users.GET("/:id", handler.GetUser)
			users.PUT("/:id", handler.UpdateUser)
		}

		rooms := api.Group("/rooms")
		{
			// Reads are public; the server decides what unauthenticated
			// requests may see.
			rooms.GET("", handler.ListRooms)
			rooms.POST("/search", handler.SearchRooms)
			rooms.GET("/:id", handler.GetRoom)
			rooms.GET("/:id/schedule", handler.GetSchedule)

			rooms.POST("/:id/book", authMiddleware, handler.BookRoom)
		}
	}

	return &Container{
		Router:     r,
		JWTManager: jwtManager,
		Hasher:     hasher,
	}, nil
}

// rateLimited rejects requests above the limiter's rate with 429.
func rateLimited(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
				Message: "too many requests, try again later",
			})
			return
		}
		c.Next()
	}
}
