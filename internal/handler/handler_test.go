package handler_test

import (
	"testing"
	"time"

	"github.com/bitzerlab/ordertrack/internal/config"
	"github.com/bitzerlab/ordertrack/internal/handler"
	"github.com/bitzerlab/ordertrack/internal/repository"
	"github.com/bitzerlab/ordertrack/internal/service"
	"github.com/bitzerlab/ordertrack/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestEnv wires the full HTTP stack against an isolated test schema.
// Redis is nil so the machine list goes straight to the database.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:            testutil.JWTSecret,
			AccessTokenExpire: 24 * time.Hour,
			Issuer:            "ordertrack",
		},
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, nil, cfg, zap.NewNop())
	handlers := handler.NewHandlers(services)

	router := testutil.SetupRouter()
	handler.RegisterRoutes(router, handlers, testutil.JWTSecret)
	return router, db
}
