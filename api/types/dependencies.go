package types

import (
	"github.com/videodiary/diary-api/internal/database"
	"github.com/videodiary/diary-api/internal/services/artifacts"
	"github.com/videodiary/diary-api/internal/services/cache"
	"github.com/videodiary/diary-api/internal/services/catalog"
	"github.com/videodiary/diary-api/internal/services/segments"
	"github.com/videodiary/diary-api/internal/services/videos"
	"github.com/videodiary/diary-api/pkg/config"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB           *database.DB
	Catalog      catalog.Service
	VideoService videos.Service
	Processor    *segments.Processor
	Store        artifacts.Store
	QueryCache   *cache.MemoryCache
	Config       *config.Config
}
