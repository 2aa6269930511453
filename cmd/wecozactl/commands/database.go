package commands

import (
	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/configs"
	database "github.com/yourdesigncoza/wecoza-core-sub001/internals/databases"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
)

// openDatabase connects with the same env-driven config as the server.
func openDatabase() (*gorm.DB, error) {
	cfg, err := configs.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	db, err := database.ConnectDB(cfg.DB)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// openService wires the repository without a shared cache: the server owns
// the badger directory, and its entries expire by TTL.
func openService() (*service.ProgressionService, *repository.ProgressionRepository, func(), error) {
	db, err := openDatabase()
	if err != nil {
		return nil, nil, nil, err
	}
	repo := repository.New(db, cache.NewLoader(cache.Nop{}, 0))
	return service.New(repo), repo, func() { database.Close(db) }, nil
}
