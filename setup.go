package main

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/services"
	"github.com/zingerfi/zingerfi-server/types"
)

// Configure DB Repositories and create DB Selector
func ConfigDBSelector() *repository.CouchDBSelector {
	if global.Conf.CouchDB.Host == "" {
		level.Warn(global.Logger).Log("msg", "couchdb host not set, using in-memory repositories (data is lost on restart)")
		return repository.NewMemorySelector()
	}

	repoUrl := global.Conf.CouchDB.Scheme + "://" + global.Conf.CouchDB.Host + ":" + strconv.Itoa(global.Conf.CouchDB.Port)
	dbSelector, err := repository.NewCouchDBSelectorFor(repoUrl, global.Conf.CouchDB.Username, global.Conf.CouchDB.Password)
	if err != nil {
		level.Error(global.Logger).Log("msg", "Failed to create repositories", "err", err)
		panic(err)
	}
	return dbSelector
}

func ConfigDBIndexing(dbSelector *repository.CouchDBSelector) {
	messageRepo, err := dbSelector.ChooseDB(repository.EncryptedMessages)
	if err != nil {
		panic(err)
	}
	if err := repository.CreateMessageIndexes(messageRepo); err != nil {
		panic(err)
	}
}

func ConfigCors(router *gin.Engine, conf *global.Config) {
	if len(conf.Cors.AllowOrigins) == 0 {
		return
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.Cors.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// ConfigKeyRotation schedules automatic system key rotation when fastEncrypt.rotationSchedule is set
func ConfigKeyRotation(dbSelector *repository.CouchDBSelector, env *types.Environment) {
	schedule := global.Conf.FastEncrypt.RotationSchedule
	if schedule == "" {
		return
	}
	keyPairService := services.NewSystemKeyPairService(dbSelector, env, global.Conf.FastEncrypt.KeyEncryptionSecret)
	if _, err := env.Cron.AddFunc(schedule, keyPairService.RotateScheduled); err != nil {
		level.Error(global.Logger).Log("msg", "invalid fastEncrypt.rotationSchedule", "schedule", schedule, "err", err)
		panic(err)
	}
	env.Cron.Start()
}
