package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-kit/log/level"
	"github.com/go-redis/redis_rate/v10"
	cfg "github.com/mailio/go-web3-kit/config"
	w3srv "github.com/mailio/go-web3-kit/gingonic"
	"github.com/redis/go-redis/v9"
	"github.com/zingerfi/zingerfi-server/apiroutes"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/types"
	"github.com/zingerfi/zingerfi-server/util"
	"golang.org/x/sys/unix"
)

func loadServerEd25519Keys(conf global.Config) {
	publicKey, privateKey, err := util.LoadServerKeys(conf.Auth.ServerKeysPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load server keys from %s: %v", conf.Auth.ServerKeysPath, err))
	}
	global.PublicKey = publicKey
	global.PrivateKey = privateKey
}

// returns nil when redis is not configured (no shared cache, no rate limiting)
func initRedis(conf global.Config) *redis.Client {
	if conf.Redis.Host == "" {
		level.Warn(global.Logger).Log("msg", "redis not configured, active key cache and rate limiting disabled")
		return nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Host + ":" + strconv.Itoa(conf.Redis.Port),
		Username: conf.Redis.Username,
		Password: conf.Redis.Password,
		DB:       1,
	})

	rCtx, rCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer rCancel()
	if err := redisClient.Ping(rCtx).Err(); err != nil {
		panic(fmt.Sprintf("redis not reachable: %v", err))
	}

	global.RateLimiter = redis_rate.NewLimiter(redisClient)
	return redisClient
}

// @title ZingerFi Server API
// @version 1.0
// @description End-to-end encrypted messaging: Confide key directory and FastEncrypt one-time messages
// @SecurityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	var (
		configFile string
	)
	// configuration file optional path. Default:  current dir with  filename conf.yaml
	flag.StringVar(&configFile, "c", "conf.yaml", "Configuration file path.")
	flag.StringVar(&configFile, "config", "conf.yaml", "Configuration file path.")
	flag.Usage = usage
	flag.Parse()

	// loading configuration file
	err := cfg.NewYamlConfig(configFile, &global.Conf)
	if err != nil {
		level.Error(global.Logger).Log("msg", "conf.yaml failed to load", "err", err)
		panic("Failed to load conf.yaml")
	}
	global.ConfigureLogLevel(global.Conf.Mode)

	// loads server keys into global variables for token signing and validation
	loadServerEd25519Keys(global.Conf)

	redisClient := initRedis(global.Conf)
	if redisClient != nil {
		defer redisClient.Close()
	}
	env := types.NewEnvironment(redisClient)
	defer env.Cron.Stop()

	// server wait to shutdown monitoring channels
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, os.Interrupt, unix.SIGTERM)

	// init routing (for RESTful API endpoints)
	router := w3srv.NewAPIRouter(&global.Conf.YamlConfig)
	ConfigCors(router, &global.Conf)

	dbSelector := ConfigDBSelector()
	ConfigDBIndexing(dbSelector)
	ConfigKeyRotation(dbSelector, env)

	// configure routes
	router = apiroutes.ConfigRoutes(router, dbSelector, env, global.PublicKey)

	// start server
	srv := w3srv.Start(&global.Conf.YamlConfig, router)
	// wait for server shutdown
	go w3srv.Shutdown(srv, quit, done)

	level.Info(global.Logger).Log("msg", "Server is ready to handle requests", "port", global.Conf.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("%v\n", err))
	}

	<-done
}

// usage will print out the flag options for the server.
func usage() {
	usageStr := `Usage: zingerfi-server [options]
	Server Options:
	-c, --config <file>              Configuration file path
`
	fmt.Printf("%s\n", usageStr)
	os.Exit(0)
}
