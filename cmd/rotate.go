package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	cfg "github.com/mailio/go-web3-kit/config"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/services"
	"github.com/zingerfi/zingerfi-server/types"
)

var configFile string

func init() {
	rotateCmd.Flags().StringVarP(&configFile, "config", "c", "conf.yaml", "server configuration file")
	rootCmd.AddCommand(rotateCmd)
}

// rotateCmd creates the next system key pair version. Older versions stay readable.
var rotateCmd = &cobra.Command{
	Use:   "rotate-system-key",
	Short: "Rotate the FastEncrypt system key pair",
	Run: func(cmd *cobra.Command, args []string) {
		check(cfg.NewYamlConfig(configFile, &global.Conf))
		if global.Conf.CouchDB.Host == "" {
			fmt.Println("couchdb.host is not configured")
			return
		}
		repoUrl := global.Conf.CouchDB.Scheme + "://" + global.Conf.CouchDB.Host + ":" + strconv.Itoa(global.Conf.CouchDB.Port)
		dbSelector, err := repository.NewCouchDBSelectorFor(repoUrl, global.Conf.CouchDB.Username, global.Conf.CouchDB.Password)
		check(err)

		// the active key cache has to be dropped as well
		var redisClient *redis.Client
		if global.Conf.Redis.Host != "" {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     global.Conf.Redis.Host + ":" + strconv.Itoa(global.Conf.Redis.Port),
				Username: global.Conf.Redis.Username,
				Password: global.Conf.Redis.Password,
				DB:       1,
			})
			defer redisClient.Close()
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		keyPairService := services.NewSystemKeyPairService(dbSelector, types.NewEnvironment(redisClient), global.Conf.FastEncrypt.KeyEncryptionSecret)
		pair, err := keyPairService.Rotate(ctx)
		check(err)
		fmt.Printf("active system key is now v%d\n", pair.Version)
	},
}
