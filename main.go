package main

import (
	"fmt"

	"github.com/you-sk/web-storage-service/api"
	"github.com/you-sk/web-storage-service/config"
	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	if username := viper.GetString("promote-admin"); username != "" {
		res := a.DB.
			Model(model.User{}).
			Where("username = ?", username).
			Update("role", model.RoleAdmin)
		if res.Error != nil {
			panic(res.Error)
		}

		if res.RowsAffected == 0 {
			zap.L().Warn("No such user to promote", zap.String("username", username))
		} else {
			zap.L().Info("User promoted to admin", zap.String("username", username))
		}
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
