package main

import (
	"github.com/streamhub/account-server/internal/application"
	"github.com/streamhub/account-server/internal/config"
)

func main() {

	cfg, err := config.LoadConfigs(".env")
	if err != nil {
		panic(err)
	}

	app := application.App{Cfg: cfg}
	app.Run()

}
