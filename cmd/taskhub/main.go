package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskhub/internal/api"
	"taskhub/internal/config"
	"taskhub/internal/store"
)

func main() {
	cfg, secretSet := config.Load()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		panic(err)
	}
	defer st.Close()

	if err := st.Init(); err != nil {
		panic(err)
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if !secretSet {
		e.Logger.Warn("JWT_SECRET not set, using insecure default")
	}

	server := api.New(st, cfg.JWTSecret, cfg.UploadDir)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
