package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jaiparmani/ToolBoxWebServices/internal/config"
	"github.com/jaiparmani/ToolBoxWebServices/internal/routes"
)

func main() {
	cfg := config.New()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db := initDB(cfg, log)
	engine := routes.Register(db, log)

	srv := &http.Server{Addr: cfg.Addr, Handler: engine}
	log.WithField("addr", cfg.Addr).Info("listening")
	log.Fatal(srv.ListenAndServe())
}
