package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/httpapi"
	"docqa/internal/log"
	"docqa/internal/segment"
	"docqa/internal/service"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	factory, err := embedding.NewFactory(cfg.Embedder)
	if err != nil {
		log.Fatal("embedder setup failed", err)
	}
	ch, err := chunker.New(cfg.Chunker)
	if err != nil {
		log.Fatal("chunker setup failed", err)
	}
	seg, err := segment.New(cfg.Segmenter.Type)
	if err != nil {
		log.Fatal("segmenter setup failed", err)
	}
	svc := service.New(cfg, factory, ch, seg)

	gin.SetMode(gin.ReleaseMode)
	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	r := httpapi.NewRouter(httpapi.NewSessionHandler(svc, maxUpload, service.ErrSessionNotFound))
	r.MaxMultipartMemory = maxUpload

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http listen failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("http shutdown failed", err)
	}
	log.Info("server stopped")
}
