package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pos-system/internal/auth"
	"pos-system/internal/catalog"
	"pos-system/internal/common/httpx"
	"pos-system/internal/common/logger"
	"pos-system/internal/config"
	"pos-system/internal/connections/database"
	"pos-system/internal/connections/rabbitmq"
	"pos-system/internal/pos/handlers"
	"pos-system/internal/pos/repository"
	"pos-system/internal/pos/service"
	"pos-system/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (auto-discovered when empty)")
	port := flag.Int("port", 3000, "http port")
	menuTTL := flag.Int("menu-cache-ttl-ms", 1000, "menu cache time-to-live in milliseconds")
	flag.Parse()

	lg := logger.New("pos-server")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_ = godotenv.Load()

	path := *configPath
	if path == "" {
		var err error
		path, err = config.FindConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, "no config.yaml found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Orders.InitSchema(ctx); err != nil {
		lg.Error("schema_init_failed", err, nil)
		os.Exit(1)
	}

	// The kitchen queue is optional: a register without a broker still
	// sells, it just prints tickets nowhere.
	var publisher service.KitchenPublisher
	if cfg.RabbitMQ.Host != "" {
		mq, err := rabbitmq.Dial(rabbitmq.Config{
			Host:     cfg.RabbitMQ.Host,
			Port:     cfg.RabbitMQ.Port,
			User:     cfg.RabbitMQ.User,
			Password: cfg.RabbitMQ.Password,
			VHost:    cfg.RabbitMQ.VHost,
		})
		if err != nil {
			lg.Error("rabbitmq_connect_failed", err, nil)
			os.Exit(1)
		}
		defer mq.Close()
		if err := mq.DeclareTopology(); err != nil {
			lg.Error("rabbitmq_declare_failed", err, nil)
			os.Exit(1)
		}
		publisher = mq
	} else {
		lg.Warn("kitchen_queue_disabled", map[string]any{"reason": "no rabbitmq host configured"})
	}

	menu := catalog.NewLoader(cfg.POS.MenuPath, time.Duration(*menuTTL)*time.Millisecond)
	sessions := session.NewManager()
	orders := service.NewOrderService(repo.Orders, sessions, publisher, lg, service.Options{
		StoreName:     cfg.POS.StoreName,
		ReceiptsDir:   cfg.POS.ReceiptsDir,
		OrderIDPolicy: cfg.POS.OrderIDPolicy,
	})
	gate := auth.NewGate(cfg.Auth.Passphrase, cfg.Auth.PassphraseHash, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	h := handlers.New(menu, sessions, orders, repo.Orders, gate, lg, cfg.POS.StoreName)
	h.RegisterRoutes(router)

	lg.Info("service_started", map[string]any{"service": "pos-server", "port": *port, "store": cfg.POS.StoreName})

	srv := httpx.New(":"+strconv.Itoa(*port), router)
	if err := srv.Run(ctx); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}
