package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"

	"qrlink/clients/discord"
	"qrlink/config"
	"qrlink/db"
	"qrlink/handlers"
	"qrlink/services/host"
	"qrlink/services/watches"
	"qrlink/usecases/qrlink"
)

type Options struct {
	EnvFile   string `long:"env-file" description:"Path to an env file to load instead of .env"`
	NoGateway bool   `long:"no-gateway" description:"Do not connect to the Discord gateway; accept events over HTTP only"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		return err
	}
	if !cfg.DiscordConfig.IsConfigured() {
		return fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if !cfg.QRLinkConfig.IsConfigured() {
		return fmt.Errorf("QRLINK_TRIGGER_EMOJI and QRLINK_LINK_BASE_URL must not be blank")
	}
	log.Printf("🚀 Starting qrlink (environment: %s, trigger: %s, token budget: %d/min)",
		cfg.Environment, cfg.QRLinkConfig.TriggerEmoji, cfg.HostConfig.MaxTokens)

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL, cfg.DatabaseSchema)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	watchedMessagesRepo := db.NewPostgresWatchedMessagesRepository(dbConn, cfg.DatabaseSchema)
	watchesService := watches.NewWatchesService(watchedMessagesRepo)

	// One session serves both REST calls and the gateway
	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordClient := discord.NewDiscordClient(session)

	botUser, err := discordClient.GetBotUser()
	if err != nil {
		return fmt.Errorf("failed to authenticate Discord bot: %w", err)
	}
	log.Printf("🤖 Authenticated as Discord bot %s (ID: %s)", botUser.Username, botUser.ID)

	hostService := host.NewHostService(discordClient, watchesService, cfg.HostConfig)
	qrLinkUseCase := qrlink.NewQRLinkUseCase(hostService, cfg.QRLinkConfig)

	delivery := handlers.NewDelivery(qrLinkUseCase)
	defer delivery.Stop()

	if opts.NoGateway {
		log.Printf("⏭️ Discord gateway disabled, accepting events over HTTP only")
	} else {
		discordHandler, err := handlers.NewDiscordEventsHandler(
			session,
			delivery,
			watchesService,
			cfg.QRLinkConfig.ListenPattern,
		)
		if err != nil {
			return err
		}
		if err := discordHandler.StartBot(); err != nil {
			return err
		}
		defer discordHandler.StopBot()
	}

	router := mux.NewRouter()
	handlers.NewEventsHTTPHandler(delivery).SetupEndpoints(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
		log.Printf("🛑 Shutdown signal received, cleaning up...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
