package main

import (
	"log"
	"net/http"

	"anonboard/clients"
	"anonboard/clients/discord"
	slackclient "anonboard/clients/slack"
	"anonboard/config"
	"anonboard/db"
	"anonboard/handlers"
	"anonboard/services/conversation"
	"anonboard/services/follows"
	"anonboard/services/mirror"
	"anonboard/services/notifications"
	"anonboard/services/posts"
	"anonboard/services/privatemsgs"
	"anonboard/services/rating"
	"anonboard/services/threads"
	"anonboard/services/txmanager"
	"anonboard/services/users"
	"anonboard/usecases/discussion"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	conn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer conn.Close()

	usersRepo := db.NewPostgresUsersRepository(conn, cfg.DatabaseSchema)
	postsRepo := db.NewPostgresPostsRepository(conn, cfg.DatabaseSchema)
	commentsRepo := db.NewPostgresCommentsRepository(conn, cfg.DatabaseSchema)
	reactionsRepo := db.NewPostgresReactionsRepository(conn, cfg.DatabaseSchema)
	socialRepo := db.NewPostgresSocialRepository(conn, cfg.DatabaseSchema)
	privateMsgsRepo := db.NewPostgresPrivateMessagesRepository(conn, cfg.DatabaseSchema)

	txManager := txmanager.NewTransactionManager(conn)

	messenger, publishChannelID := buildMessenger(cfg)

	usersService := users.NewUsersService(usersRepo)
	conversationService := conversation.NewConversationService(usersRepo, postsRepo, commentsRepo)
	threadsService := threads.NewThreadsService(postsRepo, commentsRepo, reactionsRepo, txManager)
	mirrorService := mirror.NewMirrorService(postsRepo, threadsService, messenger, cfg.DeepLinkBaseURL)
	notificationsService := notifications.NewNotificationsService(usersRepo, socialRepo, messenger)
	ratingService := rating.NewRatingService(usersRepo, postsRepo, commentsRepo)
	followsService := follows.NewFollowsService(usersRepo, socialRepo)
	privateMsgsService := privatemsgs.NewPrivateMessagesService(
		usersRepo,
		socialRepo,
		privateMsgsRepo,
		notificationsService,
	)
	postsService := posts.NewPostsService(
		postsRepo,
		usersRepo,
		commentsRepo,
		privateMsgsRepo,
		messenger,
		notificationsService,
		txManager,
		publishChannelID,
		cfg.DeepLinkBaseURL,
		cfg.AdminUserID,
	)

	discussionUseCase := discussion.NewDiscussionUseCase(
		usersService,
		conversationService,
		threadsService,
		mirrorService,
		postsService,
		privateMsgsService,
		notificationsService,
	)

	eventsHandler := handlers.NewEventsHandler(discussionUseCase, postsService, ratingService)
	profilesHandler := handlers.NewProfilesHandler(usersService, followsService, ratingService, privateMsgsService)
	router := handlers.SetupRouter(eventsHandler, profilesHandler, cfg.CORSAllowedOrigins)

	log.Printf("✅ Listening on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}

// buildMessenger picks the configured chat transport. Slack wins when both
// are configured.
func buildMessenger(cfg *config.AppConfig) (clients.Messenger, string) {
	if cfg.SlackConfig.IsConfigured() {
		return slackclient.NewSlackMessenger(cfg.SlackConfig.BotToken), cfg.SlackConfig.ChannelID
	}
	messenger, err := discord.NewDiscordMessenger(cfg.DiscordConfig.BotToken)
	if err != nil {
		log.Fatalf("❌ Failed to create Discord messenger: %v", err)
	}
	return messenger, cfg.DiscordConfig.ChannelID
}
