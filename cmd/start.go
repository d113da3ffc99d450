/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/ai-tutor-be/config"
	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/handler"
	"github.com/tieubaoca/ai-tutor-be/repository"
	"github.com/tieubaoca/ai-tutor-be/service"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the AI tutor server",
	Long:  `Starts the HTTP server exposing the folder, document, summary and chat endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		ctx := context.Background()

		store, err := database.NewS3Store(ctx, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to create object store client: %v", err)
		}

		mongoClient, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(ctx)

		conversationRepo := repository.NewConversationRepo(
			mongoClient.Database(cfg.MongoDatabase).Collection(cfg.ConversationCollection),
		)

		aiService, err := newAIService(cfg)
		if err != nil {
			log.Fatalf("Failed to create AI service: %v", err)
		}
		parseService := service.NewUpstageParseService(cfg.ParseEndpoint, cfg.UpstageAPIKey, cfg.ParseModel)

		folderService := service.NewFolderService(store, cfg.TargetBucket)
		documentService := service.NewDocumentService(store, parseService, folderService, cfg.SourceBucket, cfg.TargetBucket, cfg.UploadDir)
		summaryService := service.NewSummaryService(store, aiService, cfg.TargetBucket)
		chatService := service.NewChatService(conversationRepo, store, aiService, cfg.TargetBucket)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		folderHandler := handler.NewFolderHandler(folderService)
		documentHandler := handler.NewDocumentHandler(documentService)
		notificationHandler := handler.NewNotificationHandler(documentService)
		summaryHandler := handler.NewSummaryHandler(summaryService)
		chatHandler := handler.NewChatHandler(chatService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/folders", folderHandler.HandleCreateFolder)
			apiV1.GET("/folders", folderHandler.HandleListFolders)
			apiV1.GET("/folders/:id/documents", documentHandler.HandleListDocuments)
			apiV1.POST("/documents/upload", documentHandler.HandleUploadDocument)
			apiV1.GET("/documents/summary", summaryHandler.HandleSummarize)
			apiV1.GET("/chat", chatHandler.HandleChat)
			apiV1.POST("/notifications/document-uploaded", notificationHandler.HandleDocumentUploaded)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

// newAIService picks the completion provider from config.
func newAIService(cfg *config.Config) (service.AIService, error) {
	switch cfg.AIProvider {
	case "gemini":
		keys := strings.Split(cfg.GeminiAPIKeys, ",")
		return service.NewGeminiService(keys, cfg.Model)
	case "solar", "":
		return service.NewSolarService(cfg.AIEndpoint, cfg.UpstageAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", cfg.AIProvider)
	}
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
