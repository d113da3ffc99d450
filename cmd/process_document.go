/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/ai-tutor-be/config"
	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/service"
)

// processDocumentCmd runs the ingestion pipeline for a staged object from
// the command line, for reprocessing or when the bucket notification was
// lost.
var processDocumentCmd = &cobra.Command{
	Use:   "process-document",
	Short: "Run the ingestion pipeline for a staged upload",
	Long: `Runs the document ingestion pipeline for an object already sitting in
the staging bucket, exactly as if an upload notification had arrived:

  ai-tutor-be process-document --key "upload/math___calc1___lecture.pdf"`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		bucket, _ := cmd.Flags().GetString("bucket")
		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			log.Fatal("--key is required")
		}

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if bucket == "" {
			bucket = cfg.SourceBucket
		}
		ctx := context.Background()

		store, err := database.NewS3Store(ctx, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to create object store client: %v", err)
		}

		parseService := service.NewUpstageParseService(cfg.ParseEndpoint, cfg.UpstageAPIKey, cfg.ParseModel)
		folderService := service.NewFolderService(store, cfg.TargetBucket)
		documentService := service.NewDocumentService(store, parseService, folderService, cfg.SourceBucket, cfg.TargetBucket, cfg.UploadDir)

		resp, err := documentService.ProcessDocument(ctx, bucket, key)
		if err != nil {
			log.Fatalf("Failed to process document: %v", err)
		}
		if resp == nil {
			fmt.Println("Nothing to do: key is outside the upload prefix or bucket is not the staging bucket")
			return
		}
		fmt.Printf("Processed %q from folder %q, result stored at %s/%s\n",
			resp.OriginalFilename, resp.FolderName, resp.TargetBucket, resp.ResultPath)
	},
}

func init() {
	rootCmd.AddCommand(processDocumentCmd)

	processDocumentCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	processDocumentCmd.Flags().StringP("bucket", "b", "", "staging bucket (defaults to source_bucket from config)")
	processDocumentCmd.Flags().StringP("key", "k", "", "object key of the staged upload")
}
