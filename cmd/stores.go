package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kamal-hamza/assetctl/internal/adapters/blob"
	"github.com/kamal-hamza/assetctl/internal/adapters/cdn"
	"github.com/kamal-hamza/assetctl/internal/adapters/encoder"
	"github.com/kamal-hamza/assetctl/internal/adapters/fetch"
	"github.com/kamal-hamza/assetctl/internal/core/ports"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/config"
	"github.com/kamal-hamza/assetctl/pkg/queue"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

// requireCredentials checks the environment once, before any work starts.
// Missing variables are listed with their help text and the process exits 1.
func requireCredentials(reqs []config.Requirement) config.Credentials {
	res := config.CheckEnv(os.LookupEnv, reqs)
	if res.Ok() {
		return res.Credentials
	}

	fmt.Println(ui.FormatError("Missing environment variables: " + strings.Join(res.MissingNames(), ", ")))
	for _, m := range res.Missing {
		name := m.Name
		if len(m.Aliases) > 0 {
			name += " (or " + strings.Join(m.Aliases, ", ") + ")"
		}
		fmt.Println(ui.FormatMuted("  • " + name + ": " + m.Help))
	}
	fmt.Println()
	fmt.Println(ui.FormatInfo("Set them in the environment or in .env.local at " + appWorkspace.RootPath))
	appLog.WithError(res.Err()).Error("Refusing to start")
	os.Exit(1)
	return nil
}

// newMediaStore builds the CDN client from the environment
func newMediaStore() ports.MediaStore {
	creds := requireCredentials(config.CDNRequirements())
	store, err := cdn.NewCloudinaryStore(
		creds.Get(config.EnvCloudName),
		creds.Get(config.EnvCloudAPIKey),
		creds.Get(config.EnvCloudAPISecret),
		appLog,
	)
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		os.Exit(1)
	}
	return store
}

// newBlobStore builds the configured blob client from the environment
func newBlobStore() ports.BlobStore {
	cfg := appConfig.Blob
	creds := requireCredentials(config.BlobRequirements(cfg.Kind))

	var (
		store ports.BlobStore
		err   error
	)
	switch cfg.Kind {
	case "s3":
		store, err = blob.NewS3Store(blob.S3Options{
			Endpoint:      cfg.S3Endpoint,
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Secure:        cfg.S3Secure,
			AccessKey:     creds.Get(config.EnvS3AccessKey),
			SecretKey:     creds.Get(config.EnvS3SecretKey),
			PublicBaseURL: cfg.PublicBaseURL,
		}, appLog)
	default:
		store, err = blob.NewVercelStore(blob.VercelOptions{
			APIURL:     cfg.APIURL,
			APIVersion: cfg.APIVersion,
			Token:      creds.Get(config.EnvBlobToken),
			Timeout:    fetchTimeout(),
		}, appLog)
	}
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		os.Exit(1)
	}
	return store
}

func cdnNameRequirement() []config.Requirement {
	return []config.Requirement{config.CloudName}
}

func newFetcher() ports.Fetcher {
	return fetch.NewHTTPFetcher(fetchTimeout(), int64(appConfig.Fetch.MaxMB)*1024*1024, appLog)
}

// newEncoder returns the encoder, exiting when it's required but not installed
func newEncoder(required bool) ports.Encoder {
	enc := encoder.NewFFmpegEncoder(appConfig.Encoder, appLog)
	if required && !enc.Available() {
		fmt.Println(ui.FormatError(appConfig.Encoder.Binary + " not found"))
		fmt.Println(ui.FormatInfo("Install ffmpeg (brew install ffmpeg / apt-get install ffmpeg) or set encoder.binary"))
		os.Exit(1)
	}
	return enc
}

// newTransferService wires an executor around whatever stores the command built
func newTransferService(deps services.TransferDeps) *services.TransferService {
	deps.Resolver = resolver
	deps.Catalog = appCatalog
	deps.MediaPath = appWorkspace.MediaPath
	deps.Log = appLog

	return services.NewTransferService(deps, services.TransferOptions{
		ResourceType:      appConfig.CDN.ResourceType,
		BlobAccess:        appConfig.Blob.Access,
		CompressThreshold: appConfig.Encoder.ThresholdBytes(),
		CompressSuffix:    appConfig.Encoder.OutputSuffix,
	})
}

// newBatchService wires the sequential runner with the pacing delay for the mode
func newBatchService(executor services.Executor, compress bool) (*services.BatchService, func()) {
	pacer := queue.New(appConfig.Delay(compress))
	return services.NewBatchService(executor, pacer, runLog, sidecar, appLog), pacer.Close
}
