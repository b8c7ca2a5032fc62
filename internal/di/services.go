package di

import (
	"context"
	"fmt"

	"github.com/aristath/readiness/internal/clientdata"
	"github.com/aristath/readiness/internal/clients/athena"
	s3client "github.com/aristath/readiness/internal/clients/s3"
	"github.com/aristath/readiness/internal/config"
	"github.com/aristath/readiness/internal/modules/explanations"
	"github.com/aristath/readiness/internal/modules/metrics"
	"github.com/aristath/readiness/internal/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsathena "github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates repositories over the opened databases.
func InitializeRepositories(container *Container) {
	container.ClientDataRepo = clientdata.NewRepository(container.CacheDB.Conn())
}

// InitializeServices builds the remote clients and domain services.
//
// Missing configuration does not fail startup: the affected client is left
// nil and its service reports the missing items on every request.
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.Telemetry = telemetry.New()
	container.MissingForQueries = cfg.MissingForQueries()
	container.MissingForArtifacts = cfg.MissingForArtifacts()

	if cfg.AWS.Region != "" {
		awsCfg, err := loadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return err
		}
		container.AWSConfig = &awsCfg
	}

	var executor metrics.QueryExecutor
	if len(container.MissingForQueries) == 0 {
		container.AthenaExecutor = athena.NewExecutor(
			awsathena.NewFromConfig(*container.AWSConfig),
			cfg.Athena.PollInterval,
			cfg.Athena.QueryTimeout,
			container.Telemetry,
			log,
		)
		executor = container.AthenaExecutor
	} else {
		log.Warn().Strs("missing", container.MissingForQueries).Msg("Metric queries disabled until configuration is complete")
	}

	container.MetricsService = metrics.NewService(executor, metrics.QuerySettings{
		Table:          cfg.MetricsView,
		Database:       cfg.Athena.Database,
		OutputLocation: cfg.Athena.OutputLocation,
		Workgroup:      cfg.Athena.Workgroup,
		Missing:        container.MissingForQueries,
	}, container.Telemetry, log)

	var store explanations.ArtifactStore
	if len(container.MissingForArtifacts) == 0 {
		container.ArtifactStore = s3client.NewStore(
			s3.NewFromConfig(*container.AWSConfig),
			cfg.Artifacts.ExplanationsBucket,
			log,
		)
		store = container.ArtifactStore
	} else {
		log.Warn().Strs("missing", container.MissingForArtifacts).Msg("Explanations disabled until configuration is complete")
	}

	container.ExplanationsService = explanations.NewService(store, container.ClientDataRepo, explanations.Settings{
		SubjectID: cfg.SubjectID,
		TTL:       cfg.ExplanationTTL,
		Missing:   container.MissingForArtifacts,
	}, container.Telemetry, log)

	return nil
}

// loadAWSConfig resolves credentials through the SDK's default chain unless
// static keys are configured.
func loadAWSConfig(ctx context.Context, c config.AWSConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
	}
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return awsCfg, nil
}
