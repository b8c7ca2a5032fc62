// Package di wires configuration, databases, clients and services together.
package di

import (
	"github.com/aristath/readiness/internal/clientdata"
	"github.com/aristath/readiness/internal/clients/athena"
	s3client "github.com/aristath/readiness/internal/clients/s3"
	"github.com/aristath/readiness/internal/database"
	"github.com/aristath/readiness/internal/modules/explanations"
	"github.com/aristath/readiness/internal/modules/metrics"
	"github.com/aristath/readiness/internal/scheduler"
	"github.com/aristath/readiness/internal/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
)

// Container holds every long-lived dependency. It is the single source of
// truth handed to the server.
type Container struct {
	// Databases
	CacheDB *database.DB

	// Repositories
	ClientDataRepo *clientdata.Repository

	// Remote clients; nil when their configuration is incomplete
	AWSConfig      *aws.Config
	AthenaExecutor *athena.Executor
	ArtifactStore  *s3client.Store

	// Services
	Telemetry           *telemetry.Metrics
	MetricsService      *metrics.Service
	ExplanationsService *explanations.Service

	// Background jobs
	Scheduler *scheduler.Scheduler

	// Configuration items absent at startup, per concern
	MissingForQueries   []string
	MissingForArtifacts []string
}

// JobInstances holds the registered jobs so they can also be run on demand.
type JobInstances struct {
	CacheCleanup *clientdata.CleanupJob
	CacheCheck   *scheduler.CheckCacheDatabaseJob
	CacheWarm    *scheduler.CacheWarmJob // nil when queries are not configured
}

// Close releases the container's resources.
func (c *Container) Close() error {
	if c.CacheDB != nil {
		return c.CacheDB.Close()
	}
	return nil
}
