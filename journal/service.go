package journal

import (
	"context"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

const (
	BackendMemory        = "memory"
	BackendDynamo        = "dynamodb"
	BackendDynamoLocal   = "dynamodb-local"
	tableNameEnvironment = "DYNAMODB_JOURNAL_TABLE_NAME"
)

// Config selects and configures the journal backend.
type Config struct {
	Backend  string `yaml:"backend"`
	Table    string `yaml:"table"`
	Endpoint string `yaml:"endpoint"`
}

var Live = wire.NewSet(
	DefaultAWSConfig,
	Client,
	LiveTableName,
	NewDynamoJournal,
	wire.Bind(new(Journal), new(*DynamoJournal)),
)

var Local = wire.NewSet(
	LocalDynamoJournal,
	wire.Bind(new(Journal), new(*DynamoJournal)),
)

var Memory = wire.NewSet(
	NewMemoryJournal,
	wire.Bind(new(Journal), new(*MemoryJournal)),
)

// LiveTableName prefers the configured table and falls back to
// DYNAMODB_JOURNAL_TABLE_NAME.
func LiveTableName(cfg Config) (TableName, error) {
	if cfg.Table != "" {
		return TableName(cfg.Table), nil
	}

	table := os.Getenv(tableNameEnvironment)
	if len(table) == 0 {
		return "", errors.New(tableNameEnvironment + " is not set")
	}

	return TableName(table), nil
}

func DefaultAWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}

func Client(cfg aws.Config) *dynamodb.Client {
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return dynamodb.NewFromConfig(cfg)
}
