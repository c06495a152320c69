package journal

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

const (
	DefaultLocalEndpoint = "http://localhost:8000"
	DefaultTableName     = TableName("wee-store-journal")
)

// LocalDynamoJournal connects to a DynamoDB Local instance, creating the
// journal table when it does not exist.
func LocalDynamoJournal(ctx context.Context, cfg Config) (*DynamoJournal, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultLocalEndpoint
	}

	table := TableName(cfg.Table)
	if table == "" {
		table = DefaultTableName
	}

	awsConfig, err := localConfig(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(awsConfig)

	exists, err := tableExists(ctx, client, table)
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := createTable(ctx, client, table); err != nil {
			return nil, err
		}
	}

	return NewDynamoJournal(client, table), nil
}

func localConfig(ctx context.Context, endpoint string) (aws.Config, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint}, nil
		},
	)

	return config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID: "dummy", SecretAccessKey: "dummy", SessionToken: "dummy",
				Source: "Hard-coded credentials; values are irrelevant for local DynamoDB",
			},
		}))
}

func tableExists(ctx context.Context, client *dynamodb.Client, name TableName) (bool, error) {
	required := &dynamodb.DescribeTableInput{TableName: aws.String(name.String())}
	description, err := client.DescribeTable(ctx, required)
	if err != nil {
		var errorType *types.ResourceNotFoundException
		if errors.As(err, &errorType) {
			return false, nil
		}
		return false, err
	}

	if description.Table.TableStatus != types.TableStatusActive {
		return false, errors.New("journal table exists but is not active")
	}

	return true, nil
}

func createTable(ctx context.Context, client *dynamodb.Client, table TableName) error {
	log.Info().Str("table", table.String()).Msg("creating journal table")

	_, err := client.CreateTable(
		ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(table.String()),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("sk"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("sk"), KeyType: types.KeyTypeRange},
			},
			BillingMode: types.BillingModePayPerRequest,
		},
	)
	if err != nil {
		return err
	}

	required := &dynamodb.DescribeTableInput{TableName: aws.String(table.String())}
	return dynamodb.NewTableExistsWaiter(client).Wait(ctx, required, 2*time.Minute)
}
