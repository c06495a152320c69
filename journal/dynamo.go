package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/weegigs/wee-store-go/ws"
)

// DynamoJournal stores entries in a single table keyed by stream (pk) and
// "entry#<revision>" (sk).
type DynamoJournal struct {
	db    *dynamodb.Client
	table string
}

type TableName string

func (name TableName) String() string {
	return string(name)
}

// a transaction is limited to 25 items
const maxBatch = 25

func NewDynamoJournal(db *dynamodb.Client, table TableName) *DynamoJournal {
	return &DynamoJournal{db: db, table: string(table)}
}

func (dj *DynamoJournal) Append(ctx context.Context, entries ...Entry) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dynamo append")
	defer span.End()

	if len(entries) == 0 {
		return EmptyAppend
	}

	if len(entries) > maxBatch {
		return pkgerrors.Errorf("cannot append more than %d entries at once", maxBatch)
	}

	items := make([]types.TransactWriteItem, len(entries))
	for i, entry := range entries {
		item, err := attributevalue.MarshalMap(recordFor(entry))
		if err != nil {
			return pkgerrors.Wrap(err, "failed to marshal journal entry")
		}

		condition, err := expression.NewBuilder().WithCondition(
			expression.AttributeNotExists(expression.Name("sk")),
		).Build()
		if err != nil {
			return err
		}

		items[i] = types.TransactWriteItem{
			Put: &types.Put{
				Item:                      item,
				TableName:                 aws.String(dj.table),
				ConditionExpression:       condition.Condition(),
				ExpressionAttributeNames:  condition.Names(),
				ExpressionAttributeValues: condition.Values(),
			},
		}
	}

	return retry.Do(
		func() error {
			_, err := dj.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
			return maybeDuplicate(err)
		},
		retry.RetryIf(isRetryable),
		retry.Attempts(5),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

func (dj *DynamoJournal) Read(ctx context.Context, stream Stream) ([]Entry, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dynamo read")
	defer span.End()

	query := expression.Key("pk").Equal(expression.Value(stream.String())).And(
		expression.Key("sk").BeginsWith(sortKeyPrefix),
	)

	expr, err := expression.NewBuilder().WithKeyCondition(query).Build()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var start map[string]types.AttributeValue
	for {
		out, err := dj.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(dj.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
		})
		if err != nil {
			return nil, err
		}

		var items []record
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to unmarshal journal entries")
		}

		for _, item := range items {
			entries = append(entries, item.entry())
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return entries, nil
}

// Remove deletes every entry in the stream, returning the number removed.
func (dj *DynamoJournal) Remove(ctx context.Context, stream Stream) (int, error) {
	type key struct {
		PartitionKey string `dynamodbav:"pk"`
		SortKey      string `dynamodbav:"sk"`
	}

	query := expression.Key("pk").Equal(expression.Value(stream.String()))
	projection := expression.NamesList(expression.Name("pk"), expression.Name("sk"))

	expr, err := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection).Build()
	if err != nil {
		return 0, err
	}

	var count int
	var start map[string]types.AttributeValue
	for {
		out, err := dj.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(dj.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			Limit:                     aws.Int32(maxBatch),
		})
		if err != nil {
			return count, err
		}

		if len(out.Items) > 0 {
			var keys []key
			if err := attributevalue.UnmarshalListOfMaps(out.Items, &keys); err != nil {
				return count, err
			}

			deletes := make([]types.TransactWriteItem, 0, len(keys))
			for _, k := range keys {
				item, err := attributevalue.MarshalMap(k)
				if err != nil {
					return count, err
				}

				deletes = append(deletes, types.TransactWriteItem{
					Delete: &types.Delete{Key: item, TableName: aws.String(dj.table)},
				})
			}

			if _, err := dj.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: deletes}); err != nil {
				return count, err
			}

			count += len(keys)
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return count, nil
}

// internal

const sortKeyPrefix = "entry#"

type record struct {
	PartitionKey string        `dynamodbav:"pk"`
	SortKey      string        `dynamodbav:"sk"`
	Revision     ws.Revision   `dynamodbav:"revision"`
	Action       ws.ActionName `dynamodbav:"action"`
	Timestamp    ws.Timestamp  `dynamodbav:"timestamp"`
	Encoding     string        `dynamodbav:"encoding"`
	Data         []byte        `dynamodbav:"data"`
}

func recordFor(entry Entry) record {
	return record{
		PartitionKey: entry.Stream.String(),
		SortKey:      strings.Join([]string{sortKeyPrefix, entry.Revision.String()}, ""),
		Revision:     entry.Revision,
		Action:       entry.Action,
		Timestamp:    entry.Timestamp,
		Encoding:     entry.Data.Encoding,
		Data:         entry.Data.Data,
	}
}

func (r record) entry() Entry {
	return Entry{
		Stream:    Stream(r.PartitionKey),
		Revision:  r.Revision,
		Action:    r.Action,
		Timestamp: r.Timestamp,
		Data:      ws.Data{Encoding: r.Encoding, Data: r.Data},
	}
}

func maybeDuplicate(err error) error {
	var tc *types.TransactionCanceledException
	if errors.As(err, &tc) {
		for _, reason := range tc.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return DuplicateEntry
			}
		}
	}

	return err
}

func isRetryable(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return true
	}

	var limit *types.RequestLimitExceeded
	if errors.As(err, &limit) {
		return true
	}

	var api smithy.APIError
	if errors.As(err, &api) {
		switch api.ErrorCode() {
		case "ThrottlingException", "TransactionConflict":
			return true
		}
	}

	return false
}
