package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"movimenta_server/store"
	"movimenta_server/utils"
)

// maxBatchSize is the BatchWriteItem request limit.
const maxBatchSize = 25

// API is the subset of *dynamodb.Client the store calls.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

// NewClient loads the default AWS config for region. A non-empty endpoint points
// the client at DynamoDB Local or a compatible emulator.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// Service wraps the raw client with marshalling, pagination and batching.
type Service struct {
	Client API
	log    *slog.Logger
}

func newService(client API, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{Client: client, log: log}
}

// GetItem retrieves one item and unmarshals it into out.
func (ds *Service) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue, out any) error {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(tableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	if output.Item == nil {
		return store.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from table '%s': %w", tableName, err)
	}
	return nil
}

// PutItem marshals item and writes it, replacing any row with the same key.
func (ds *Service) PutItem(ctx context.Context, tableName string, item any) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if _, err := ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      marshaled,
	}); err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	ds.log.Debug("dynamo put", slog.String("table", tableName))
	return nil
}

// QueryAll follows LastEvaluatedKey until the query is exhausted.
func (ds *Service) QueryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		output, err := ds.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query table '%s': %w", aws.ToString(input.TableName), err)
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

// ScanAll reads every item of a table.
func (ds *Service) ScanAll(ctx context.Context, tableName string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.ScanInput{
		TableName:      aws.String(tableName),
		ConsistentRead: aws.Bool(true),
	}
	var items []map[string]types.AttributeValue
	for {
		output, err := ds.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", tableName, err)
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

// BatchDelete removes keys in batches of 25, retrying unprocessed requests.
func (ds *Service) BatchDelete(ctx context.Context, tableName string, keys []map[string]types.AttributeValue) error {
	requests := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
	}
	for i := 0; i < len(requests); i += maxBatchSize {
		end := min(i+maxBatchSize, len(requests))
		pending := map[string][]types.WriteRequest{tableName: requests[i:end]}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt >= 5 {
				return fmt.Errorf("batch delete on table '%s': unprocessed items remain", tableName)
			}
			output, err := ds.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("failed to batch write items to table '%s': %w", tableName, err)
			}
			pending = output.UnprocessedItems
		}
	}
	if len(keys) > 0 {
		ds.log.Debug("dynamo batch delete", slog.String("table", tableName), slog.Int("count", len(keys)))
	}
	return nil
}

// NextSequence atomically increments the named counter and returns the new value.
func (ds *Service) NextSequence(ctx context.Context, tableName, name string) (int64, error) {
	output, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(tableName),
		Key:                       map[string]types.AttributeValue{"name": utils.StringAttr(name)},
		UpdateExpression:          aws.String("ADD #v :one"),
		ExpressionAttributeNames:  map[string]string{"#v": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": utils.NumberAttr(1)},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update counter '%s': %w", name, err)
	}
	value := utils.ExtractInt64(output.Attributes, "value")
	if value == 0 {
		return 0, fmt.Errorf("counter '%s' update returned no value", name)
	}
	return value, nil
}
