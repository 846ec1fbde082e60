// Package dynamodb serves partition scans from DynamoDB.
//
// Every dataset table maps to one DynamoDB table with a HASH key named
// PartitionKey and a RANGE key named RowKey. Record properties are stored as
// top-level item attributes next to the keys and a Timestamp attribute.
package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

// Reserved item attributes
const (
	attrPartitionKey = "PartitionKey"
	attrRowKey       = "RowKey"
	attrTimestamp    = "Timestamp"
)

// API is the subset of the DynamoDB client used by TableStore
type API interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

// TableStore serves partition scans with paginated key-condition queries
type TableStore struct {
	client      API
	tablePrefix string

	mu     sync.Mutex
	tables map[string]*tableGuard
}

// tableGuard serializes creation of one table
type tableGuard struct {
	mu    sync.Mutex
	ready bool
}

// NewTableStore creates a store on an existing client.
// tablePrefix is prepended to every dataset table name.
func NewTableStore(client API, tablePrefix string) *TableStore {
	return &TableStore{
		client:      client,
		tablePrefix: tablePrefix,
		tables:      make(map[string]*tableGuard),
	}
}

func (s *TableStore) tableName(table domain.Table) string {
	return s.tablePrefix + table.Name
}

// ScanPartition queries the partition page by page. DynamoDB returns items in
// ascending range key order. A table that was never written reads as an
// empty partition.
func (s *TableStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	var (
		entities         []domain.TableEntity
		lastEvaluatedKey map[string]types.AttributeValue
	)

	for {
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName(table)),
			KeyConditionExpression: aws.String("#pk = :pk"),
			ExpressionAttributeNames: map[string]string{
				"#pk": attrPartitionKey,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: table.PartitionKey},
			},
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			var notFound *types.ResourceNotFoundException
			if errors.As(err, &notFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to query partition: %w", err)
		}

		for _, item := range result.Items {
			entity, err := fromItem(item)
			if err != nil {
				return nil, err
			}
			entities = append(entities, entity)
		}

		lastEvaluatedKey = result.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			break
		}
	}

	return entities, nil
}

// PutEntity writes the row as an item, creating the table on first use
func (s *TableStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	if err := s.ensureTable(ctx, s.tableName(table)); err != nil {
		return err
	}

	entity.PartitionKey = table.PartitionKey
	item, err := toItem(entity)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName(table)),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func (s *TableStore) guard(name string) *tableGuard {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.tables[name]
	if !ok {
		g = &tableGuard{}
		s.tables[name] = g
	}
	return g
}

func (s *TableStore) ensureTable(ctx context.Context, name string) error {
	g := s.guard(name)
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready {
		return nil
	}

	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to describe table %s: %w", name, err)
		}

		_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(name),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String(attrPartitionKey), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String(attrRowKey), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(attrPartitionKey), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String(attrRowKey), KeyType: types.KeyTypeRange},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			var inUse *types.ResourceInUseException
			if !errors.As(err, &inUse) {
				return fmt.Errorf("failed to create table %s: %w", name, err)
			}
		}

		waiter := dynamodb.NewTableExistsWaiter(s.client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, 2*time.Minute); err != nil {
			return fmt.Errorf("failed waiting for table %s: %w", name, err)
		}
	}

	g.ready = true
	return nil
}

// Ping lists at most one table to prove the endpoint and credentials work
func (s *TableStore) Ping(ctx context.Context) error {
	_, err := s.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	return err
}

// Close is a no-op
func (s *TableStore) Close() error {
	return nil
}

// toItem flattens the properties object into item attributes next to the keys
func toItem(entity domain.TableEntity) (map[string]types.AttributeValue, error) {
	attrs := make(map[string]any)
	if len(entity.Properties) > 0 {
		if err := json.Unmarshal(entity.Properties, &attrs); err != nil {
			return nil, fmt.Errorf("failed to decode properties of row %s: %w", entity.RowKey, err)
		}
	}

	ts := entity.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	attrs[attrPartitionKey] = entity.PartitionKey
	attrs[attrRowKey] = entity.RowKey
	attrs[attrTimestamp] = ts.UTC().Format(time.RFC3339Nano)

	item, err := attributevalue.MarshalMap(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item for row %s: %w", entity.RowKey, err)
	}
	return item, nil
}

// fromItem splits an item back into keys, timestamp and a properties object
func fromItem(item map[string]types.AttributeValue) (domain.TableEntity, error) {
	var attrs map[string]any
	if err := attributevalue.UnmarshalMap(item, &attrs); err != nil {
		return domain.TableEntity{}, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	entity := domain.TableEntity{}
	entity.PartitionKey, _ = attrs[attrPartitionKey].(string)
	entity.RowKey, _ = attrs[attrRowKey].(string)
	if raw, ok := attrs[attrTimestamp].(string); ok {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return domain.TableEntity{}, fmt.Errorf("failed to parse timestamp of row %s: %w", entity.RowKey, err)
		}
		entity.Timestamp = ts
	}

	delete(attrs, attrPartitionKey)
	delete(attrs, attrRowKey)
	delete(attrs, attrTimestamp)

	props, err := json.Marshal(attrs)
	if err != nil {
		return domain.TableEntity{}, fmt.Errorf("failed to encode properties of row %s: %w", entity.RowKey, err)
	}
	entity.Properties = props
	return entity, nil
}
