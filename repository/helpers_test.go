package repository

import (
	"context"
	"io"
	"testing"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/dal/memstore"
	"nosql-repository-backend/entity"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSuffix = "test"

// scoreEntity has a numeric sort key and a GSI with a sort key
type scoreEntity struct {
	Player string `dynamodbav:"player"`
	Score  int    `dynamodbav:"score"`
	Team   string `dynamodbav:"team,omitempty"`
}

func (scoreEntity) Schema() dal.TableSchema {
	return dal.TableSchema{
		TableName:    "score_table",
		PartitionKey: dal.KeyAttribute{Name: "player", Type: types.ScalarAttributeTypeS},
		SortKey:      &dal.KeyAttribute{Name: "score", Type: types.ScalarAttributeTypeN},
		GlobalIndexes: []dal.IndexSchema{
			{
				Name:         "TeamIndex",
				PartitionKey: dal.KeyAttribute{Name: "team", Type: types.ScalarAttributeTypeS},
				SortKey:      &dal.KeyAttribute{Name: "score", Type: types.ScalarAttributeTypeN},
			},
		},
	}
}

// blobEntity is keyed by opaque bytes on both components
type blobEntity struct {
	Owner []byte `dynamodbav:"owner"`
	Hash  []byte `dynamodbav:"hash"`
	Label string `dynamodbav:"label,omitempty"`
}

func (blobEntity) Schema() dal.TableSchema {
	return dal.TableSchema{
		TableName:    "blob_table",
		PartitionKey: dal.KeyAttribute{Name: "owner", Type: types.ScalarAttributeTypeB},
		SortKey:      &dal.KeyAttribute{Name: "hash", Type: types.ScalarAttributeTypeB},
	}
}

// flagEntity marshals its partition key as a BOOL, which no key schema accepts
type flagEntity struct {
	PK bool `dynamodbav:"pk"`
}

func (flagEntity) Schema() dal.TableSchema {
	return dal.TableSchema{
		TableName:    "flag_table",
		PartitionKey: dal.KeyAttribute{Name: "pk", Type: types.ScalarAttributeTypeS},
	}
}

func testLogger() logger.Logger {
	return logger.NewLoggerWithOutput("error", "text", io.Discard)
}

func testConfig() *models.Config {
	return &models.Config{DynamoDBTableSuffix: testSuffix}
}

// newTestStore returns a memory store holding a table for each entity
func newTestStore(t *testing.T, entities ...dal.TableEntity) *memstore.Store {
	t.Helper()
	store := memstore.New()
	for _, e := range entities {
		schema := e.Schema()
		_, err := store.CreateTable(context.Background(), schema.CreateTableInput(dal.PhysicalTableName(schema.TableName, testSuffix), 5, 5))
		require.NoError(t, err)
	}
	return store
}

func allTestEntities() []dal.TableEntity {
	return []dal.TableEntity{entity.MainTableEntity{}, entity.EventTableEntity{}, scoreEntity{}}
}

// MockDynamoDBAPI implements dal.DynamoDBAPI for failure paths
type MockDynamoDBAPI struct {
	mock.Mock
}

func (m *MockDynamoDBAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DeleteItemOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.ScanOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.TransactWriteItemsOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.BatchGetItemOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.CreateTableOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}
