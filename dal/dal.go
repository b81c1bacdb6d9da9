package dal

import (
	"context"
	"fmt"
	"time"

	"nosql-repository-backend/dal/memstore"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDBClient owns the store client shared by every repository. It is
// safe for concurrent use once constructed.
type DynamoDBClient struct {
	DynamoDBAPI
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client. The "memory" endpoint
// selects the in-process store.
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	if cfg.DynamoDBEndpoint == models.MemoryEndpoint {
		log.Warn("Using in-memory DynamoDB store, data is not persisted")
		return NewDynamoDBClientWithAPI(memstore.New(), cfg, log), nil
	}

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"", // session token
		))
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// Override endpoint for DynamoDB Local
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	log.Info("✅ DynamoDB client initialized successfully")
	return NewDynamoDBClientWithAPI(client, cfg, log), nil
}

// NewDynamoDBClientWithAPI wraps an existing store client
func NewDynamoDBClientWithAPI(api DynamoDBAPI, cfg *models.Config, log logger.Logger) *DynamoDBClient {
	return &DynamoDBClient{
		DynamoDBAPI: api,
		config:      cfg,
		logger:      log,
	}
}

// API returns the underlying store client
func (db *DynamoDBClient) API() DynamoDBAPI {
	return db.DynamoDBAPI
}

// TableSuffix returns the environment suffix applied to logical table names
func (db *DynamoDBClient) TableSuffix() string {
	return db.config.DynamoDBTableSuffix
}

// TableExists checks if a table already exists
func (db *DynamoDBClient) TableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := db.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)})
	if err != nil {
		if IsTableNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateTableIfMissing creates a table. A table that already exists is not an error.
func (db *DynamoDBClient) CreateTableIfMissing(ctx context.Context, input *dynamodb.CreateTableInput) (bool, error) {
	_, err := db.CreateTable(ctx, input)
	if err != nil {
		if IsResourceInUse(err) {
			db.logger.Infof("Table %s already exists", aws.ToString(input.TableName))
			return false, nil
		}
		return false, fmt.Errorf("failed to create table %s: %w", aws.ToString(input.TableName), err)
	}
	return true, nil
}

// WaitForTable blocks until the table is ACTIVE or maxWait elapses
func (db *DynamoDBClient) WaitForTable(ctx context.Context, tableName string, maxWait time.Duration) error {
	waiter := dynamodb.NewTableExistsWaiter(db.DynamoDBAPI, func(o *dynamodb.TableExistsWaiterOptions) {
		o.MinDelay = time.Second
		o.MaxDelay = 10 * time.Second
	})
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, maxWait); err != nil {
		return fmt.Errorf("table %s did not become active: %w", tableName, err)
	}
	return nil
}

