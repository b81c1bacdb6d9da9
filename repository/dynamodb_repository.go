package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/utils/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LookupPolicy decides what FindByPrimaryKeys does when the store fails
type LookupPolicy int

const (
	// ReportLookupErrors returns store failures to the caller
	ReportLookupErrors LookupPolicy = iota
	// AbsentOnLookupError logs store failures and reports the row as absent
	AbsentOnLookupError
)

// DynamoDBRepository is the NoSQLRepository of one entity type bound to one
// physical table. T must be a struct value type.
type DynamoDBRepository[T dal.TableEntity] struct {
	api       dal.DynamoDBAPI
	schema    dal.TableSchema
	tableName string
	policy    LookupPolicy
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// NewDynamoDBRepository binds T to tableName
func NewDynamoDBRepository[T dal.TableEntity](api dal.DynamoDBAPI, tableName string, policy LookupPolicy, log logger.Logger, m *metrics.Metrics) *DynamoDBRepository[T] {
	var zero T
	return &DynamoDBRepository[T]{
		api:       api,
		schema:    zero.Schema(),
		tableName: tableName,
		policy:    policy,
		logger:    log.WithFields(map[string]interface{}{"table": tableName}),
		metrics:   m,
	}
}

// TableName returns the physical table name
func (r *DynamoDBRepository[T]) TableName() string {
	return r.tableName
}

// Schema returns the entity's key layout
func (r *DynamoDBRepository[T]) Schema() dal.TableSchema {
	return r.schema
}

func (r *DynamoDBRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.scan(ctx, "FindAll", 0)
}

// FindAllWithLimit returns at most limit rows in store order
func (r *DynamoDBRepository[T]) FindAllWithLimit(ctx context.Context, limit int) ([]T, error) {
	if limit <= 0 {
		return []T{}, nil
	}
	return r.scan(ctx, "FindAllWithLimit", limit)
}

func (r *DynamoDBRepository[T]) FindAllByPK(ctx context.Context, pk models.KeyValue) ([]T, error) {
	return r.query(ctx, "FindAllByPK", dal.PartitionEquals(pk))
}

func (r *DynamoDBRepository[T]) FindAllByPKAndSKBetween(ctx context.Context, pk, start, end models.KeyValue) ([]T, error) {
	return r.query(ctx, "FindAllByPKAndSKBetween", dal.SortBetween(pk, start, end))
}

func (r *DynamoDBRepository[T]) FindAllByPKAndSKBeginsWith(ctx context.Context, pk, prefix models.KeyValue) ([]T, error) {
	return r.query(ctx, "FindAllByPKAndSKBeginsWith", dal.SortBeginsWith(pk, prefix))
}

func (r *DynamoDBRepository[T]) FindAllByPKAndSKGreaterThan(ctx context.Context, pk, sk models.KeyValue) ([]T, error) {
	return r.query(ctx, "FindAllByPKAndSKGreaterThan", dal.SortGreaterThan(pk, sk))
}

func (r *DynamoDBRepository[T]) FindAllByPKAndSKGreaterThanOrEqual(ctx context.Context, pk, sk models.KeyValue) ([]T, error) {
	return r.query(ctx, "FindAllByPKAndSKGreaterThanOrEqual", dal.SortGreaterThanOrEqual(pk, sk))
}

func (r *DynamoDBRepository[T]) FindAllByPKAndSKLessThan(ctx context.Context, pk, sk models.KeyValue) ([]T, error) {
	return r.query(ctx, "FindAllByPKAndSKLessThan", dal.SortLessThan(pk, sk))
}

func (r *DynamoDBRepository[T]) FindAllByPKAndSKLessThanOrEqual(ctx context.Context, pk, sk models.KeyValue) ([]T, error) {
	return r.query(ctx, "FindAllByPKAndSKLessThanOrEqual", dal.SortLessThanOrEqual(pk, sk))
}

func (r *DynamoDBRepository[T]) FindAllByGSI(ctx context.Context, idx models.SecondaryIndex) ([]T, error) {
	return r.query(ctx, "FindAllByGSI", dal.IndexEquals(dal.GlobalIndex, idx))
}

func (r *DynamoDBRepository[T]) FindAllByLSI(ctx context.Context, idx models.SecondaryIndex) ([]T, error) {
	return r.query(ctx, "FindAllByLSI", dal.IndexEquals(dal.LocalIndex, idx))
}

// FindByPrimaryKeys reads one row. sk must be nil exactly when the table has no
// sort key. Key errors are always returned; store failures follow the lookup policy.
func (r *DynamoDBRepository[T]) FindByPrimaryKeys(ctx context.Context, pk, sk models.KeyValue) (*T, error) {
	key, err := dal.PrimaryKeyMap(r.schema, models.PrimaryKey{PK: pk, SK: sk})
	if err != nil {
		r.logger.Errorf("Invalid key for %s: %v", r.tableName, err)
		return nil, err
	}

	start := time.Now()
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	r.metrics.ObserveDB("GetItem", r.tableName, start, err)
	if err != nil {
		if r.policy == AbsentOnLookupError {
			r.logger.Warnf("Lookup on %s failed, treating row as absent: %v", r.tableName, err)
			return nil, nil
		}
		r.logger.Errorf("Failed to get item from %s: %v", r.tableName, err)
		return nil, fmt.Errorf("%w: get item from %s: %w", dal.ErrStoreFailure, r.tableName, err)
	}
	if out.Item == nil {
		r.logger.Debugf("No item found in %s for %s", r.tableName, dal.CanonicalKey(key))
		return nil, nil
	}

	var entity T
	if err := attributevalue.UnmarshalMap(out.Item, &entity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item from %s: %w", r.tableName, err)
	}
	return &entity, nil
}

// Save replaces the row identified by the entity's key
func (r *DynamoDBRepository[T]) Save(ctx context.Context, entity T) error {
	item, err := r.marshal(entity)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	r.metrics.ObserveDB("PutItem", r.tableName, start, err)
	if err != nil {
		r.logger.Errorf("Failed to save item to %s: %v", r.tableName, err)
		return fmt.Errorf("%w: put item to %s: %w", dal.ErrStoreFailure, r.tableName, err)
	}

	r.logger.Infof("Saved item to %s", r.tableName)
	return nil
}

// Delete removes the row identified by the entity's key. A missing row is not an error.
func (r *DynamoDBRepository[T]) Delete(ctx context.Context, entity T) error {
	item, err := r.marshal(entity)
	if err != nil {
		return err
	}
	key, err := dal.KeyFromItem(r.schema, item)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	r.metrics.ObserveDB("DeleteItem", r.tableName, start, err)
	if err != nil {
		r.logger.Errorf("Failed to delete item from %s: %v", r.tableName, err)
		return fmt.Errorf("%w: delete item from %s: %w", dal.ErrStoreFailure, r.tableName, err)
	}

	r.logger.Infof("Deleted item from %s", r.tableName)
	return nil
}

// marshal encodes an entity and checks its key attributes
func (r *DynamoDBRepository[T]) marshal(entity T) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item for %s: %w", r.tableName, err)
	}
	if _, err := dal.KeyFromItem(r.schema, item); err != nil {
		r.logger.Errorf("Invalid key for %s: %v", r.tableName, err)
		return nil, err
	}
	return item, nil
}

func (r *DynamoDBRepository[T]) query(ctx context.Context, operation string, cond dal.KeyCondition) ([]T, error) {
	q, err := cond.Build(r.schema)
	if err != nil {
		r.logger.Errorf("%s on %s: %v", operation, r.tableName, err)
		return nil, err
	}

	start := time.Now()
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(r.api, q.Input(r.tableName))
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.metrics.ObserveDB(operation, r.tableName, start, err)
			r.logger.Errorf("%s on %s failed: %v", operation, r.tableName, err)
			return nil, fmt.Errorf("%w: query %s: %w", dal.ErrStoreFailure, r.tableName, err)
		}
		items = append(items, page.Items...)
	}
	r.metrics.ObserveDB(operation, r.tableName, start, nil)

	r.logger.Debugf("%s on %s (%s) returned %d items", operation, r.tableName, cond, len(items))
	return r.decode(items)
}

// scan reads the whole table, stopping early once limit rows are collected when limit > 0
func (r *DynamoDBRepository[T]) scan(ctx context.Context, operation string, limit int) ([]T, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if limit > 0 {
		input.Limit = aws.Int32(int32(min(limit, math.MaxInt32)))
	}

	start := time.Now()
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(r.api, input)
	for paginator.HasMorePages() {
		if limit > 0 && len(items) >= limit {
			break
		}
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.metrics.ObserveDB(operation, r.tableName, start, err)
			r.logger.Errorf("%s on %s failed: %v", operation, r.tableName, err)
			return nil, fmt.Errorf("%w: scan %s: %w", dal.ErrStoreFailure, r.tableName, err)
		}
		items = append(items, page.Items...)
	}
	r.metrics.ObserveDB(operation, r.tableName, start, nil)

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	r.logger.Debugf("%s on %s returned %d items", operation, r.tableName, len(items))
	return r.decode(items)
}

func (r *DynamoDBRepository[T]) decode(items []map[string]types.AttributeValue) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var entity T
		if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item from %s: %w", r.tableName, err)
		}
		out = append(out, entity)
	}
	return out, nil
}
