package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
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

// BatchResource is one entity type plus the keys to read for it
type BatchResource struct {
	schema dal.TableSchema
	keys   []models.PrimaryKey
	decode func([]map[string]types.AttributeValue) (any, error)
}

// NewBatchResource requests keys from T's table
func NewBatchResource[T dal.TableEntity](keys ...models.PrimaryKey) BatchResource {
	var zero T
	return BatchResource{
		schema: zero.Schema(),
		keys:   keys,
		decode: func(items []map[string]types.AttributeValue) (any, error) {
			out := make([]T, 0, len(items))
			for _, item := range items {
				var entity T
				if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
					return nil, fmt.Errorf("failed to unmarshal batch item: %w", err)
				}
				out = append(out, entity)
			}
			return out, nil
		},
	}
}

// BatchResponse holds the rows found for one BatchResource, in request order
type BatchResponse struct {
	TableName string
	Items     any
}

// ItemsOf returns the typed rows of a response built by NewBatchResource[T].
// It returns nil when the response holds another type.
func ItemsOf[T dal.TableEntity](resp BatchResponse) []T {
	items, _ := resp.Items.([]T)
	return items
}

// PartialBatchError reports keys the store left unprocessed. Responses
// returned alongside it hold every row that was read.
type PartialBatchError struct {
	Unprocessed map[string]int
}

func (e *PartialBatchError) Error() string {
	tables := make([]string, 0, len(e.Unprocessed))
	for table, n := range e.Unprocessed {
		tables = append(tables, fmt.Sprintf("%s=%d", table, n))
	}
	sort.Strings(tables)
	return fmt.Sprintf("%s: unprocessed keys %s", dal.ErrBatchIncomplete, strings.Join(tables, ", "))
}

func (e *PartialBatchError) Unwrap() error {
	return dal.ErrBatchIncomplete
}

// Count returns the number of unprocessed keys across tables
func (e *PartialBatchError) Count() int {
	n := 0
	for _, c := range e.Unprocessed {
		n += c
	}
	return n
}

// DynamoDBEnhancedRepository runs transactional writes and batch reads
// across entity tables
type DynamoDBEnhancedRepository struct {
	api     dal.DynamoDBAPI
	suffix  string
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewDynamoDBEnhancedRepository creates an enhanced repository for the tables of one environment
func NewDynamoDBEnhancedRepository(api dal.DynamoDBAPI, suffix string, log logger.Logger, m *metrics.Metrics) *DynamoDBEnhancedRepository {
	return &DynamoDBEnhancedRepository{
		api:     api,
		suffix:  suffix,
		logger:  log,
		metrics: m,
	}
}

// SaveInTransaction puts every item atomically. Either all rows are written or none.
func (r *DynamoDBEnhancedRepository) SaveInTransaction(ctx context.Context, items ...dal.TableEntity) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > dal.MaxTransactItems {
		return fmt.Errorf("%w: %d items, limit is %d", dal.ErrTransactionTooLarge, len(items), dal.MaxTransactItems)
	}

	writes := make([]types.TransactWriteItem, 0, len(items))
	for i, entity := range items {
		schema := entity.Schema()
		item, err := attributevalue.MarshalMap(entity)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction item %d: %w", i, err)
		}
		if _, err := dal.KeyFromItem(schema, item); err != nil {
			return fmt.Errorf("transaction item %d: %w", i, err)
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(dal.PhysicalTableName(schema.TableName, r.suffix)),
				Item:      item,
			},
		})
	}

	start := time.Now()
	_, err := r.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	r.metrics.ObserveDB("TransactWriteItems", "*", start, err)
	if err != nil {
		r.logger.Errorf("Transaction of %d items failed: %v", len(writes), err)
		if dal.IsTransactionCanceled(err) {
			return fmt.Errorf("%w: %w", dal.ErrTransactionAborted, err)
		}
		return fmt.Errorf("%w: transact write: %w", dal.ErrStoreFailure, err)
	}

	r.logger.Infof("Saved %d items in transaction", len(writes))
	return nil
}

type batchTable struct {
	schema dal.TableSchema
	seen   map[string]bool
}

type batchKey struct {
	table string
	key   map[string]types.AttributeValue
}

// BatchGetItems reads the keys of every resource, splitting the request into
// store-sized chunks. Duplicate keys are read once. Absent rows are skipped.
// When the store leaves keys unprocessed the responses are still returned
// together with a *PartialBatchError.
func (r *DynamoDBEnhancedRepository) BatchGetItems(ctx context.Context, resources []BatchResource) ([]BatchResponse, error) {
	tables := make(map[string]*batchTable)
	requested := make([][]string, len(resources))
	var pending []batchKey

	for i, res := range resources {
		name := dal.PhysicalTableName(res.schema.TableName, r.suffix)
		bt, ok := tables[name]
		if !ok {
			bt = &batchTable{schema: res.schema, seen: make(map[string]bool)}
			tables[name] = bt
		}
		for j, k := range res.keys {
			key, err := dal.PrimaryKeyMap(res.schema, k)
			if err != nil {
				return nil, fmt.Errorf("resource %d key %d: %w", i, j, err)
			}
			id := dal.CanonicalKey(key)
			requested[i] = append(requested[i], id)
			if !bt.seen[id] {
				bt.seen[id] = true
				pending = append(pending, batchKey{table: name, key: key})
			}
		}
	}

	found := make(map[string]map[string]map[string]types.AttributeValue)
	unprocessed := make(map[string]int)
	start := time.Now()

	for len(pending) > 0 {
		n := min(len(pending), dal.MaxBatchGetKeys)
		chunk := pending[:n]
		pending = pending[n:]

		request := make(map[string]types.KeysAndAttributes)
		for _, p := range chunk {
			ka := request[p.table]
			ka.Keys = append(ka.Keys, p.key)
			request[p.table] = ka
		}

		out, err := r.api.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			r.metrics.ObserveDB("BatchGetItem", "*", start, err)
			r.logger.Errorf("Batch read failed: %v", err)
			return nil, fmt.Errorf("%w: batch get: %w", dal.ErrStoreFailure, err)
		}

		for name, items := range out.Responses {
			bt, ok := tables[name]
			if !ok {
				continue
			}
			if found[name] == nil {
				found[name] = make(map[string]map[string]types.AttributeValue)
			}
			for _, item := range items {
				key, err := dal.KeyFromItem(bt.schema, item)
				if err != nil {
					return nil, fmt.Errorf("batch response from %s: %w", name, err)
				}
				found[name][dal.CanonicalKey(key)] = item
			}
		}
		for name, ka := range out.UnprocessedKeys {
			unprocessed[name] += len(ka.Keys)
		}
	}
	r.metrics.ObserveDB("BatchGetItem", "*", start, nil)

	responses := make([]BatchResponse, len(resources))
	for i, res := range resources {
		name := dal.PhysicalTableName(res.schema.TableName, r.suffix)
		var items []map[string]types.AttributeValue
		for _, id := range requested[i] {
			if item, ok := found[name][id]; ok {
				items = append(items, item)
			}
		}
		decoded, err := res.decode(items)
		if err != nil {
			return nil, err
		}
		responses[i] = BatchResponse{TableName: name, Items: decoded}
	}

	if len(unprocessed) > 0 {
		perr := &PartialBatchError{Unprocessed: unprocessed}
		r.logger.Warnf("Batch read incomplete: %v", perr)
		return responses, perr
	}
	return responses, nil
}

// IsPartialBatch reports whether err is a *PartialBatchError
func IsPartialBatch(err error) bool {
	var perr *PartialBatchError
	return errors.As(err, &perr)
}
