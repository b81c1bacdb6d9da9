// Package memstore is an in-process DynamoDB-compatible store. It implements
// the subset of the DynamoDB API the repositories use and is selected with the
// "memory" endpoint for local runs and tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/btree"
)

const (
	maxBatchGetKeys   = 100
	maxTransactItems  = 100
	btreeDegree       = 8
	validationErrCode = "ValidationException"
)

// Store holds tables in memory. The zero value is not usable, use New.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table

	// BatchGetLimit caps the keys served by one BatchGetItem call. Keys past the
	// cap are returned as UnprocessedKeys. Zero serves every key.
	BatchGetLimit int
}

// New returns an empty store
func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

type keyDef struct {
	pk     string
	pkType types.ScalarAttributeType
	sk     string
	skType types.ScalarAttributeType
}

type table struct {
	name        string
	key         keyDef
	indexes     map[string]keyDef
	partitions  map[string]*btree.BTreeG[*row]
	description types.TableDescription
}

type row struct {
	sortKey types.AttributeValue
	item    map[string]types.AttributeValue
}

func newTable(input *dynamodb.CreateTableInput) (*table, error) {
	attrTypes := make(map[string]types.ScalarAttributeType, len(input.AttributeDefinitions))
	for _, def := range input.AttributeDefinitions {
		attrTypes[aws.ToString(def.AttributeName)] = def.AttributeType
	}

	key, err := keyDefFrom(input.KeySchema, attrTypes)
	if err != nil {
		return nil, err
	}

	t := &table{
		name:       aws.ToString(input.TableName),
		key:        key,
		indexes:    make(map[string]keyDef),
		partitions: make(map[string]*btree.BTreeG[*row]),
	}

	desc := types.TableDescription{
		TableName:            input.TableName,
		TableArn:             aws.String("arn:aws:dynamodb:local:000000000000:table/" + t.name),
		TableStatus:          types.TableStatusActive,
		KeySchema:            input.KeySchema,
		AttributeDefinitions: input.AttributeDefinitions,
		CreationDateTime:     aws.Time(time.Now()),
	}

	for _, gsi := range input.GlobalSecondaryIndexes {
		def, err := keyDefFrom(gsi.KeySchema, attrTypes)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", aws.ToString(gsi.IndexName), err)
		}
		t.indexes[aws.ToString(gsi.IndexName)] = def
		desc.GlobalSecondaryIndexes = append(desc.GlobalSecondaryIndexes, types.GlobalSecondaryIndexDescription{
			IndexName:   gsi.IndexName,
			KeySchema:   gsi.KeySchema,
			Projection:  gsi.Projection,
			IndexStatus: types.IndexStatusActive,
		})
	}
	for _, lsi := range input.LocalSecondaryIndexes {
		def, err := keyDefFrom(lsi.KeySchema, attrTypes)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", aws.ToString(lsi.IndexName), err)
		}
		if def.pk != key.pk {
			return nil, validationError("local index %s must use partition key %s", aws.ToString(lsi.IndexName), key.pk)
		}
		t.indexes[aws.ToString(lsi.IndexName)] = def
		desc.LocalSecondaryIndexes = append(desc.LocalSecondaryIndexes, types.LocalSecondaryIndexDescription{
			IndexName:  lsi.IndexName,
			KeySchema:  lsi.KeySchema,
			Projection: lsi.Projection,
		})
	}
	t.description = desc
	return t, nil
}

func keyDefFrom(schema []types.KeySchemaElement, attrTypes map[string]types.ScalarAttributeType) (keyDef, error) {
	var def keyDef
	for _, el := range schema {
		name := aws.ToString(el.AttributeName)
		attrType, ok := attrTypes[name]
		if !ok {
			return keyDef{}, validationError("key attribute %s has no attribute definition", name)
		}
		switch el.KeyType {
		case types.KeyTypeHash:
			def.pk, def.pkType = name, attrType
		case types.KeyTypeRange:
			def.sk, def.skType = name, attrType
		}
	}
	if def.pk == "" {
		return keyDef{}, validationError("key schema has no HASH key")
	}
	return def, nil
}

func (t *table) partition(pk types.AttributeValue) *btree.BTreeG[*row] {
	id := encodeValue(pk)
	p, ok := t.partitions[id]
	if !ok {
		p = btree.NewG(btreeDegree, func(a, b *row) bool {
			if a.sortKey == nil || b.sortKey == nil {
				return false
			}
			return compareValues(a.sortKey, b.sortKey) < 0
		})
		t.partitions[id] = p
	}
	return p
}

func (t *table) itemCount() int64 {
	var n int64
	for _, p := range t.partitions {
		n += int64(p.Len())
	}
	return n
}

// rows returns every row in partition order, then sort key order
func (t *table) rows() []*row {
	ids := make([]string, 0, len(t.partitions))
	for id := range t.partitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*row
	for _, id := range ids {
		t.partitions[id].Ascend(func(r *row) bool {
			out = append(out, r)
			return true
		})
	}
	return out
}

func (s *Store) getTable(name *string) (*table, error) {
	if name == nil {
		return nil, validationError("table name is required")
	}
	t, ok := s.tables[*name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found: Table: " + *name + " not found")}
	}
	return t, nil
}

// CreateTable creates a table and its indexes. The table is ACTIVE immediately.
func (s *Store) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params == nil || params.TableName == nil {
		return nil, validationError("table name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[*params.TableName]; exists {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + *params.TableName)}
	}
	t, err := newTable(params)
	if err != nil {
		return nil, err
	}
	s.tables[t.name] = t

	desc := t.description
	return &dynamodb.CreateTableOutput{TableDescription: &desc}, nil
}

// DescribeTable describes a table
func (s *Store) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params == nil {
		return nil, validationError("params is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	desc := t.description
	desc.ItemCount = aws.Int64(t.itemCount())
	return &dynamodb.DescribeTableOutput{Table: &desc}, nil
}

func validationError(format string, args ...any) error {
	return &smithy.GenericAPIError{
		Code:    validationErrCode,
		Message: fmt.Sprintf(format, args...),
		Fault:   smithy.FaultClient,
	}
}
