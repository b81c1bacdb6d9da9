package dal

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KeyAttribute names a key attribute and its scalar type
type KeyAttribute struct {
	Name string
	Type types.ScalarAttributeType
}

// IndexSchema describes a secondary index. Local indexes share the table's
// partition key, so PartitionKey is ignored for them.
type IndexSchema struct {
	Name         string
	PartitionKey KeyAttribute
	SortKey      *KeyAttribute
}

// TableSchema is the key layout of an entity's table
type TableSchema struct {
	// TableName is the logical name. The physical name adds the environment suffix.
	TableName     string
	PartitionKey  KeyAttribute
	SortKey       *KeyAttribute
	GlobalIndexes []IndexSchema
	LocalIndexes  []IndexSchema
}

// TableEntity is implemented by every persisted row type. Schema must be
// callable on the zero value.
type TableEntity interface {
	Schema() TableSchema
}

// IndexKind selects global or local secondary indexes
type IndexKind int

const (
	GlobalIndex IndexKind = iota
	LocalIndex
)

func (k IndexKind) String() string {
	if k == LocalIndex {
		return "LSI"
	}
	return "GSI"
}

// PhysicalTableName returns the table name for an environment suffix
func PhysicalTableName(logical, suffix string) string {
	if suffix == "" {
		return logical
	}
	return logical + "_" + suffix
}

// Index resolves a named index of the given kind to its effective key attributes
func (s TableSchema) Index(kind IndexKind, name string) (IndexSchema, bool) {
	indexes := s.GlobalIndexes
	if kind == LocalIndex {
		indexes = s.LocalIndexes
	}
	for _, idx := range indexes {
		if idx.Name != name {
			continue
		}
		if kind == LocalIndex {
			idx.PartitionKey = s.PartitionKey
		}
		return idx, true
	}
	return IndexSchema{}, false
}

// KeyAttributes returns the base table key attribute names
func (s TableSchema) KeyAttributes() []KeyAttribute {
	attrs := []KeyAttribute{s.PartitionKey}
	if s.SortKey != nil {
		attrs = append(attrs, *s.SortKey)
	}
	return attrs
}

// SortKeyName returns the sort key attribute name, or "" when the table has none
func (s TableSchema) SortKeyName() string {
	if s.SortKey == nil {
		return ""
	}
	return s.SortKey.Name
}

// CreateTableInput derives a provisioned-throughput table definition from the schema
func (s TableSchema) CreateTableInput(tableName string, readUnits, writeUnits int64) *dynamodb.CreateTableInput {
	throughput := &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(readUnits),
		WriteCapacityUnits: aws.Int64(writeUnits),
	}

	attrTypes := map[string]types.ScalarAttributeType{}
	var order []string
	declare := func(attr KeyAttribute) {
		if _, ok := attrTypes[attr.Name]; !ok {
			order = append(order, attr.Name)
		}
		attrTypes[attr.Name] = attr.Type
	}
	keySchema := func(pk KeyAttribute, sk *KeyAttribute) []types.KeySchemaElement {
		declare(pk)
		elems := []types.KeySchemaElement{{AttributeName: aws.String(pk.Name), KeyType: types.KeyTypeHash}}
		if sk != nil {
			declare(*sk)
			elems = append(elems, types.KeySchemaElement{AttributeName: aws.String(sk.Name), KeyType: types.KeyTypeRange})
		}
		return elems
	}

	input := &dynamodb.CreateTableInput{
		TableName:             aws.String(tableName),
		KeySchema:             keySchema(s.PartitionKey, s.SortKey),
		BillingMode:           types.BillingModeProvisioned,
		ProvisionedThroughput: throughput,
	}
	for _, idx := range s.GlobalIndexes {
		input.GlobalSecondaryIndexes = append(input.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName:             aws.String(idx.Name),
			KeySchema:             keySchema(idx.PartitionKey, idx.SortKey),
			Projection:            &types.Projection{ProjectionType: types.ProjectionTypeAll},
			ProvisionedThroughput: throughput,
		})
	}
	for _, idx := range s.LocalIndexes {
		input.LocalSecondaryIndexes = append(input.LocalSecondaryIndexes, types.LocalSecondaryIndex{
			IndexName:  aws.String(idx.Name),
			KeySchema:  keySchema(s.PartitionKey, idx.SortKey),
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}
	for _, name := range order {
		input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: attrTypes[name],
		})
	}
	return input
}
