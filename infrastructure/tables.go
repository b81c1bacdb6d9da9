package infrastructure

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"nosql-repository-backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/tidwall/gjson"
)

// TableDefinition mirrors one entry of table_schema.json
type TableDefinition struct {
	TableName              string                 `json:"TableName"`
	AttributeDefinitions   []AttributeDefinition  `json:"AttributeDefinitions"`
	KeySchema              []KeySchemaElement     `json:"KeySchema"`
	ProvisionedThroughput  Throughput             `json:"ProvisionedThroughput"`
	GlobalSecondaryIndexes []GlobalSecondaryIndex `json:"GlobalSecondaryIndexes,omitempty"`
	LocalSecondaryIndexes  []LocalSecondaryIndex  `json:"LocalSecondaryIndexes,omitempty"`
}

type AttributeDefinition struct {
	AttributeName string `json:"AttributeName"`
	AttributeType string `json:"AttributeType"`
}

type KeySchemaElement struct {
	AttributeName string `json:"AttributeName"`
	KeyType       string `json:"KeyType"`
}

type Throughput struct {
	ReadCapacityUnits  int64 `json:"ReadCapacityUnits"`
	WriteCapacityUnits int64 `json:"WriteCapacityUnits"`
}

type GlobalSecondaryIndex struct {
	IndexName             string             `json:"IndexName"`
	KeySchema             []KeySchemaElement `json:"KeySchema"`
	Projection            Projection         `json:"Projection"`
	ProvisionedThroughput Throughput         `json:"ProvisionedThroughput"`
}

type LocalSecondaryIndex struct {
	IndexName  string             `json:"IndexName"`
	KeySchema  []KeySchemaElement `json:"KeySchema"`
	Projection Projection         `json:"Projection"`
}

type Projection struct {
	ProjectionType string `json:"ProjectionType"`
}

//go:embed table_schema.json
var tablesSchema []byte

// LogicalTableNames lists the tables table_schema.json defines
func LogicalTableNames() []string {
	var names []string
	gjson.ParseBytes(tablesSchema).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names
}

// GetTables returns the CreateTableInput for a physical table name. The
// environment suffix is stripped to find the definition, and configured
// capacities replace the defaults of the file.
func GetTables(tableName string, cfg *models.Config) (*dynamodb.CreateTableInput, error) {
	schemaKey := extractBaseTableName(tableName, cfg.DynamoDBTableSuffix)

	tableJSON := gjson.GetBytes(tablesSchema, gjson.Escape(schemaKey))
	if !tableJSON.Exists() {
		return nil, fmt.Errorf("table schema not found for key: %s", schemaKey)
	}

	var def TableDefinition
	if err := json.Unmarshal([]byte(tableJSON.Raw), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema JSON for %s: %w", schemaKey, err)
	}

	def.TableName = tableName
	if cfg.ReadCapacityUnits > 0 && cfg.WriteCapacityUnits > 0 {
		def.withCapacity(cfg.ReadCapacityUnits, cfg.WriteCapacityUnits)
	}
	return def.ToDynamoInput(), nil
}

// extractBaseTableName maps a physical name back to its schema key,
// e.g. "main_table_dev" with suffix "dev" becomes "main_table"
func extractBaseTableName(tableName, suffix string) string {
	if suffix == "" {
		return tableName
	}
	return strings.TrimSuffix(tableName, "_"+suffix)
}

func (td *TableDefinition) withCapacity(readUnits, writeUnits int64) {
	td.ProvisionedThroughput = Throughput{ReadCapacityUnits: readUnits, WriteCapacityUnits: writeUnits}
	for i := range td.GlobalSecondaryIndexes {
		td.GlobalSecondaryIndexes[i].ProvisionedThroughput = td.ProvisionedThroughput
	}
}

func keySchema(elems []KeySchemaElement) []types.KeySchemaElement {
	out := make([]types.KeySchemaElement, 0, len(elems))
	for _, k := range elems {
		out = append(out, types.KeySchemaElement{
			AttributeName: aws.String(k.AttributeName),
			KeyType:       types.KeyType(k.KeyType),
		})
	}
	return out
}

func throughput(t Throughput) *types.ProvisionedThroughput {
	return &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(t.ReadCapacityUnits),
		WriteCapacityUnits: aws.Int64(t.WriteCapacityUnits),
	}
}

// ToDynamoInput converts the definition to a DynamoDB request
func (td *TableDefinition) ToDynamoInput() *dynamodb.CreateTableInput {
	input := &dynamodb.CreateTableInput{
		TableName:             aws.String(td.TableName),
		KeySchema:             keySchema(td.KeySchema),
		BillingMode:           types.BillingModeProvisioned,
		ProvisionedThroughput: throughput(td.ProvisionedThroughput),
	}

	for _, a := range td.AttributeDefinitions {
		input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(a.AttributeName),
			AttributeType: types.ScalarAttributeType(a.AttributeType),
		})
	}
	for _, g := range td.GlobalSecondaryIndexes {
		input.GlobalSecondaryIndexes = append(input.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName:             aws.String(g.IndexName),
			KeySchema:             keySchema(g.KeySchema),
			Projection:            &types.Projection{ProjectionType: types.ProjectionType(g.Projection.ProjectionType)},
			ProvisionedThroughput: throughput(g.ProvisionedThroughput),
		})
	}
	for _, l := range td.LocalSecondaryIndexes {
		input.LocalSecondaryIndexes = append(input.LocalSecondaryIndexes, types.LocalSecondaryIndex{
			IndexName:  aws.String(l.IndexName),
			KeySchema:  keySchema(l.KeySchema),
			Projection: &types.Projection{ProjectionType: types.ProjectionType(l.Projection.ProjectionType)},
		})
	}
	return input
}
