package infrastructure

import (
	"context"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DescribeTables reports the current state of each table. A table that cannot
// be described is reported with its error instead of failing the whole call.
func DescribeTables(ctx context.Context, api dal.DynamoDBAPI, tableNames []string) []models.TableStatus {
	statuses := make([]models.TableStatus, 0, len(tableNames))
	for _, name := range tableNames {
		status := models.TableStatus{Name: name, CheckedAt: time.Now().UTC()}

		out, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		switch {
		case err != nil && dal.IsTableNotFound(err):
			status.Status = "MISSING"
		case err != nil:
			status.Status = "UNKNOWN"
			status.Error = err.Error()
		default:
			status.Status = string(out.Table.TableStatus)
			status.ItemCount = aws.ToInt64(out.Table.ItemCount)
			status.IndexCount = len(out.Table.GlobalSecondaryIndexes) + len(out.Table.LocalSecondaryIndexes)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// PhysicalTableNames applies the environment suffix to the configured tables
func PhysicalTableNames(cfg *models.Config) []string {
	names := make([]string, 0, len(cfg.Tables))
	for _, table := range cfg.Tables {
		names = append(names, dal.PhysicalTableName(table, cfg.DynamoDBTableSuffix))
	}
	return names
}
