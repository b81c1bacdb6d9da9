package entity

import (
	"nosql-repository-backend/dal"
	"nosql-repository-backend/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// MainTableName is the logical name of the table holding orders and users
	MainTableName = "main_table"
	// ProductNameIndex is a GSI partitioned by product name
	ProductNameIndex = "ProductNameGSI"
	// EmailIndex is an LSI sorted by the ordering user's email
	EmailIndex = "EmailLSI"

	// OrderPartition is the partition key shared by every order row
	OrderPartition = "ORDER"
	// UserPartition is the partition key shared by every user row
	UserPartition = "USER"
)

// MainTableEntity is a single-table row. Orders and users share the table and
// are told apart by their partition key.
type MainTableEntity struct {
	PK          string  `dynamodbav:"pk"`
	SK          string  `dynamodbav:"sk"`
	ProductName string  `dynamodbav:"productName,omitempty"`
	EmailLsiSk  string  `dynamodbav:"emailLsiSk,omitempty"`
	Amount      *int    `dynamodbav:"amount,omitempty"`
	Place       *int    `dynamodbav:"place,omitempty"`
	UserName    *string `dynamodbav:"userName,omitempty"`
	Age         *int    `dynamodbav:"age,omitempty"`
}

// Schema describes the main table key layout
func (MainTableEntity) Schema() dal.TableSchema {
	return dal.TableSchema{
		TableName:    MainTableName,
		PartitionKey: dal.KeyAttribute{Name: "pk", Type: types.ScalarAttributeTypeS},
		SortKey:      &dal.KeyAttribute{Name: "sk", Type: types.ScalarAttributeTypeS},
		GlobalIndexes: []dal.IndexSchema{
			{
				Name:         ProductNameIndex,
				PartitionKey: dal.KeyAttribute{Name: "productName", Type: types.ScalarAttributeTypeS},
			},
		},
		LocalIndexes: []dal.IndexSchema{
			{
				Name:    EmailIndex,
				SortKey: &dal.KeyAttribute{Name: "emailLsiSk", Type: types.ScalarAttributeTypeS},
			},
		},
	}
}

// NewOrderEntity maps an order onto its row
func NewOrderEntity(o models.Order) MainTableEntity {
	amount, place := o.Amount, o.Place
	return MainTableEntity{
		PK:          OrderPartition,
		SK:          o.ID,
		ProductName: o.ProductName,
		EmailLsiSk:  o.Email,
		Amount:      &amount,
		Place:       &place,
	}
}

// ToOrder maps a row back onto an order. Missing numbers read as zero.
func (e MainTableEntity) ToOrder() models.Order {
	return models.Order{
		ID:          e.SK,
		ProductName: e.ProductName,
		Email:       e.EmailLsiSk,
		Amount:      intOrZero(e.Amount),
		Place:       intOrZero(e.Place),
	}
}

// NewUserEntity maps a user onto its row
func NewUserEntity(u models.User) MainTableEntity {
	name, age := u.Name, u.Age
	return MainTableEntity{
		PK:       UserPartition,
		SK:       u.Email,
		UserName: &name,
		Age:      &age,
	}
}

// ToUser maps a row back onto a user
func (e MainTableEntity) ToUser() models.User {
	user := models.User{Email: e.SK, Age: intOrZero(e.Age)}
	if e.UserName != nil {
		user.Name = *e.UserName
	}
	return user
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
