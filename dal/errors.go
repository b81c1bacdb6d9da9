package dal

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrUnsupportedKeyType is returned when a key value cannot be encoded as S, N or B
	ErrUnsupportedKeyType = errors.New("unsupported key type")
	// ErrMissingKey is returned when an entity lacks a key attribute its schema declares
	ErrMissingKey = errors.New("missing key attribute")
	// ErrUnknownIndex is returned when a lookup names an index the schema does not declare
	ErrUnknownIndex = errors.New("unknown index")
	// ErrInvalidCondition is returned for key conditions the target key schema cannot express
	ErrInvalidCondition = errors.New("invalid key condition")
	// ErrStoreFailure wraps errors returned by the store client
	ErrStoreFailure = errors.New("store failure")
	// ErrTransactionAborted is returned when the store cancels a transactional write
	ErrTransactionAborted = errors.New("transaction aborted")
	// ErrTransactionTooLarge is returned when a transaction exceeds MaxTransactItems
	ErrTransactionTooLarge = errors.New("transaction too large")
	// ErrBatchIncomplete is returned when a batch read leaves keys unprocessed
	ErrBatchIncomplete = errors.New("batch read incomplete")
)

const (
	// MaxTransactItems is the store's limit on items in one transactional write
	MaxTransactItems = 100
	// MaxBatchGetKeys is the store's limit on keys in one batch read request
	MaxBatchGetKeys = 100
)

// IsTableNotFound reports whether err is the store's missing-table error
func IsTableNotFound(err error) bool {
	return hasErrorCode(err, "ResourceNotFoundException")
}

// IsResourceInUse reports whether err says the table already exists or is busy
func IsResourceInUse(err error) bool {
	return hasErrorCode(err, "ResourceInUseException")
}

// IsTransactionCanceled reports whether err is a cancelled transactional write
func IsTransactionCanceled(err error) bool {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return true
	}
	return hasErrorCode(err, "TransactionCanceledException")
}

func hasErrorCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == code
	}
	return false
}
