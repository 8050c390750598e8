package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productcatalog/application/ports"
	"productcatalog/domain/core/entities"
	"productcatalog/domain/core/valueobjects"
	pkgerrors "productcatalog/pkg/errors"
	"productcatalog/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// ProductRepository implements ports.ProductRepository on a single DynamoDB table.
// Names are claimed by the item key PK=PRODUCT, SK=NAME#<name>; lookups by id go through
// a global secondary index keyed on the id attribute.
type ProductRepository struct {
	client    API
	tableName string
	indexName string
	ids       valueobjects.IDGenerator
	metrics   observability.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(client API, tableName, indexName string, ids valueobjects.IDGenerator, metrics observability.Recorder, logger *zap.Logger) *ProductRepository {
	if ids == nil {
		ids = valueobjects.UUIDv7Generator{}
	}
	if metrics == nil {
		metrics = observability.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		ids:       ids,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

// CreateProduct stores a new product with a conditional write on its name key
func (r *ProductRepository) CreateProduct(ctx context.Context, in ports.NewProduct) (*entities.Product, error) {
	product, err := entities.NewProduct(r.ids.NewID(), in.Name, in.Description)
	if err != nil {
		return nil, err
	}

	av, err := attributevalue.MarshalMap(ToItem(product, r.now()))
	if err != nil {
		return nil, &pkgerrors.StorageWriteError{Operation: "PutItem", Cause: fmt.Errorf("failed to marshal product: %w", err)}
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(AttrPK))).
		Build()
	if err != nil {
		return nil, &pkgerrors.StorageWriteError{Operation: "PutItem", Cause: fmt.Errorf("failed to build condition: %w", err)}
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			r.logger.Debug("Product name already taken",
				zap.String("name", in.Name),
			)
			return nil, &pkgerrors.DuplicateNameError{Name: in.Name}
		}
		r.metrics.Count(ctx, observability.MetricSaveProductFailure)
		return nil, &pkgerrors.StorageWriteError{Operation: "PutItem", Code: apiErrorCode(err), Cause: err}
	}
	r.metrics.Count(ctx, observability.MetricSaveProduct)

	r.logger.Debug("Product stored",
		zap.String("productID", product.ID().String()),
		zap.String("name", product.Name()),
	)

	return product, nil
}

// GetProductByID looks a product up through the id index
func (r *ProductRepository) GetProductByID(ctx context.Context, id valueobjects.ProductID) (*entities.Product, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(AttrID).Equal(expression.Value(id.String()))).
		Build()
	if err != nil {
		return nil, &pkgerrors.StorageReadError{Operation: "Query", Cause: fmt.Errorf("failed to build key condition: %w", err)}
	}

	// Two is enough to notice a second item sharing the id.
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(2),
	})
	if err != nil {
		r.metrics.Count(ctx, observability.MetricGetProductFailure)
		return nil, &pkgerrors.StorageReadError{Operation: "Query", Code: apiErrorCode(err), Cause: err}
	}
	r.metrics.Count(ctx, observability.MetricGetProduct)

	if len(result.Items) == 0 {
		return nil, &pkgerrors.ProductNotFoundError{ID: id.String()}
	}
	if len(result.Items) > 1 {
		r.logger.Warn("Multiple products share one id, using the first",
			zap.String("productID", id.String()),
			zap.Int("count", len(result.Items)),
		)
	}

	return FromItem(result.Items[0])
}

// Name implements ports.HealthChecker
func (r *ProductRepository) Name() string {
	return "dynamodb"
}

// Check implements ports.HealthChecker by describing the product table
func (r *ProductRepository) Check(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return &pkgerrors.StorageReadError{Operation: "DescribeTable", Code: apiErrorCode(err), Cause: err}
	}
	return nil
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
