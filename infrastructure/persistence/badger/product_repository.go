package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"productcatalog/application/ports"
	"productcatalog/domain/core/entities"
	"productcatalog/domain/core/valueobjects"
	ddb "productcatalog/infrastructure/persistence/dynamodb"
	pkgerrors "productcatalog/pkg/errors"
	"productcatalog/pkg/observability"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// ProductRepository implements ports.ProductRepository on an embedded Badger database.
// It keeps the DynamoDB key layout: the item lives under its name key and a second
// key maps the product id to that name key, both written in one transaction.
type ProductRepository struct {
	db        *badger.DB
	tableName string
	indexName string
	ids       valueobjects.IDGenerator
	metrics   observability.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *badger.DB, tableName, indexName string, ids valueobjects.IDGenerator, metrics observability.Recorder, logger *zap.Logger) *ProductRepository {
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
		db:        db,
		tableName: tableName,
		indexName: indexName,
		ids:       ids,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) itemKey(name string) []byte {
	return []byte(r.tableName + "#" + ddb.ProductPartitionKey + "#" + ddb.NameSortKey(name))
}

func (r *ProductRepository) indexKey(id string) []byte {
	return []byte(r.tableName + "#" + r.indexName + "#" + id)
}

// CreateProduct stores a new product unless its name is already claimed
func (r *ProductRepository) CreateProduct(ctx context.Context, in ports.NewProduct) (*entities.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, &pkgerrors.StorageWriteError{Operation: "Update", Cause: err}
	}

	product, err := entities.NewProduct(r.ids.NewID(), in.Name, in.Description)
	if err != nil {
		return nil, err
	}

	value, err := json.Marshal(ddb.ToItem(product, r.now()))
	if err != nil {
		return nil, &pkgerrors.StorageWriteError{Operation: "Update", Cause: fmt.Errorf("failed to marshal product: %w", err)}
	}

	itemKey := r.itemKey(product.Name())
	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(itemKey)
		if err == nil {
			return &pkgerrors.DuplicateNameError{Name: in.Name}
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(itemKey, value); err != nil {
			return err
		}
		return txn.Set(r.indexKey(product.ID().String()), itemKey)
	})
	if err != nil {
		var dup *pkgerrors.DuplicateNameError
		switch {
		case errors.As(err, &dup):
			return nil, dup
		case errors.Is(err, badger.ErrConflict):
			// a concurrent transaction committed the same name key first
			return nil, &pkgerrors.DuplicateNameError{Name: in.Name}
		default:
			r.metrics.Count(ctx, observability.MetricSaveProductFailure)
			return nil, &pkgerrors.StorageWriteError{Operation: "Update", Cause: err}
		}
	}
	r.metrics.Count(ctx, observability.MetricSaveProduct)

	r.logger.Debug("Product stored",
		zap.String("productID", product.ID().String()),
		zap.String("name", product.Name()),
	)

	return product, nil
}

// GetProductByID resolves the id through the index key and decodes the item
func (r *ProductRepository) GetProductByID(ctx context.Context, id valueobjects.ProductID) (*entities.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, &pkgerrors.StorageReadError{Operation: "View", Cause: err}
	}

	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		ref, err := txn.Get(r.indexKey(id.String()))
		if err != nil {
			return err
		}
		itemKey, err := ref.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err := txn.Get(itemKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		r.metrics.Count(ctx, observability.MetricGetProductFailure)
		return nil, &pkgerrors.StorageReadError{Operation: "View", Cause: err}
	}
	r.metrics.Count(ctx, observability.MetricGetProduct)
	if err != nil {
		return nil, &pkgerrors.ProductNotFoundError{ID: id.String()}
	}

	return decodeItem(raw)
}

// Name implements ports.HealthChecker
func (r *ProductRepository) Name() string {
	return "badger"
}

// Check implements ports.HealthChecker
func (r *ProductRepository) Check(ctx context.Context) error {
	if r.db.IsClosed() {
		return &pkgerrors.StorageReadError{Operation: "View", Cause: errors.New("database is closed")}
	}
	return nil
}

func decodeItem(raw []byte) (*entities.Product, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &pkgerrors.MalformedRecordError{Field: "item", Reason: err.Error()}
	}

	var item ddb.ProductItem
	for _, field := range []struct {
		name string
		dst  *string
	}{
		{ddb.AttrID, &item.ID},
		{ddb.AttrName, &item.Name},
		{ddb.AttrDescription, &item.Description},
	} {
		value, ok := fields[field.name]
		if !ok {
			return nil, &pkgerrors.MalformedRecordError{Field: field.name, Reason: "is missing"}
		}
		// null unmarshals into a string without error
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return nil, &pkgerrors.MalformedRecordError{Field: field.name, Reason: "is not a string"}
		}
		if err := json.Unmarshal(value, field.dst); err != nil {
			return nil, &pkgerrors.MalformedRecordError{Field: field.name, Reason: "is not a string"}
		}
	}

	return item.ToProduct()
}
