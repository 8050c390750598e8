package dynamodb

import (
	"fmt"
	"time"

	"productcatalog/domain/core/entities"
	"productcatalog/domain/core/valueobjects"
	pkgerrors "productcatalog/pkg/errors"
	"productcatalog/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key layout of the single product table
const (
	ProductPartitionKey = "PRODUCT"
	NameSortKeyPrefix   = "NAME#"

	AttrPK          = "PK"
	AttrSK          = "SK"
	AttrID          = "id"
	AttrName        = "name"
	AttrDescription = "description"
	AttrUpdateTime  = "updateTime"
)

// ProductItem represents the DynamoDB item structure for a product
type ProductItem struct {
	PK          string `dynamodbav:"PK" json:"PK"`
	SK          string `dynamodbav:"SK" json:"SK"`
	ID          string `dynamodbav:"id" json:"id"`
	Name        string `dynamodbav:"name" json:"name"`
	Description string `dynamodbav:"description" json:"description"`
	UpdateTime  string `dynamodbav:"updateTime" json:"updateTime"`
}

// NameSortKey returns the sort key that claims a product name
func NameSortKey(name string) string {
	return NameSortKeyPrefix + name
}

// ToItem builds the stored item for a product
func ToItem(product *entities.Product, updateTime time.Time) ProductItem {
	return ProductItem{
		PK:          ProductPartitionKey,
		SK:          NameSortKey(product.Name()),
		ID:          product.ID().String(),
		Name:        product.Name(),
		Description: product.Description(),
		UpdateTime:  utils.FormatISO(updateTime),
	}
}

// ToProduct rebuilds the product carried by a decoded item
func (i ProductItem) ToProduct() (*entities.Product, error) {
	if i.ID == "" {
		return nil, &pkgerrors.MalformedRecordError{Field: AttrID, Reason: "is empty"}
	}
	if i.Name == "" {
		return nil, &pkgerrors.MalformedRecordError{Field: AttrName, Reason: "is empty"}
	}

	id, err := valueobjects.ProductIDFromString(i.ID)
	if err != nil {
		return nil, &pkgerrors.MalformedRecordError{Field: AttrID, Reason: err.Error()}
	}

	product, err := entities.NewProduct(id, i.Name, i.Description)
	if err != nil {
		return nil, &pkgerrors.MalformedRecordError{Field: AttrName, Reason: err.Error()}
	}
	return product, nil
}

// FromItem decodes a stored item into a product.
// id, name and description must be present string attributes; description may be empty.
func FromItem(item map[string]types.AttributeValue) (*entities.Product, error) {
	id, err := stringAttr(item, AttrID)
	if err != nil {
		return nil, err
	}
	name, err := stringAttr(item, AttrName)
	if err != nil {
		return nil, err
	}
	description, err := stringAttr(item, AttrDescription)
	if err != nil {
		return nil, err
	}

	return ProductItem{ID: id, Name: name, Description: description}.ToProduct()
}

func stringAttr(item map[string]types.AttributeValue, field string) (string, error) {
	av, ok := item[field]
	if !ok || av == nil {
		return "", &pkgerrors.MalformedRecordError{Field: field, Reason: "is missing"}
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", &pkgerrors.MalformedRecordError{Field: field, Reason: fmt.Sprintf("has unexpected type %T", av)}
	}
	return s.Value, nil
}
