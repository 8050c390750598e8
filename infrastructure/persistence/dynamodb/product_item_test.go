package dynamodb

import (
	"testing"
	"time"

	"productcatalog/domain/core/entities"
	"productcatalog/domain/core/valueobjects"
	pkgerrors "productcatalog/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, id, name, description string) *entities.Product {
	t.Helper()
	pid, err := valueobjects.ProductIDFromString(id)
	require.NoError(t, err)
	p, err := entities.NewProduct(pid, name, description)
	require.NoError(t, err)
	return p
}

func TestToItem(t *testing.T) {
	p := newTestProduct(t, "01890a5d-ac96-774b-bcce-b302099a8057", "Widget", "A widget")
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)

	item := ToItem(p, ts)

	assert.Equal(t, ProductItem{
		PK:          "PRODUCT",
		SK:          "NAME#Widget",
		ID:          "01890a5d-ac96-774b-bcce-b302099a8057",
		Name:        "Widget",
		Description: "A widget",
		UpdateTime:  "2024-01-02T03:04:05.006Z",
	}, item)
	assert.Equal(t, item, ToItem(p, ts))
}

func TestFromItem_RoundTrip(t *testing.T) {
	products := []*entities.Product{
		newTestProduct(t, "p-1", "Widget", "A widget"),
		newTestProduct(t, "p-2", "Gadget", ""),
		newTestProduct(t, "p-3", "名前 with spaces # and hash", "unicode ✓"),
	}

	for _, p := range products {
		av, err := attributevalue.MarshalMap(ToItem(p, time.Now()))
		require.NoError(t, err)

		got, err := FromItem(av)
		require.NoError(t, err)
		assert.True(t, p.Equals(got), "round trip changed %s", p.Name())
	}
}

func TestFromItem_Malformed(t *testing.T) {
	valid := func() map[string]types.AttributeValue {
		return map[string]types.AttributeValue{
			AttrID:          &types.AttributeValueMemberS{Value: "p-1"},
			AttrName:        &types.AttributeValueMemberS{Value: "Widget"},
			AttrDescription: &types.AttributeValueMemberS{Value: "A widget"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(map[string]types.AttributeValue)
		wantField string
	}{
		{name: "missing name", mutate: func(m map[string]types.AttributeValue) { delete(m, AttrName) }, wantField: AttrName},
		{name: "missing id", mutate: func(m map[string]types.AttributeValue) { delete(m, AttrID) }, wantField: AttrID},
		{name: "missing description", mutate: func(m map[string]types.AttributeValue) { delete(m, AttrDescription) }, wantField: AttrDescription},
		{name: "empty name", mutate: func(m map[string]types.AttributeValue) { m[AttrName] = &types.AttributeValueMemberS{Value: ""} }, wantField: AttrName},
		{name: "empty id", mutate: func(m map[string]types.AttributeValue) { m[AttrID] = &types.AttributeValueMemberS{Value: ""} }, wantField: AttrID},
		{name: "numeric name", mutate: func(m map[string]types.AttributeValue) { m[AttrName] = &types.AttributeValueMemberN{Value: "7"} }, wantField: AttrName},
		{name: "null description", mutate: func(m map[string]types.AttributeValue) { m[AttrDescription] = &types.AttributeValueMemberNULL{Value: true} }, wantField: AttrDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid()
			tt.mutate(item)

			p, err := FromItem(item)
			assert.Nil(t, p)
			var malformed *pkgerrors.MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.wantField, malformed.Field)
		})
	}
}

func TestFromItem_IgnoresExtraAttributes(t *testing.T) {
	p, err := FromItem(map[string]types.AttributeValue{
		AttrPK:          &types.AttributeValueMemberS{Value: "PRODUCT"},
		AttrSK:          &types.AttributeValueMemberS{Value: "NAME#Widget"},
		AttrID:          &types.AttributeValueMemberS{Value: "p-1"},
		AttrName:        &types.AttributeValueMemberS{Value: "Widget"},
		AttrDescription: &types.AttributeValueMemberS{Value: ""},
		AttrUpdateTime:  &types.AttributeValueMemberS{Value: "2024-01-02T03:04:05.006Z"},
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID().String())
	assert.Equal(t, "", p.Description())
}
