package order

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dengfw/go-receipt-ocr/pkg/extract"
)

func validData() extract.ExtractedData {
	return extract.ExtractedData{
		ProductName:    "奥特曼卡片收藏册",
		Quantity:       2,
		Price:          9.9,
		TrackingNumber: "301342581579",
		Platform:       "淘寶",
	}
}

func TestNewAssignsUUID(t *testing.T) {
	o := New(validData(), "receipt-1.jpg")

	_, err := uuid.Parse(o.ID)
	require.NoError(t, err)
	assert.Equal(t, "receipt-1.jpg", o.ImageURL)
	assert.False(t, o.HasError)
}

func TestNewUniqueIDs(t *testing.T) {
	a := New(validData(), "")
	b := New(validData(), "")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestHasErrorOnUnknownProduct(t *testing.T) {
	data := validData()
	data.ProductName = extract.UnknownProduct
	assert.True(t, New(data, "").HasError)
}

func TestHasErrorOnMissingTracking(t *testing.T) {
	data := validData()
	data.TrackingNumber = ""
	assert.True(t, New(data, "").HasError)
}

func TestNewManual(t *testing.T) {
	o := NewManual(validData())
	assert.True(t, strings.HasPrefix(o.ID, "manual-"))
	assert.Empty(t, o.ImageURL)
	assert.False(t, o.HasError)
}

func TestFromExtractedKeepsOrder(t *testing.T) {
	first := validData()
	second := validData()
	second.TrackingNumber = "436668634013"

	orders := FromExtracted([]extract.ExtractedData{first, second}, "batch.png")
	require.Len(t, orders, 2)
	assert.Equal(t, "301342581579", orders[0].TrackingNumber)
	assert.Equal(t, "436668634013", orders[1].TrackingNumber)
	for _, o := range orders {
		assert.Equal(t, "batch.png", o.ImageURL)
	}
}
