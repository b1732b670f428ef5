package shop

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewShop(t *testing.T) {
	t.Run("valid shop", func(t *testing.T) {
		s, err := NewShop("nolt", "Nolt Boutique")
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Equal(t, "NOLT", s.Code)
		assert.Equal(t, "Nolt Boutique", s.Name)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := NewShop("", "Nolt Boutique")
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewShop("nolt", "")
		assert.Error(t, err)
	})
}

func TestNewProductMetadata(t *testing.T) {
	shopID := uuid.New()

	t.Run("valid metadata", func(t *testing.T) {
		m, err := NewProductMetadata(shopID, 501, "Maillot Domicile 2024")
		assert.NoError(t, err)
		assert.Equal(t, shopID, m.ShopID)
		assert.Equal(t, int64(501), m.ProductID)
		assert.Equal(t, "Maillot Domicile 2024", m.CustomWebLabel)
	})

	t.Run("invalid product id", func(t *testing.T) {
		_, err := NewProductMetadata(shopID, 0, "Maillot")
		assert.Error(t, err)
	})

	t.Run("nil shop id", func(t *testing.T) {
		_, err := NewProductMetadata(uuid.Nil, 501, "Maillot")
		assert.Error(t, err)
	})
}

func TestProductMetadataSetCustomWebLabel(t *testing.T) {
	m, err := NewProductMetadata(uuid.New(), 501, "Maillot Domicile")
	assert.NoError(t, err)

	m.SetCustomWebLabel("Maillot Extérieur")
	assert.Equal(t, "Maillot Extérieur", m.CustomWebLabel)

	// clearing the label is allowed, the merged view then falls back to
	// the catalog label
	m.SetCustomWebLabel("")
	assert.Equal(t, "", m.CustomWebLabel)
}
