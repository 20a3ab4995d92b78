package entity

// ProductCategory clasifica el producto para las transformaciones de stock.
type ProductCategory string

const (
	CategoryNormal       ProductCategory = "normal"
	CategoryBox          ProductCategory = "box"
	CategoryPack         ProductCategory = "pack"
	CategoryBundle       ProductCategory = "bundle"
	CategoryOriginalPack ProductCategory = "original_pack"
	CategoryLuckyBag     ProductCategory = "lucky_bag"
	CategoryDeck         ProductCategory = "deck"
)

// Valid indica si la categoría es conocida.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryNormal, CategoryBox, CategoryPack, CategoryBundle,
		CategoryOriginalPack, CategoryLuckyBag, CategoryDeck:
		return true
	}
	return false
}

// AllowsPackRollback indica si una apertura de este tipo de caja puede revertirse.
// Para paquetes originales, bolsas sorpresa y mazos la estructura de lotes no es derivable 1:1.
func (c ProductCategory) AllowsPackRollback() bool {
	switch c {
	case CategoryOriginalPack, CategoryLuckyBag, CategoryDeck:
		return false
	}
	return true
}
