package entity

// BundleComponent unidades de un producto componente por cada unidad del bundle.
type BundleComponent struct {
	BundleProductID string `json:"bundle_product_id"`
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
}
