package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/inventory"
)

// TransformCoordinator orquesta operaciones multi-producto atómicas (traslado, apertura, bundles)
// sobre las primitivas de StockLedger. Los métodos *InTx usan la transacción del llamador.
type TransformCoordinator struct {
	txRunner TxRunner
	ledger   *StockLedger
	now      func() time.Time
}

// NewTransformCoordinator construye el coordinador.
func NewTransformCoordinator(txRunner TxRunner, ledger *StockLedger, now func() time.Time) *TransformCoordinator {
	if now == nil {
		now = time.Now
	}
	return &TransformCoordinator{txRunner: txRunner, ledger: ledger, now: now}
}

// TransferInput traslado de unidades entre dos productos.
type TransferInput struct {
	StoreID       string
	FromProductID string
	ToProductID   string
	Quantity      int64
	Description   string
	StaffID       string
}

// TransferResult salida en origen y entrada en destino.
type TransferResult struct {
	From *DecreaseResult
	To   *IncreaseResult
}

// Transfer ejecuta TransferInTx en su propia transacción.
func (c *TransformCoordinator) Transfer(ctx context.Context, policy entity.LedgerPolicy, in TransferInput) (*TransferResult, error) {
	var res *TransferResult
	err := c.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		res, err = c.TransferInTx(ctx, repos, policy, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// TransferInTx resta del origen y suma al destino reutilizando precio y llegada de cada lote consumido.
// La conversión a precio especial es un traslado a un producto con IsSpecialPriceProduct.
func (c *TransformCoordinator) TransferInTx(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, in TransferInput) (*TransferResult, error) {
	if in.FromProductID == "" || in.ToProductID == "" || in.FromProductID == in.ToProductID {
		return nil, fmt.Errorf("%w: origen y destino deben ser productos distintos", domain.ErrInvalidInput)
	}
	out, err := c.ledger.Decrease(ctx, repos, policy, DecreaseInput{
		StoreID:     in.StoreID,
		ProductID:   in.FromProductID,
		Quantity:    in.Quantity,
		Kind:        entity.SourceTransfer,
		SourceID:    in.ToProductID,
		Description: in.Description,
		StaffID:     in.StaffID,
	})
	if err != nil {
		return nil, err
	}
	into, err := c.ledger.Increase(ctx, repos, policy, IncreaseInput{
		StoreID:     in.StoreID,
		ProductID:   in.ToProductID,
		Quantity:    in.Quantity,
		Lots:        out.Consumed,
		Kind:        entity.SourceTransfer,
		SourceID:    in.FromProductID,
		Description: in.Description,
		StaffID:     in.StaffID,
	})
	if err != nil {
		return nil, err
	}
	return &TransferResult{From: out, To: into}, nil
}

// CardOutput cartas obtenidas para un producto. UnitPrice nil = parte del margen.
type CardOutput struct {
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// OpenPackInput apertura de PackCount unidades de una caja.
// CardsPerPack > 0 exige que PackCount × CardsPerPack sea igual a las cartas registradas más las no registradas.
// UnregisteredProductID vacío registra las no registradas como pérdida.
type OpenPackInput struct {
	StoreID               string
	BoxProductID          string
	PackCount             int64
	CardsPerPack          int64
	Cards                 []CardOutput
	UnregisteredQuantity  int64
	UnregisteredProductID string
	UnregisteredUnitPrice *decimal.Decimal
	Description           string
	StaffID               string
}

// OpenPackResult registro padre y movimientos de la apertura.
type OpenPackResult struct {
	History      *entity.PackOpenHistory
	Box          *DecreaseResult
	Cards        []*IncreaseResult
	Unregistered *IncreaseResult
}

// OpenPack ejecuta OpenPackInTx en su propia transacción.
func (c *TransformCoordinator) OpenPack(ctx context.Context, policy entity.LedgerPolicy, in OpenPackInput) (*OpenPackResult, error) {
	var res *OpenPackResult
	err := c.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		res, err = c.OpenPackInTx(ctx, repos, policy, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// OpenPackInTx consume la caja, reparte su costo entre las cartas producidas y crea el registro padre.
func (c *TransformCoordinator) OpenPackInTx(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, in OpenPackInput) (*OpenPackResult, error) {
	if err := validateOpenPack(in); err != nil {
		return nil, err
	}
	openID := uuid.New().String()
	now := c.now()

	box, err := c.ledger.Decrease(ctx, repos, policy, DecreaseInput{
		StoreID:     in.StoreID,
		ProductID:   in.BoxProductID,
		Quantity:    in.PackCount,
		Kind:        entity.SourcePackOpening,
		SourceID:    openID,
		Description: in.Description,
		StaffID:     in.StaffID,
	})
	if err != nil {
		return nil, err
	}

	outputs := make([]inventory.PackOutput, 0, len(in.Cards)+1)
	for _, card := range in.Cards {
		outputs = append(outputs, inventory.PackOutput{Quantity: card.Quantity, UnitPrice: card.UnitPrice})
	}
	outputs = append(outputs, inventory.PackOutput{Quantity: in.UnregisteredQuantity, UnitPrice: in.UnregisteredUnitPrice})
	consumedCost := entity.TotalCost(box.Consumed)
	plan := inventory.DistributePackCost(consumedCost, outputs, now)

	res := &OpenPackResult{Box: box}
	cards := make([]entity.PackOpenCard, 0, len(in.Cards))
	for i, card := range in.Cards {
		inc, err := c.ledger.Increase(ctx, repos, policy, IncreaseInput{
			StoreID:     in.StoreID,
			ProductID:   card.ProductID,
			Quantity:    card.Quantity,
			Lots:        plan.Records[i],
			Kind:        entity.SourcePackOpening,
			SourceID:    openID,
			Description: in.Description,
			StaffID:     in.StaffID,
		})
		if err != nil {
			return nil, err
		}
		res.Cards = append(res.Cards, inc)
		cards = append(cards, entity.PackOpenCard{ProductID: card.ProductID, Quantity: card.Quantity, UnitPrice: card.UnitPrice})
	}

	lossCost := decimal.Zero
	unregistered := plan.Records[len(in.Cards)]
	if in.UnregisteredQuantity > 0 {
		if in.UnregisteredProductID == "" {
			lossCost = entity.TotalCost(unregistered)
		} else {
			inc, err := c.ledger.Increase(ctx, repos, policy, IncreaseInput{
				StoreID:     in.StoreID,
				ProductID:   in.UnregisteredProductID,
				Quantity:    in.UnregisteredQuantity,
				Lots:        unregistered,
				Kind:        entity.SourcePackOpeningUnregister,
				SourceID:    openID,
				Description: in.Description,
				StaffID:     in.StaffID,
			})
			if err != nil {
				return nil, err
			}
			res.Unregistered = inc
		}
	}

	history := &entity.PackOpenHistory{
		ID:                    openID,
		StoreID:               box.Product.StoreID,
		BoxProductID:          in.BoxProductID,
		BoxCategory:           box.Product.Category,
		PackCount:             in.PackCount,
		CardsPerPack:          in.CardsPerPack,
		Cards:                 cards,
		UnregisteredProductID: in.UnregisteredProductID,
		UnregisteredQuantity:  in.UnregisteredQuantity,
		UnregisteredUnitPrice: in.UnregisteredUnitPrice,
		ConsumedCost:          consumedCost,
		LossCost:              lossCost,
		UnallocatedCost:       plan.Unallocated,
		Status:                entity.PackOpenFinished,
		Description:           in.Description,
		StaffID:               in.StaffID,
		CreatedAt:             now,
	}
	if err := repos.PackOpenings.Create(ctx, history); err != nil {
		return nil, err
	}
	res.History = history
	return res, nil
}

func validateOpenPack(in OpenPackInput) error {
	if in.BoxProductID == "" {
		return fmt.Errorf("%w: box_product_id requerido", domain.ErrInvalidInput)
	}
	if in.PackCount <= 0 {
		return fmt.Errorf("%w: se abren %d cajas", domain.ErrInvalidQuantity, in.PackCount)
	}
	if in.CardsPerPack < 0 || in.UnregisteredQuantity < 0 {
		return fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidQuantity)
	}
	if len(in.Cards) == 0 && in.UnregisteredQuantity == 0 {
		return fmt.Errorf("%w: la apertura no produce cartas", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Cards))
	var total int64
	for _, card := range in.Cards {
		if card.ProductID == "" || card.ProductID == in.BoxProductID || seen[card.ProductID] {
			return fmt.Errorf("%w: producto de carta %q", domain.ErrInvalidInput, card.ProductID)
		}
		seen[card.ProductID] = true
		if card.Quantity <= 0 {
			return fmt.Errorf("%w: %d cartas de %s", domain.ErrInvalidQuantity, card.Quantity, card.ProductID)
		}
		if card.UnitPrice != nil && !inventory.ValidUnitPrice(*card.UnitPrice) {
			return fmt.Errorf("%w: %s", domain.ErrInvalidPrice, card.UnitPrice)
		}
		total += card.Quantity
	}
	if in.UnregisteredProductID == in.BoxProductID && in.UnregisteredProductID != "" {
		return fmt.Errorf("%w: el producto no registrado no puede ser la caja", domain.ErrInvalidInput)
	}
	if in.UnregisteredUnitPrice != nil && !inventory.ValidUnitPrice(*in.UnregisteredUnitPrice) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPrice, in.UnregisteredUnitPrice)
	}
	total += in.UnregisteredQuantity
	if in.CardsPerPack > 0 && in.PackCount*in.CardsPerPack != total {
		return fmt.Errorf("%w: %d cajas de %d cartas no coinciden con %d cartas registradas y no registradas",
			domain.ErrInvalidQuantity, in.PackCount, in.CardsPerPack, total)
	}
	return nil
}

// BundleInput arma o libera Quantity unidades de un bundle.
type BundleInput struct {
	StoreID         string
	BundleProductID string
	Quantity        int64
	Description     string
	StaffID         string
}

// BundleResult movimientos del bundle y de sus componentes.
type BundleResult struct {
	Bundle     *entity.StockMovement
	Components []*entity.StockMovement
	Lots       []entity.LotRecord // lotes vivos del bundle tras armar / registros consumidos al liberar
}

// AssembleBundle ejecuta AssembleBundleInTx en su propia transacción.
func (c *TransformCoordinator) AssembleBundle(ctx context.Context, policy entity.LedgerPolicy, in BundleInput) (*BundleResult, error) {
	var res *BundleResult
	err := c.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		res, err = c.AssembleBundleInTx(ctx, repos, policy, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AssembleBundleInTx consume los componentes (retenidos bajo el bundle) y suma el bundle.
func (c *TransformCoordinator) AssembleBundleInTx(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, in BundleInput) (*BundleResult, error) {
	components, err := c.bundleComponents(ctx, repos, in)
	if err != nil {
		return nil, err
	}
	res := &BundleResult{}
	var consumed []entity.LotRecord
	for _, comp := range components {
		dec, err := c.ledger.Decrease(ctx, repos, policy, DecreaseInput{
			StoreID:     in.StoreID,
			ProductID:   comp.ProductID,
			Quantity:    in.Quantity * comp.Quantity,
			Kind:        entity.SourceBundle,
			SourceID:    in.BundleProductID,
			Description: in.Description,
			StaffID:     in.StaffID,
		})
		if err != nil {
			return nil, err
		}
		consumed = append(consumed, dec.Consumed...)
		res.Components = append(res.Components, dec.Movement)
	}
	inc, err := c.ledger.Increase(ctx, repos, policy, IncreaseInput{
		StoreID:     in.StoreID,
		ProductID:   in.BundleProductID,
		Quantity:    in.Quantity,
		Lots:        inventory.SplitEvenly(entity.TotalCost(consumed), in.Quantity, c.now()),
		Kind:        entity.SourceBundle,
		SourceID:    in.BundleProductID,
		Description: in.Description,
		StaffID:     in.StaffID,
	})
	if err != nil {
		return nil, err
	}
	res.Bundle = inc.Movement
	res.Lots = inc.Lots
	return res, nil
}

// ReleaseBundle ejecuta ReleaseBundleInTx en su propia transacción.
func (c *TransformCoordinator) ReleaseBundle(ctx context.Context, policy entity.LedgerPolicy, in BundleInput) (*BundleResult, error) {
	var res *BundleResult
	err := c.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		res, err = c.ReleaseBundleInTx(ctx, repos, policy, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReleaseBundleInTx resta el bundle y devuelve a cada componente los lotes que tenía retenidos.
func (c *TransformCoordinator) ReleaseBundleInTx(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, in BundleInput) (*BundleResult, error) {
	if _, err := c.bundleComponents(ctx, repos, in); err != nil {
		return nil, err
	}
	dec, err := c.ledger.Decrease(ctx, repos, policy, DecreaseInput{
		StoreID:     in.StoreID,
		ProductID:   in.BundleProductID,
		Quantity:    in.Quantity,
		Kind:        entity.SourceBundleRelease,
		SourceID:    in.BundleProductID,
		Description: in.Description,
		StaffID:     in.StaffID,
	})
	if err != nil {
		return nil, err
	}
	res := &BundleResult{Bundle: dec.Movement, Lots: dec.Consumed}
	for _, comp := range dec.Components {
		inc, err := c.ledger.Increase(ctx, repos, policy, IncreaseInput{
			StoreID:     in.StoreID,
			ProductID:   comp.ProductID,
			Quantity:    entity.TotalQuantity(comp.Lots),
			Lots:        comp.Lots,
			Kind:        entity.SourceBundleRelease,
			SourceID:    in.BundleProductID,
			Description: in.Description,
			StaffID:     in.StaffID,
		})
		if err != nil {
			return nil, err
		}
		res.Components = append(res.Components, inc.Movement)
	}
	return res, nil
}

// bundleComponents valida el bundle y devuelve su composición.
func (c *TransformCoordinator) bundleComponents(ctx context.Context, repos Repositories, in BundleInput) ([]entity.BundleComponent, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %d bundles", domain.ErrInvalidQuantity, in.Quantity)
	}
	bundle, err := repos.Products.GetByID(ctx, in.BundleProductID)
	if err != nil {
		return nil, err
	}
	if bundle == nil || (in.StoreID != "" && bundle.StoreID != in.StoreID) {
		return nil, fmt.Errorf("%w: bundle %s", domain.ErrNotFound, in.BundleProductID)
	}
	if bundle.Category != entity.CategoryBundle || bundle.InfiniteStock {
		return nil, fmt.Errorf("%w: %s no es un bundle con stock finito", domain.ErrInvalidInput, bundle.ID)
	}
	components, err := repos.Bundles.ListComponents(ctx, bundle.ID)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: el bundle %s no tiene componentes", domain.ErrInvalidInput, bundle.ID)
	}
	for _, comp := range components {
		p, err := repos.Products.GetByID(ctx, comp.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: componente %s", domain.ErrNotFound, comp.ProductID)
		}
		if p.InfiniteStock || p.Category == entity.CategoryBundle {
			return nil, fmt.Errorf("%w: componente %s no admitido", domain.ErrInvalidInput, comp.ProductID)
		}
	}
	return components, nil
}
