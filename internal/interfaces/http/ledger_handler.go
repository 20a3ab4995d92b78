package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

// LedgerHandler aumentos, disminuciones, traslados y consultas del libro de stock (protegido).
type LedgerHandler struct {
	uc  *inventory.LedgerUseCase
	log *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{uc: uc, log: log}
}

func parseKind(name string) (entity.SourceKind, error) {
	kind, err := entity.ParseSourceKind(name)
	if err != nil {
		return kind, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return kind, nil
}

// sourceIDFor genera un id cuando el tipo abre su propia retención y el cliente no envió uno.
// Los tipos que leen una retención existente (devoluciones, reversiones) lo siguen exigiendo.
func sourceIDFor(kind entity.SourceKind, sourceID string, increase bool) string {
	if sourceID != "" {
		return sourceID
	}
	if effect, ok := kind.Effect(); ok && effect.OpensScope(increase) {
		return uuid.NewString()
	}
	return sourceID
}

// Increase godoc
// @Summary      Aumentar stock
// @Description  Crea lotes de costo (o restaura los retenidos por la fuente) y registra el movimiento.
// @Description  Las restauraciones (transaction_sell_return...) exigen el source_id de la salida original.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IncreaseRequest  true  "product_id, quantity, unit_price o lots, source_kind"
// @Success      201   {object}  dto.IncreaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/increase [post]
func (h *LedgerHandler) Increase(c *fiber.Ctx) error {
	var in dto.IncreaseRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	kind, err := parseKind(in.SourceKind)
	if err != nil {
		return writeError(c, h.log, err)
	}
	lots := make([]entity.LotRecord, 0, len(in.Lots))
	for _, l := range in.Lots {
		r := entity.LotRecord{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
		if l.ArrivedAt != nil {
			r.ArrivedAt = *l.ArrivedAt
		}
		lots = append(lots, r)
	}
	res, err := h.uc.Increase(c.UserContext(), inventory.IncreaseInput{
		StoreID:     GetStoreID(c),
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		ArrivedAt:   in.ArrivedAt,
		Lots:        lots,
		Kind:        kind,
		SourceID:    sourceIDFor(kind, in.SourceID, true),
		Description: in.Description,
		StaffID:     GetStaffID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := toIncrease(res)
	out.Summary = toSummary(h.uc.Summarizer().Increase(c.UserContext(), res))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Decrease godoc
// @Summary      Disminuir stock
// @Description  Consume lotes según el orden de asignación de la tienda y registra el movimiento.
// @Description  source_id es opcional en los tipos que retienen lotes (loss, transaction_sell...): se genera uno.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DecreaseRequest  true  "product_id, quantity, source_kind"
// @Success      201   {object}  dto.DecreaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/decrease [post]
func (h *LedgerHandler) Decrease(c *fiber.Ctx) error {
	var in dto.DecreaseRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	kind, err := parseKind(in.SourceKind)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.uc.Decrease(c.UserContext(), inventory.DecreaseInput{
		StoreID:     GetStoreID(c),
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Kind:        kind,
		SourceID:    sourceIDFor(kind, in.SourceID, false),
		Description: in.Description,
		StaffID:     GetStaffID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := toDecrease(res)
	out.Summary = toSummary(h.uc.Summarizer().Decrease(c.UserContext(), res))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Trasladar stock entre productos
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "from_product_id, to_product_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/transfer [post]
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	res, err := h.uc.Transfer(c.UserContext(), inventory.TransferInput{
		StoreID:       GetStoreID(c),
		FromProductID: in.FromProductID,
		ToProductID:   in.ToProductID,
		Quantity:      in.Quantity,
		Description:   in.Description,
		StaffID:       GetStaffID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		From:    toDecrease(res.From),
		To:      toIncrease(res.To),
		Summary: toSummary(h.uc.Summarizer().Transfer(c.UserContext(), res)),
	})
}

// ListLots godoc
// @Summary      Lotes de costo de un producto
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id             path   string  true   "ID del producto"
// @Param        include_empty  query  bool    false  "incluir lotes agotados y retenidos"
// @Success      200  {array}   dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/lots [get]
func (h *LedgerHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.uc.ListLots(c.UserContext(), GetStoreID(c), c.Params("id"), c.QueryBool("include_empty"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLot(l))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Description  Más reciente primero.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "máximo 200"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	page.DefaultPage()
	list, err := h.uc.ListMovements(c.UserContext(), GetStoreID(c), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: toMovements(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
