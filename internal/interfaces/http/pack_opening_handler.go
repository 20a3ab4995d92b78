package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

// PackOpeningHandler apertura de cajas y su reversión (protegido).
type PackOpeningHandler struct {
	uc  *inventory.LedgerUseCase
	log *logger.Logger
}

// NewPackOpeningHandler construye el handler.
func NewPackOpeningHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *PackOpeningHandler {
	return &PackOpeningHandler{uc: uc, log: log}
}

// Open godoc
// @Summary      Abrir cajas o sobres
// @Description  Consume la caja y reparte su costo entre las cartas obtenidas; las no registradas van a
// @Description  un producto genérico o a pérdida.
// @Tags         pack-openings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenPackRequest  true  "box_product_id, pack_count, cards"
// @Success      201   {object}  dto.OpenPackResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pack-openings [post]
func (h *PackOpeningHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenPackRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	cards := make([]inventory.CardOutput, 0, len(in.Cards))
	for _, card := range in.Cards {
		cards = append(cards, inventory.CardOutput{ProductID: card.ProductID, Quantity: card.Quantity, UnitPrice: card.UnitPrice})
	}
	res, err := h.uc.OpenPack(c.UserContext(), inventory.OpenPackInput{
		StoreID:               GetStoreID(c),
		BoxProductID:          in.BoxProductID,
		PackCount:             in.PackCount,
		CardsPerPack:          in.CardsPerPack,
		Cards:                 cards,
		UnregisteredQuantity:  in.UnregisteredQuantity,
		UnregisteredProductID: in.UnregisteredProductID,
		UnregisteredUnitPrice: in.UnregisteredUnitPrice,
		Description:           in.Description,
		StaffID:               GetStaffID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.OpenPackResponse{
		History: toPackOpening(res.History),
		Box:     toDecrease(res.Box),
		Cards:   make([]dto.IncreaseResponse, 0, len(res.Cards)),
		Summary: toSummary(h.uc.Summarizer().OpenPack(c.UserContext(), res)),
	}
	for _, card := range res.Cards {
		out.Cards = append(out.Cards, toIncrease(card))
	}
	if res.Unregistered != nil {
		unreg := toIncrease(res.Unregistered)
		out.Unregistered = &unreg
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener apertura
// @Tags         pack-openings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la apertura"
// @Success      200  {object}  dto.PackOpeningResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pack-openings/{id} [get]
func (h *PackOpeningHandler) GetByID(c *fiber.Ctx) error {
	history, err := h.uc.GetPackOpening(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPackOpening(history))
}

// Rollback godoc
// @Summary      Revertir apertura
// @Description  Aplica las operaciones inversas. Con dry_run solo valida y devuelve lo que se confirmaría.
// @Description  Un rechazo esperado responde con outcome=failed y el estado HTTP del motivo.
// @Tags         pack-openings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la apertura"
// @Param        body  body  dto.RollbackRequest  true  "description, dry_run"
// @Success      200   {object}  dto.RollbackResponse
// @Failure      404   {object}  dto.RollbackResponse
// @Failure      409   {object}  dto.RollbackResponse
// @Failure      422   {object}  dto.RollbackResponse
// @Router       /api/pack-openings/{id}/rollback [post]
func (h *PackOpeningHandler) Rollback(c *fiber.Ctx) error {
	var in dto.RollbackRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	res, err := h.uc.RollbackPackOpening(c.UserContext(), inventory.RollbackInput{
		StoreID:     GetStoreID(c),
		PackOpenID:  c.Params("id"),
		Description: in.Description,
		DryRun:      in.DryRun,
		StaffID:     GetStaffID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.RollbackResponse{Outcome: string(res.Outcome), Movements: toMovements(res.Movements)}
	if res.History != nil {
		history := toPackOpening(res.History)
		out.History = &history
	}
	if res.Outcome == inventory.OutcomeFailed {
		out.Reason = res.Reason.Error()
		status, _, _ := clientStatus(res.Reason)
		return c.Status(status).JSON(out)
	}
	if res.History != nil {
		out.Summary = toSummary(h.uc.Summarizer().Rollback(c.UserContext(), res))
	}
	return c.JSON(out)
}
