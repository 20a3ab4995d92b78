package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

// BundleHandler armado y liberación de bundles (protegido).
type BundleHandler struct {
	uc  *inventory.LedgerUseCase
	log *logger.Logger
}

// NewBundleHandler construye el handler.
func NewBundleHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *BundleHandler {
	return &BundleHandler{uc: uc, log: log}
}

func (h *BundleHandler) apply(c *fiber.Ctx, verb string, fn func(*fiber.Ctx, inventory.BundleInput) (*inventory.BundleResult, error)) error {
	var req dto.BundleRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}
	in := inventory.BundleInput{
		StoreID:         GetStoreID(c),
		BundleProductID: c.Params("id"),
		Quantity:        req.Quantity,
		Description:     req.Description,
		StaffID:         GetStaffID(c),
	}
	res, err := fn(c, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := toBundle(res)
	out.Summary = toSummary(h.uc.Summarizer().Bundle(c.UserContext(), in.StoreID, verb, in, res))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Assemble godoc
// @Summary      Armar bundles
// @Description  Retira los componentes y crea los lotes del bundle con su costo.
// @Tags         bundles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del bundle"
// @Param        body  body  dto.BundleRequest  true  "quantity"
// @Success      201   {object}  dto.BundleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bundles/{id}/assemble [post]
func (h *BundleHandler) Assemble(c *fiber.Ctx) error {
	return h.apply(c, "assembled", func(c *fiber.Ctx, in inventory.BundleInput) (*inventory.BundleResult, error) {
		return h.uc.AssembleBundle(c.UserContext(), in)
	})
}

// Release godoc
// @Summary      Liberar bundles
// @Description  Deshace unidades armadas devolviendo a cada componente sus lotes originales.
// @Tags         bundles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del bundle"
// @Param        body  body  dto.BundleRequest  true  "quantity"
// @Success      201   {object}  dto.BundleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bundles/{id}/release [post]
func (h *BundleHandler) Release(c *fiber.Ctx) error {
	return h.apply(c, "released", func(c *fiber.Ctx, in inventory.BundleInput) (*inventory.BundleResult, error) {
		return h.uc.ReleaseBundle(c.UserContext(), in)
	})
}
