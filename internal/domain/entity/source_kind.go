package entity

import "fmt"

// SourceKind identifica la operación que originó un movimiento de stock.
// Es un conjunto cerrado: cada valor declara su efecto en Effect.
type SourceKind uint8

const (
	SourceUnknown SourceKind = iota
	SourceTransactionSell
	SourceTransactionBuy
	SourceTransactionSellReturn
	SourceTransactionBuyReturn
	SourceLoss
	SourceStocking
	SourceTransfer
	SourcePackOpening
	SourcePackOpeningUnregister
	SourcePackOpeningRollback
	SourcePackOpeningUnregisterRollback
	SourceBundle
	SourceBundleRelease
	SourceOriginalPack
	SourceOriginalPackRelease
	SourceAppraisalCreate
	SourceAppraisalReturn
	sourceKindEnd
)

var sourceKindNames = [...]string{
	SourceUnknown:                       "unknown",
	SourceTransactionSell:               "transaction_sell",
	SourceTransactionBuy:                "transaction_buy",
	SourceTransactionSellReturn:         "transaction_sell_return",
	SourceTransactionBuyReturn:          "transaction_buy_return",
	SourceLoss:                          "loss",
	SourceStocking:                      "stocking",
	SourceTransfer:                      "transfer",
	SourcePackOpening:                   "pack_opening",
	SourcePackOpeningUnregister:         "pack_opening_unregister",
	SourcePackOpeningRollback:           "pack_opening_rollback",
	SourcePackOpeningUnregisterRollback: "pack_opening_unregister_rollback",
	SourceBundle:                        "bundle",
	SourceBundleRelease:                 "bundle_release",
	SourceOriginalPack:                  "original_pack",
	SourceOriginalPackRelease:           "original_pack_release",
	SourceAppraisalCreate:               "appraisal_create",
	SourceAppraisalReturn:               "appraisal_return",
}

// String devuelve el nombre persistido del tipo.
func (k SourceKind) String() string {
	if k >= sourceKindEnd {
		return fmt.Sprintf("SourceKind(%d)", uint8(k))
	}
	return sourceKindNames[k]
}

// SourceKinds devuelve todos los tipos válidos.
func SourceKinds() []SourceKind {
	kinds := make([]SourceKind, 0, int(sourceKindEnd)-1)
	for k := SourceUnknown + 1; k < sourceKindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseSourceKind convierte el nombre persistido al tipo.
func ParseSourceKind(s string) (SourceKind, error) {
	for k := SourceUnknown + 1; k < sourceKindEnd; k++ {
		if sourceKindNames[k] == s {
			return k, nil
		}
	}
	return SourceUnknown, fmt.Errorf("source kind desconocido: %q", s)
}

// MarshalText / UnmarshalText para JSON y columnas de texto.
func (k SourceKind) MarshalText() ([]byte, error) {
	if k == SourceUnknown || k >= sourceKindEnd {
		return nil, fmt.Errorf("source kind inválido: %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *SourceKind) UnmarshalText(b []byte) error {
	parsed, err := ParseSourceKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IncreaseMode cómo un aumento genera los registros de costo.
type IncreaseMode uint8

const (
	IncreaseNotAllowed IncreaseMode = iota
	IncreaseCreate                  // crea lotes vivos con los registros recibidos
	IncreaseCreateAndPark           // además deja una copia retenida bajo la fuente
	IncreaseRestore                 // restaura lotes retenidos por la fuente, en orden inverso
)

// DecreaseMode cómo una disminución elige los lotes a consumir.
type DecreaseMode uint8

const (
	DecreaseNotAllowed    DecreaseMode = iota
	DecreaseConsume                    // consume lotes vivos según el orden de asignación
	DecreaseConsumeAndPark             // además retiene los consumidos bajo la fuente
	DecreaseReverseParked              // consume los retenidos y luego los vivos del mismo precio (average: por cantidad)
)

// KindEffect efecto de un SourceKind sobre el libro.
type KindEffect struct {
	Increase IncreaseMode
	Decrease DecreaseMode
	Scope    ScopeKind // ámbito de retención; vacío si el tipo no retiene lotes
}

// Effect devuelve el efecto del tipo. ok es false para valores fuera del conjunto.
func (k SourceKind) Effect() (effect KindEffect, ok bool) {
	switch k {
	case SourceTransactionSell:
		return KindEffect{Decrease: DecreaseConsumeAndPark, Scope: ScopeTransaction}, true
	case SourceTransactionSellReturn:
		return KindEffect{Increase: IncreaseRestore, Scope: ScopeTransaction}, true
	case SourceTransactionBuy:
		return KindEffect{Increase: IncreaseCreate}, true
	case SourceTransactionBuyReturn:
		return KindEffect{Decrease: DecreaseConsume}, true
	case SourceLoss:
		return KindEffect{Decrease: DecreaseConsumeAndPark, Scope: ScopeLoss}, true
	case SourceStocking:
		return KindEffect{Increase: IncreaseCreateAndPark, Scope: ScopeStocking}, true
	case SourceTransfer:
		return KindEffect{Increase: IncreaseCreate, Decrease: DecreaseConsume}, true
	case SourcePackOpening:
		return KindEffect{Increase: IncreaseCreateAndPark, Decrease: DecreaseConsumeAndPark, Scope: ScopePackOpening}, true
	case SourcePackOpeningUnregister:
		return KindEffect{Increase: IncreaseCreateAndPark, Scope: ScopePackOpeningUnregister}, true
	case SourcePackOpeningRollback:
		return KindEffect{Increase: IncreaseRestore, Decrease: DecreaseReverseParked, Scope: ScopePackOpening}, true
	case SourcePackOpeningUnregisterRollback:
		return KindEffect{Decrease: DecreaseReverseParked, Scope: ScopePackOpeningUnregister}, true
	case SourceBundle:
		return KindEffect{Increase: IncreaseCreate, Decrease: DecreaseConsumeAndPark, Scope: ScopeBundle}, true
	case SourceBundleRelease:
		return KindEffect{Increase: IncreaseCreate, Decrease: DecreaseConsume}, true
	case SourceOriginalPack:
		return KindEffect{Increase: IncreaseCreate, Decrease: DecreaseConsumeAndPark, Scope: ScopeOriginalPack}, true
	case SourceOriginalPackRelease:
		return KindEffect{Increase: IncreaseCreate, Decrease: DecreaseConsume}, true
	case SourceAppraisalCreate:
		return KindEffect{Decrease: DecreaseConsumeAndPark, Scope: ScopeAppraisal}, true
	case SourceAppraisalReturn:
		return KindEffect{Increase: IncreaseCreate}, true
	case SourceUnknown, sourceKindEnd:
		return KindEffect{}, false
	}
	return KindEffect{}, false
}

// OpensScope indica si el movimiento crea la retención de su fuente (increase o decrease según
// el lado) en vez de leer una existente. Solo en ese caso un SourceID nuevo es válido.
func (e KindEffect) OpensScope(increase bool) bool {
	if increase {
		return e.Increase == IncreaseCreateAndPark
	}
	return e.Decrease == DecreaseConsumeAndPark
}

// NeedsSourceID indica si el tipo retiene o restaura lotes y por tanto exige SourceID.
func (e KindEffect) NeedsSourceID() bool {
	return e.Scope != ""
}
