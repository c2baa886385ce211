package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookit/experience-booking/internal/pricing"
)

// PromoHandler serves POST /promo/validate. The computation itself is the
// pure pricing package; this handler only shapes the HTTP contract.
type PromoHandler struct{}

type validatePromoRequest struct {
	Code          string  `json:"code"`
	OriginalPrice float64 `json:"originalPrice"`
}

// ValidatePromo handles POST /promo/validate. Unknown codes return 404 with
// a zero discount so the caller can keep the original price.
func (h *PromoHandler) ValidatePromo(c echo.Context) error {
	var req validatePromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload for promo validation"})
	}

	quote, err := pricing.Compute(req.Code, req.OriginalPrice)
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownCode) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"message":        "Invalid promo code",
				"discountAmount": 0,
				"finalPrice":     req.OriginalPrice,
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload for promo validation"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Promo code applied successfully",
		"promoCode":      quote.Code,
		"discountAmount": quote.DiscountAmount,
		"finalPrice":     quote.FinalPrice,
	})
}
