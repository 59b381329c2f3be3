package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

// AuthHandler exchanges the box-office passcode for an access token.
type AuthHandler struct {
	PasscodeHash string // bcrypt hash; empty disables login
	Secret       string
	TTL          time.Duration
	Role         string
	Log          *zap.Logger
}

type tokenReq struct {
	Passcode string `json:"passcode"`
}

// IssueToken handles POST /v1/auth/token.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	if h.PasscodeHash == "" || h.Secret == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "box-office login is not configured"})
	}
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Passcode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passcode required"})
	}
	if !utils.VerifyPasscode(h.PasscodeHash, req.Passcode) {
		h.Log.Warn("box-office login rejected", zap.String("ip", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid passcode"})
	}

	tok, err := utils.NewAccessToken(h.Secret, "box-office", h.Role, h.TTL)
	if err != nil {
		h.Log.Error("sign access token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, tok)
}
