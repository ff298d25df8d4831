// Package notification builds WhatsApp click-to-chat links for sharing
// prescriptions and reminders with patients.
package notification

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// NormalizePhone converts a Pakistani phone number to the international
// digits-only form wa.me expects: separators stripped, a leading 0 swapped
// for the 92 country code.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if cleaned == "" {
		return "", fmt.Errorf("phone number is required")
	}
	if strings.HasPrefix(cleaned, "0") {
		cleaned = "92" + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, "92") && !strings.HasPrefix(cleaned, "+92") {
		cleaned = "92" + cleaned
	}
	cleaned = strings.ReplaceAll(cleaned, "+", "")
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid phone number: %s", phone)
		}
	}
	return cleaned, nil
}

// ChatLink builds a wa.me URL opening a chat with the message pre-filled.
func ChatLink(phone, message string) (string, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	link := "https://wa.me/" + normalized
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link, nil
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/whatsapp-link", h.BuildLink)
}

func (h *Handler) BuildLink(c echo.Context) error {
	var req struct {
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link, err := ChatLink(req.Phone, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"url": link})
}
