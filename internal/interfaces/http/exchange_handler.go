package http

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
)

// Modos del protocolo de intercambio.
const (
	ModeInit      = "init"
	ModeCheckAuth = "checkauth"
	ModeFile      = "file"
	ModeImport    = "import"
)

// ExchangeHandler expone el protocolo de intercambio con el ERP en /exchange/:companyId.
// Las respuestas son texto plano, una línea por campo.
type ExchangeHandler struct {
	svc           *exchange.Service
	cookieName    string
	defaultLocale string
	log           zerolog.Logger
}

// NewExchangeHandler construye el handler.
func NewExchangeHandler(svc *exchange.Service, cookieName, defaultLocale string, log zerolog.Logger) *ExchangeHandler {
	if cookieName == "" {
		cookieName = "exchange_session"
	}
	return &ExchangeHandler{svc: svc, cookieName: cookieName, defaultLocale: defaultLocale, log: log}
}

// Handle godoc
// @Summary      Protocolo de intercambio con el ERP
// @Tags         exchange
// @Produce      plain
// @Param        companyId  path   string  true   "ID de la empresa"
// @Param        mode       query  string  true   "init | checkauth | file | import"
// @Param        filename   query  string  false  "Nombre del archivo (file, import)"
// @Success      200  {string}  string
// @Failure      400  {string}  string
// @Failure      401  {string}  string
// @Failure      404  {string}  string
// @Router       /exchange/{companyId} [get]
// @Router       /exchange/{companyId} [post]
func (h *ExchangeHandler) Handle(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	ctx := c.UserContext()

	switch c.Query("mode") {
	case ModeInit:
		return h.send(c, h.svc.Init())
	case ModeCheckAuth:
		user, pass, _ := basicAuth(c.Get(fiber.HeaderAuthorization))
		resp := h.svc.CheckAuth(ctx, companyID, user, pass)
		if resp.Token != "" {
			c.Cookie(&fiber.Cookie{
				Name:     h.cookieName,
				Value:    resp.Token,
				Path:     "/exchange",
				HTTPOnly: true,
			})
		}
		return h.send(c, resp)
	case ModeFile:
		if resp, ok := h.svc.Authorize(ctx, companyID, h.sessionToken(c)); !ok {
			return h.send(c, resp)
		}
		return h.send(c, h.svc.Upload(ctx, companyID, c.Query("filename"), h.locale(c), requestBody(c)))
	case ModeImport:
		if resp, ok := h.svc.Authorize(ctx, companyID, h.sessionToken(c)); !ok {
			return h.send(c, resp)
		}
		return h.send(c, h.svc.Import(ctx, companyID, c.Query("filename")))
	}
	h.log.Warn().Str("company_id", companyID).Str("mode", c.Query("mode")).Msg("modo de intercambio desconocido")
	return h.send(c, h.svc.InvalidMode())
}

func (h *ExchangeHandler) send(c *fiber.Ctx, resp exchange.Response) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(resp.Status).SendString(resp.Body())
}

// sessionToken busca el token de sesión en la cookie, el header Bearer o el parámetro session.
func (h *ExchangeHandler) sessionToken(c *fiber.Ctx) string {
	if tok := c.Cookies(h.cookieName); tok != "" {
		return tok
	}
	if tok, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok && tok != "" {
		return tok
	}
	return c.Query("session")
}

// locale idioma del job: Accept-Language normalizado a uno soportado, o el idioma por defecto.
func (h *ExchangeHandler) locale(c *fiber.Ctx) string {
	raw := c.Get(fiber.HeaderAcceptLanguage)
	if raw == "" {
		raw = h.defaultLocale
	}
	return exchange.MatchLocale(raw).String()
}

// requestBody devuelve el cuerpo en streaming si el servidor lo permite.
func requestBody(c *fiber.Ctx) io.Reader {
	if s := c.Context().RequestBodyStream(); s != nil {
		return s
	}
	return bytes.NewReader(c.Body())
}

// basicAuth decodifica un header "Basic base64(user:pass)".
func basicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	user, pass, ok = strings.Cut(string(raw), ":")
	if !ok {
		return "", "", false
	}
	return user, pass, true
}
