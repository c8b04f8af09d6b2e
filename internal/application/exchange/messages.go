package exchange

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Claves de los mensajes del log de intercambio.
const (
	MsgProductImported = "product %s imported"
	MsgProductFailed   = "product %s: %s"
	MsgImageFailed     = "product %s: image %s: %s"
	MsgPriceUpdated    = "offer %s: price %s updated"
	MsgBalanceUpdated  = "offer %s: stock %s updated"
	MsgOfferFailed     = "offer %s: %s"
	MsgPackageFailed   = "offer package: %s"
)

var supportedLocales = []language.Tag{language.Russian, language.English, language.Spanish}

var (
	messagesOnce sync.Once
	messages     *catalog.Builder
	matcher      = language.NewMatcher(supportedLocales)
)

func messageCatalog() *catalog.Builder {
	messagesOnce.Do(func() {
		b := catalog.NewBuilder(catalog.Fallback(language.English))
		set := func(tag language.Tag, key, msg string) {
			_ = b.SetString(tag, key, msg)
		}
		for _, key := range []string{
			MsgProductImported, MsgProductFailed, MsgImageFailed, MsgPriceUpdated,
			MsgBalanceUpdated, MsgOfferFailed, MsgPackageFailed,
		} {
			set(language.English, key, key)
		}

		set(language.Russian, MsgProductImported, "товар %s загружен")
		set(language.Russian, MsgProductFailed, "товар %s: %s")
		set(language.Russian, MsgImageFailed, "товар %s: картинка %s: %s")
		set(language.Russian, MsgPriceUpdated, "предложение %s: цена %s обновлена")
		set(language.Russian, MsgBalanceUpdated, "предложение %s: остаток на складе %s обновлён")
		set(language.Russian, MsgOfferFailed, "предложение %s: %s")
		set(language.Russian, MsgPackageFailed, "пакет предложений: %s")

		set(language.Spanish, MsgProductImported, "producto %s importado")
		set(language.Spanish, MsgProductFailed, "producto %s: %s")
		set(language.Spanish, MsgImageFailed, "producto %s: imagen %s: %s")
		set(language.Spanish, MsgPriceUpdated, "oferta %s: precio %s actualizado")
		set(language.Spanish, MsgBalanceUpdated, "oferta %s: existencia en %s actualizada")
		set(language.Spanish, MsgOfferFailed, "oferta %s: %s")
		set(language.Spanish, MsgPackageFailed, "paquete de ofertas: %s")
		messages = b
	})
	return messages
}

// MatchLocale elige el idioma soportado más cercano a locale (valor tipo Accept-Language);
// sin coincidencia usa ruso, el idioma del ERP.
func MatchLocale(locale string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return supportedLocales[0]
	}
	_, idx, _ := matcher.Match(tags...)
	return supportedLocales[idx]
}

// Printer devuelve la impresora de mensajes para locale.
func Printer(locale string) *message.Printer {
	return message.NewPrinter(MatchLocale(locale), message.Catalog(messageCatalog()))
}
