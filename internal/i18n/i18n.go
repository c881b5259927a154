// Package i18n translates user-facing error messages for the nutrition service.
package i18n

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once

	// supportedLocales is ordered by preference; the first entry is the fallback.
	supportedLocales = []string{DefaultLocale, "pt", "nl"}
	localeMatcher    = language.NewMatcher([]language.Tag{
		language.English,
		language.Portuguese,
		language.Dutch,
	})
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale negotiates the response locale from the Accept-Language header.
// Quality values and regional variants are honored; anything unsupported yields DefaultLocale.
func GetLocale(c *gin.Context) string {
	return MatchLocale(c.GetHeader(AcceptLanguageHeader))
}

// MatchLocale negotiates a supported locale from an Accept-Language value.
func MatchLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}

	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[idx]
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":         "Invalid request",
			"error.invalid_request_body":    "Request body must be valid JSON",
			"error.internal_error":          "An unexpected error occurred",
			"error.unauthorized":            "Unauthorized",
			"error.api_key_required":        "API key is required",
			"error.invalid_api_key":         "Invalid API key",
			"error.forbidden":               "The token does not grant access to this resource",
			"error.not_found":               "Not found",
			"error.rate_limit_exceeded":     "Too many requests, please try again later",
			"error.conflict":                "Idempotency key was already used with a different request",
			"error.invalid_token":           "Invalid or expired token",
			"error.token_required":          "Authentication token is required",
			"error.token_exchange_disabled": "Bearer tokens are not enabled on this server",
			"error.timeout":                 "The request timed out",
			"error.photo_required":          "A photo must be uploaded in the \"photo\" field",
			"error.photo_empty":             "The uploaded photo is empty",
			"error.photo_too_large":         "The uploaded photo is too large",
			"error.analysis_failed":         "Upload failed: the photo could not be analyzed",
			"error.analyzer_unavailable":    "Photo analysis is currently unavailable",
			"error.unknown_tool":            "Unknown tool",
			"error.logs_unavailable":        "The activity log is currently unavailable",
			"error.validation.scopes":       "scopes: contains an unknown scope",
			"error.validation.time_window":  "until: must not be before since",
		},
		"pt": {
			"error.invalid_request":         "Requisição inválida",
			"error.invalid_request_body":    "O corpo da requisição deve ser um JSON válido",
			"error.internal_error":          "Ocorreu um erro inesperado",
			"error.unauthorized":            "Não autorizado",
			"error.api_key_required":        "Chave de API é obrigatória",
			"error.invalid_api_key":         "Chave de API inválida",
			"error.forbidden":               "O token não concede acesso a este recurso",
			"error.not_found":               "Não encontrado",
			"error.rate_limit_exceeded":     "Muitas requisições, tente novamente mais tarde",
			"error.conflict":                "A chave de idempotência já foi usada com outra requisição",
			"error.invalid_token":           "Token inválido ou expirado",
			"error.token_required":          "Token de autenticação é obrigatório",
			"error.token_exchange_disabled": "Tokens bearer não estão habilitados neste servidor",
			"error.timeout":                 "A requisição excedeu o tempo limite",
			"error.photo_required":          "Uma foto deve ser enviada no campo \"photo\"",
			"error.photo_empty":             "A foto enviada está vazia",
			"error.photo_too_large":         "A foto enviada é grande demais",
			"error.analysis_failed":         "Falha no envio: a foto não pôde ser analisada",
			"error.analyzer_unavailable":    "A análise de fotos está indisponível no momento",
			"error.unknown_tool":            "Ferramenta desconhecida",
			"error.logs_unavailable":        "O registro de atividades está indisponível no momento",
			"error.validation.scopes":       "scopes: contém um escopo desconhecido",
			"error.validation.time_window":  "until: não pode ser anterior a since",
		},
		"nl": {
			"error.invalid_request":         "Ongeldig verzoek",
			"error.invalid_request_body":    "De aanvraag body moet geldige JSON zijn",
			"error.internal_error":          "Er is een onverwachte fout opgetreden",
			"error.unauthorized":            "Niet geautoriseerd",
			"error.api_key_required":        "API-sleutel is vereist",
			"error.invalid_api_key":         "Ongeldige API-sleutel",
			"error.forbidden":               "Het token geeft geen toegang tot deze bron",
			"error.not_found":               "Niet gevonden",
			"error.rate_limit_exceeded":     "Te veel verzoeken, probeer het later opnieuw",
			"error.conflict":                "De idempotentiesleutel is al gebruikt voor een ander verzoek",
			"error.invalid_token":           "Ongeldig of verlopen token",
			"error.token_required":          "Authenticatietoken is vereist",
			"error.token_exchange_disabled": "Bearer-tokens zijn niet ingeschakeld op deze server",
			"error.timeout":                 "Het verzoek duurde te lang",
			"error.photo_required":          "Er moet een foto worden geüpload in het veld \"photo\"",
			"error.photo_empty":             "De geüploade foto is leeg",
			"error.photo_too_large":         "De geüploade foto is te groot",
			"error.analysis_failed":         "Uploaden mislukt: de foto kon niet worden geanalyseerd",
			"error.analyzer_unavailable":    "Foto-analyse is momenteel niet beschikbaar",
			"error.unknown_tool":            "Onbekende tool",
			"error.logs_unavailable":        "Het activiteitenlogboek is momenteel niet beschikbaar",
			"error.validation.scopes":       "scopes: bevat een onbekende scope",
			"error.validation.time_window":  "until: mag niet voor since liggen",
		},
	}
}
