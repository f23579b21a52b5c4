// Package locale holds the user-facing messages attached to classified API
// errors and picks a catalog from the user's locale.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Messages is a catalog of user-facing error messages.
type Messages struct {
	NotFound         string
	RateLimited      string
	RateLimitedUntil string // formatted with the local reset time
	ServerError      string
	Unexpected       string
	Network          string
}

var (
	portuguese = Messages{
		NotFound:         "Recurso não encontrado",
		RateLimited:      "Limite de requisições excedido. Tente novamente mais tarde",
		RateLimitedUntil: "Limite de requisições excedido. Tente novamente após %s",
		ServerError:      "Erro no servidor do GitHub. Tente novamente mais tarde",
		Unexpected:       "Ocorreu um erro inesperado",
		Network:          "Falha de conexão. Verifique sua rede e tente novamente",
	}

	english = Messages{
		NotFound:         "Resource not found",
		RateLimited:      "Rate limit exceeded. Try again later",
		RateLimitedUntil: "Rate limit exceeded. Try again after %s",
		ServerError:      "GitHub server error. Try again later",
		Unexpected:       "An unexpected error occurred",
		Network:          "Network failure. Check your connection and try again",
	}
)

// The first tag is the fallback when nothing matches.
var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var catalogs = []Messages{portuguese, english}

var matcher = language.NewMatcher(supported)

// For returns the catalog that best matches locale, which may be a BCP 47
// tag ("en-US") or a POSIX locale ("pt_BR.UTF-8"). Unknown or empty locales
// get the Portuguese catalog.
func For(locale string) Messages {
	tag, err := language.Parse(normalize(locale))
	if err != nil {
		return catalogs[0]
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return catalogs[0]
	}
	return catalogs[index]
}

// FromEnv resolves the locale from EXPLORE_LOCALE, LC_ALL, LC_MESSAGES and
// LANG, in that order.
func FromEnv() string {
	for _, name := range []string{"EXPLORE_LOCALE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return ""
}

// normalize turns a POSIX locale into something language.Parse accepts.
func normalize(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ReplaceAll(locale, "_", "-")
}
