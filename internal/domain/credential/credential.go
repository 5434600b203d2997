// Package credential normaliza la API key de Takealot.
//
// La key se persiste y se envía como "Key <token>". Normalize es idempotente:
// Normalize(Normalize(x)) == Normalize(x), así nunca queda "Key Key <token>".
package credential

import (
	"regexp"
	"strings"
)

// Prefix literal que exige el header Authorization de Takealot.
const Prefix = "Key "

var prefixRe = regexp.MustCompile(`^Key\s+`)

// Strip quita un único prefijo "Key" (seguido de espacios) y los espacios exteriores.
// Es la forma en que la key se muestra en el formulario de configuración.
func Strip(key string) string {
	s := strings.TrimLeft(key, " \t\r\n")
	return strings.TrimSpace(prefixRe.ReplaceAllString(s, ""))
}

// Normalize devuelve la key con exactamente un prefijo "Key ", o "" si no hay token.
func Normalize(key string) string {
	token := Strip(key)
	if token == "" {
		return ""
	}
	return Prefix + token
}

// AuthorizationHeader valor del header Authorization para la key dada.
func AuthorizationHeader(key string) string {
	return Normalize(key)
}
