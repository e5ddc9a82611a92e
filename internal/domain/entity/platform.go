package entity

import (
	"strings"

	"github.com/jhoicas/ventapro-api/pkg/textnorm"
)

// platformSynonyms nombres alternativos de marketplaces tal como llegan de
// los registros importados. La clave es la forma normalizada (minúsculas, sin
// diacríticos), el valor el nombre canónico.
var platformSynonyms = map[string]string{
	"tiktok shop": "tiktok",
	"tiktokshop":  "tiktok",
	"tik tok":     "tiktok",
	"shopee vn":   "shopee",
	"lazada vn":   "lazada",
	"san tiki":    "tiki",
}

// NormalizePlatform devuelve el nombre canónico del marketplace: minúsculas,
// sin diacríticos, sinónimos conocidos consolidados ("tiktok shop" ≡ "tiktok").
func NormalizePlatform(platform string) string {
	p := strings.TrimSpace(textnorm.Fold(platform))
	if canonical, ok := platformSynonyms[p]; ok {
		return canonical
	}
	return p
}
