// Package textnorm normaliza texto para comparaciones tolerantes: minúsculas,
// sin tildes ni diacríticos. Los nombres de producto y notas de los pedidos
// llegan en vietnamita con marcas combinantes, y la búsqueda libre debe
// encontrar "bán sỉ" escribiendo "ban si".
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // elimina marcas combinantes (tildes, thanh điệu)
	norm.NFC,
)

// đ/Đ es una letra independiente (U+0111/U+0110), no una base con marca
// combinante: la descomposición NFD no la toca y hay que mapearla aparte.
var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// Fold devuelve el texto en minúsculas y sin diacríticos.
// Si la transformación falla (entrada no UTF-8), cae a ToLower simple.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(dStroke.Replace(out))
}

// ContainsFold informa si s contiene substr, comparando ambos normalizados.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(Fold(s), Fold(substr))
}
