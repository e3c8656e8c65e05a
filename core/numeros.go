package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reResiduoNumero = regexp.MustCompile(`[^0-9.\-]`)

// reImporte reconoce valores con pinta de número en formato español, con o
// sin símbolo de euro ("1.234,56 €", "0,00", "12"). Lo usa la heurística de
// importación para decidir qué columnas dinámicas convertir a número.
var reImporte = regexp.MustCompile(`^[0-9.,\s€]+$`)

// ParseNumeroES convierte un importe en formato es-ES ("1.234,56 €") a
// float64. Quita el euro y los espacios, elimina los puntos de millares,
// cambia la coma decimal por punto y descarta cualquier resto no numérico.
// Nunca falla: una entrada ilegible vale 0. La coerción silenciosa es
// deliberada y los consumidores deben tolerarla.
func ParseNumeroES(s string) float64 {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0
	}
	v = strings.TrimSpace(strings.ReplaceAll(v, "€", ""))
	v = strings.ReplaceAll(v, ".", "")
	v = strings.Replace(v, ",", ".", 1)
	v = reResiduoNumero.ReplaceAllString(v, "")

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) {
		return 0
	}
	return n
}

// ParseEnteroES extrae el entero inicial de una cadena ("3", "-1", "2 B");
// devuelve 0 si no empieza por un número.
func ParseEnteroES(s string) int {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0
	}
	fin := 0
	if v[0] == '-' || v[0] == '+' {
		fin = 1
	}
	for fin < len(v) && v[fin] >= '0' && v[fin] <= '9' {
		fin++
	}
	n, err := strconv.Atoi(v[:fin])
	if err != nil {
		return 0
	}
	return n
}

// esImporte indica si un valor crudo de celda debe pasar por ParseNumeroES
// según la heurística de importación. Se excluyen las celdas vacías.
func esImporte(valor string) bool {
	return strings.TrimSpace(valor) != "" && reImporte.MatchString(valor)
}

// esCabeceraNumerica detecta cabeceras que son en sí mismas un número (por
// ejemplo columnas "2024"); sobre esas la heurística no actúa.
func esCabeceraNumerica(cabecera string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(cabecera), 64)
	return err == nil
}
