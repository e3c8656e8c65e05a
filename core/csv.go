package core

import (
	"fmt"
	"strings"
)

// TablaCSV es el resultado de parsear un CSV delimitado por ';'. Cada fila
// es un mapa cabecera→valor (ya recortado). Grupos solo se rellena cuando el
// fichero lleva doble cabecera (línea de grupos + línea de columnas).
type TablaCSV struct {
	Filas     []map[string]string
	Cabeceras []string
	Grupos    []string
}

// limpiaCabecera recorta la celda y elimina el BOM que Excel cuela en la
// primera cabecera de los ficheros exportados.
func limpiaCabecera(celda string) string {
	return strings.ReplaceAll(strings.TrimSpace(celda), "\uFEFF", "")
}

// ParseTablaCSV parsea el contenido de un CSV, manejando cabecera simple o
// doble y validando que cada línea tenga exactamente tantas columnas como la
// cabecera. Los números de línea de los errores son 1-based sobre el fichero
// original, contando las líneas de cabecera.
func ParseTablaCSV(texto string, conGrupos bool) (*TablaCSV, error) {
	var lineas []string
	for _, l := range strings.Split(texto, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lineas = append(lineas, l)
		}
	}

	minimo := 1
	if conGrupos {
		minimo = 2
	}
	if len(lineas) < minimo {
		return &TablaCSV{}, nil
	}

	t := &TablaCSV{}
	var datos []string
	if conGrupos {
		for _, c := range strings.Split(lineas[0], ";") {
			t.Grupos = append(t.Grupos, limpiaCabecera(c))
		}
		for _, c := range strings.Split(lineas[1], ";") {
			t.Cabeceras = append(t.Cabeceras, limpiaCabecera(c))
		}
		datos = lineas[2:]
	} else {
		for _, c := range strings.Split(lineas[0], ";") {
			t.Cabeceras = append(t.Cabeceras, limpiaCabecera(c))
		}
		datos = lineas[1:]
	}

	esperadas := len(t.Cabeceras)
	if conGrupos && len(t.Grupos) != esperadas {
		return nil, fmt.Errorf("inconsistencia en cabeceras: la fila de grupos tiene %d columnas, pero la de cabeceras tiene %d", len(t.Grupos), esperadas)
	}

	desplazamiento := 2
	if conGrupos {
		desplazamiento = 3
	}

	for i, linea := range datos {
		valores := strings.Split(linea, ";")
		if len(valores) != esperadas {
			numLinea := i + desplazamiento
			return nil, fmt.Errorf("error en la línea %d: se esperaban %d columnas pero se encontraron %d. Contenido: %q", numLinea, esperadas, len(valores), linea)
		}
		fila := make(map[string]string, esperadas)
		for j, cab := range t.Cabeceras {
			fila[cab] = strings.TrimSpace(valores[j])
		}
		t.Filas = append(t.Filas, fila)
	}

	return t, nil
}

// ValorDeFila busca en la fila la primera de las claves candidatas,
// ignorando mayúsculas y espacios sobrantes. Los nombres de columna varían
// entre exportaciones históricas, de ahí la lista ordenada de candidatas.
// ok=false significa que ninguna candidata existe en la fila.
func ValorDeFila(fila map[string]string, candidatas ...string) (string, bool) {
	indice := make(map[string]string, len(fila))
	for k := range fila {
		indice[strings.ToLower(strings.TrimSpace(k))] = k
	}
	for _, candidata := range candidatas {
		if original, ok := indice[strings.ToLower(strings.TrimSpace(candidata))]; ok {
			return fila[original], true
		}
	}
	return "", false
}
