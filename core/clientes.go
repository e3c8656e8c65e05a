package core

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"architech/model"
)

// CalcularEdad devuelve la edad en años cumplidos para una fecha de
// nacimiento "YYYY-MM-DD". ok=false si la fecha no es parseable.
func CalcularEdad(fechaNacimiento string, hoy time.Time) (int, bool) {
	nacimiento, err := time.Parse("2006-01-02", strings.TrimSpace(fechaNacimiento))
	if err != nil {
		return 0, false
	}
	edad := hoy.Year() - nacimiento.Year()
	if hoy.Month() < nacimiento.Month() ||
		(hoy.Month() == nacimiento.Month() && hoy.Day() < nacimiento.Day()) {
		edad--
	}
	return edad, true
}

// RangoEdad agrupa una edad en los tramos que usa la vista de clientes.
func RangoEdad(edad int) string {
	switch {
	case edad < 18:
		return "< 18"
	case edad <= 25:
		return "18-25"
	case edad <= 35:
		return "26-35"
	case edad <= 45:
		return "36-45"
	case edad <= 55:
		return "46-55"
	case edad <= 65:
		return "56-65"
	default:
		return "> 65"
	}
}

// NormalizarTexto prepara una cadena para búsqueda: minúsculas y sin
// acentos (descomposición NFD y descarte de las marcas diacríticas).
func NormalizarTexto(s string) string {
	descompuesta := norm.NFD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(descompuesta))
	for _, r := range descompuesta {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AumentarClientes recalcula la vista ClienteAumentado: para cada cliente
// busca la vivienda (como mucho una, en cualquier promoción) que lo tiene
// como comprador y añade edad, tramo de edad y año de registro. Es una
// función pura sobre las instantáneas actuales; no se cachea.
func AumentarClientes(clientes []model.Cliente, proyectos []model.Promocion, hoy time.Time) []model.ClienteAumentado {
	resultado := make([]model.ClienteAumentado, 0, len(clientes))
	for _, c := range clientes {
		ac := model.ClienteAumentado{Cliente: c}

	busqueda:
		for i := range proyectos {
			p := &proyectos[i]
			for j := range p.Viviendas {
				v := &p.Viviendas[j]
				if v.CompradorID != "" && v.CompradorID == c.ID {
					ac.PromocionID = p.ID
					ac.PromocionNombre = p.Nombre
					ac.ViviendaID = v.ID
					ac.GarajeID = v.GarajeID
					ac.TrasteroID = v.TrasteroID
					break busqueda
				}
			}
		}

		if edad, ok := CalcularEdad(c.FechaNacimiento, hoy); ok {
			ac.Edad = edad
			ac.RangoEdad = RangoEdad(edad)
		}
		if c.FechaRegistro != "" {
			if t, err := time.Parse(time.RFC3339, c.FechaRegistro); err == nil {
				ac.AnoRegistro = t.Year()
			}
		}

		resultado = append(resultado, ac)
	}
	return resultado
}

// FiltrosCliente filtra la vista aumentada de clientes. Texto busca sin
// acentos ni mayúsculas en nombre, apellidos, email y teléfono.
type FiltrosCliente struct {
	Estado    string
	Tipo      string
	Grupo     string
	Promocion string
	RangoEdad string
	Texto     string
}

// FiltrarClientes aplica los filtros sobre la vista aumentada.
func FiltrarClientes(clientes []model.ClienteAumentado, f FiltrosCliente) []model.ClienteAumentado {
	texto := NormalizarTexto(strings.TrimSpace(f.Texto))
	var resultado []model.ClienteAumentado
	for _, c := range clientes {
		if f.Estado != "" && string(c.Estado) != f.Estado {
			continue
		}
		if f.Tipo != "" && string(c.Tipo) != f.Tipo {
			continue
		}
		if f.Grupo != "" && c.Grupo != f.Grupo {
			continue
		}
		if f.Promocion != "" && c.PromocionNombre != f.Promocion {
			continue
		}
		if f.RangoEdad != "" && c.RangoEdad != f.RangoEdad {
			continue
		}
		if texto != "" {
			pajar := NormalizarTexto(c.Nombre + " " + c.Apellidos + " " + c.Email + " " + c.Telefono)
			if !strings.Contains(pajar, texto) {
				continue
			}
		}
		resultado = append(resultado, c)
	}
	return resultado
}

// FusionarClientes aplica la semántica de importación de la vista de
// clientes: los ids ya existentes se actualizan campo a campo (el importado
// pisa al actual) y los nuevos se añaden al final, conservando el orden.
func FusionarClientes(actuales, importados []model.Cliente) []model.Cliente {
	indice := make(map[string]int, len(actuales))
	resultado := make([]model.Cliente, len(actuales))
	copy(resultado, actuales)
	for i := range resultado {
		indice[resultado[i].ID] = i
	}
	for _, c := range importados {
		if i, ok := indice[c.ID]; ok {
			resultado[i] = c
		} else {
			indice[c.ID] = len(resultado)
			resultado = append(resultado, c)
		}
	}
	return resultado
}
