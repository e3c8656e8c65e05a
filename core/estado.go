package core

import (
	"strings"

	"architech/model"
)

// EstadoGaraje calcula el estado derivado de un garaje: el de la vivienda
// que lo tiene asignado, o Disponible si ninguna lo referencia. No se cachea
// nada: es un join puro en lectura sobre la instantánea actual. Si dos
// viviendas referencian el mismo garaje (error de datos) gana la primera en
// orden de colección.
func EstadoGaraje(p *model.Promocion, garajeID string) model.Estado {
	for i := range p.Viviendas {
		if p.Viviendas[i].GarajeID == garajeID {
			return p.Viviendas[i].Estado
		}
	}
	return model.EstadoDisponible
}

// EstadoTrastero es el equivalente de EstadoGaraje para trasteros.
func EstadoTrastero(p *model.Promocion, trasteroID string) model.Estado {
	for i := range p.Viviendas {
		if p.Viviendas[i].TrasteroID == trasteroID {
			return p.Viviendas[i].Estado
		}
	}
	return model.EstadoDisponible
}

// GarajeConEstado acompaña un garaje con su estado derivado y la vivienda
// que lo ocupa, para las vistas de garajes.
type GarajeConEstado struct {
	model.Garaje
	Estado     model.Estado `json:"estado"`
	ViviendaID string       `json:"viviendaId,omitempty"`
}

// TrasteroConEstado es el equivalente para trasteros.
type TrasteroConEstado struct {
	model.Trastero
	Estado     model.Estado `json:"estado"`
	ViviendaID string       `json:"viviendaId,omitempty"`
}

// GarajesConEstado materializa la lista de garajes con estado derivado.
func GarajesConEstado(p *model.Promocion) []GarajeConEstado {
	resultado := make([]GarajeConEstado, 0, len(p.Garajes))
	for i := range p.Garajes {
		g := GarajeConEstado{Garaje: p.Garajes[i], Estado: model.EstadoDisponible}
		for j := range p.Viviendas {
			if p.Viviendas[j].GarajeID == g.ID {
				g.Estado = p.Viviendas[j].Estado
				g.ViviendaID = p.Viviendas[j].ID
				break
			}
		}
		resultado = append(resultado, g)
	}
	return resultado
}

// TrasterosConEstado materializa la lista de trasteros con estado derivado.
func TrasterosConEstado(p *model.Promocion) []TrasteroConEstado {
	resultado := make([]TrasteroConEstado, 0, len(p.Trasteros))
	for i := range p.Trasteros {
		t := TrasteroConEstado{Trastero: p.Trasteros[i], Estado: model.EstadoDisponible}
		for j := range p.Viviendas {
			if p.Viviendas[j].TrasteroID == t.ID {
				t.Estado = p.Viviendas[j].Estado
				t.ViviendaID = p.Viviendas[j].ID
				break
			}
		}
		resultado = append(resultado, t)
	}
	return resultado
}

// ModoNotas controla qué se hace con las notas en una acción masiva.
type ModoNotas string

const (
	NotasAnadir       ModoNotas = "append"
	NotasSobrescribir ModoNotas = "overwrite"
)

// CambioEstado describe una acción masiva sobre un conjunto de viviendas.
// Los campos vacíos no se tocan. Al pasar a Disponible se limpian siempre
// comprador y fechas, se pida lo que se pida.
type CambioEstado struct {
	Estado       model.Estado `json:"estado,omitempty"`
	FechaReserva string       `json:"fechaReserva,omitempty"`
	FechaVenta   string       `json:"fechaVenta,omitempty"`
	Notas        string       `json:"notas,omitempty"`
	ModoNotas    ModoNotas    `json:"modoNotas,omitempty"`
}

// aplicarCambioEstado muta una vivienda según la acción masiva.
func aplicarCambioEstado(v *model.Vivienda, c CambioEstado) {
	if c.Estado != "" {
		v.Estado = c.Estado
		switch c.Estado {
		case model.EstadoDisponible:
			v.CompradorID = ""
			v.FechaReserva = ""
			v.FechaVenta = ""
		case model.EstadoReservada:
			if c.FechaReserva != "" {
				v.FechaReserva = c.FechaReserva
			}
		case model.EstadoVendida:
			if c.FechaReserva != "" {
				v.FechaReserva = c.FechaReserva
			}
			if c.FechaVenta != "" {
				v.FechaVenta = c.FechaVenta
			}
		}
	}

	if nota := strings.TrimSpace(c.Notas); nota != "" {
		if c.ModoNotas == NotasSobrescribir {
			v.Notas = nota
		} else {
			if v.Notas != "" {
				v.Notas = v.Notas + "\n" + nota
			} else {
				v.Notas = nota
			}
		}
	}
}
