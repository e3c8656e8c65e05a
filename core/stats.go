package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"architech/model"
)

// PilaEstados es una barra apilada del panel: cuántas viviendas hay en cada
// estado dentro de un grupo (un edificio, un tipo, un tramo de precio).
type PilaEstados struct {
	Nombre      string `json:"nombre"`
	Disponibles int    `json:"disponibles"`
	Reservadas  int    `json:"reservadas"`
	Vendidas    int    `json:"vendidas"`
}

func (p *PilaEstados) suma(e model.Estado) {
	switch e {
	case model.EstadoReservada:
		p.Reservadas++
	case model.EstadoVendida:
		p.Vendidas++
	default:
		p.Disponibles++
	}
}

func estadosPor(viviendas []model.Vivienda, clave func(*model.Vivienda) string) []PilaEstados {
	indice := make(map[string]int)
	var pilas []PilaEstados
	for i := range viviendas {
		v := &viviendas[i]
		nombre := clave(v)
		if nombre == "" {
			nombre = "N/A"
		}
		j, ok := indice[nombre]
		if !ok {
			j = len(pilas)
			indice[nombre] = j
			pilas = append(pilas, PilaEstados{Nombre: nombre})
		}
		pilas[j].suma(v.Estado)
	}
	sort.Slice(pilas, func(i, j int) bool { return pilas[i].Nombre < pilas[j].Nombre })
	return pilas
}

// EstadosPorEdificio apila los estados por edificio.
func EstadosPorEdificio(viviendas []model.Vivienda) []PilaEstados {
	return estadosPor(viviendas, func(v *model.Vivienda) string { return v.Edificio })
}

// EstadosPorTipo apila los estados por tipo de vivienda.
func EstadosPorTipo(viviendas []model.Vivienda) []PilaEstados {
	return estadosPor(viviendas, func(v *model.Vivienda) string { return v.Tipo })
}

// EstadosPorPrecio apila los estados por tramo de precio. Los tramos se
// calculan sobre los precios presentes: redondeo a múltiplos de 25.000 €,
// entre 1 y 5 intervalos de tamaño redondeado a 5.000 €. Las viviendas sin
// precio (0) quedan fuera.
func EstadosPorPrecio(viviendas []model.Vivienda) []PilaEstados {
	var precios []float64
	for i := range viviendas {
		if viviendas[i].Precio > 0 {
			precios = append(precios, viviendas[i].Precio)
		}
	}
	if len(precios) == 0 {
		return nil
	}

	minimo, maximo := precios[0], precios[0]
	for _, p := range precios[1:] {
		if p < minimo {
			minimo = p
		}
		if p > maximo {
			maximo = p
		}
	}

	base := math.Floor(minimo/25000) * 25000
	techo := math.Ceil(maximo/25000) * 25000
	if base >= techo {
		techo = base + 25000
	}

	rango := techo - base
	intervalos := int(rango / 25000)
	if intervalos < 1 {
		intervalos = 1
	}
	if intervalos > 5 {
		intervalos = 5
	}
	tamano := math.Ceil(rango/float64(intervalos)/5000) * 5000

	formatoK := func(v float64) string { return fmt.Sprintf("%.0fk", math.Round(v/1000)) }

	pilas := make([]PilaEstados, intervalos)
	limites := make([][2]float64, intervalos)
	for i := 0; i < intervalos; i++ {
		inicio := base + float64(i)*tamano
		fin := inicio + tamano
		limites[i] = [2]float64{inicio, fin}
		pilas[i].Nombre = formatoK(inicio) + " - " + formatoK(fin)
	}

	for i := range viviendas {
		v := &viviendas[i]
		for j := range limites {
			if v.Precio >= limites[j][0] && v.Precio < limites[j][1] {
				pilas[j].suma(v.Estado)
				break
			}
		}
	}
	return pilas
}

// PuntoSerie es un punto de la serie temporal de actividad comercial.
type PuntoSerie struct {
	Periodo  string `json:"periodo"`
	Reservas int    `json:"reservas"`
	Ventas   int    `json:"ventas"`
}

func clavePeriodo(t time.Time, escala string) string {
	switch escala {
	case "semana":
		ano, semana := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", ano, semana)
	case "ano":
		return fmt.Sprintf("%d", t.Year())
	default: // mes
		return t.Format("2006-01")
	}
}

// VentasPorPeriodo agrupa reservas y ventas por periodo (escala "semana",
// "mes" o "ano") a partir de las fechas ISO de las viviendas. Fechas no
// parseables se ignoran.
func VentasPorPeriodo(viviendas []model.Vivienda, escala string) []PuntoSerie {
	indice := make(map[string]int)
	var serie []PuntoSerie

	punto := func(periodo string) *PuntoSerie {
		i, ok := indice[periodo]
		if !ok {
			i = len(serie)
			indice[periodo] = i
			serie = append(serie, PuntoSerie{Periodo: periodo})
		}
		return &serie[i]
	}

	for i := range viviendas {
		v := &viviendas[i]
		if v.FechaReserva != "" {
			if t, err := time.Parse(time.RFC3339, v.FechaReserva); err == nil {
				punto(clavePeriodo(t, escala)).Reservas++
			}
		}
		if v.FechaVenta != "" {
			if t, err := time.Parse(time.RFC3339, v.FechaVenta); err == nil {
				punto(clavePeriodo(t, escala)).Ventas++
			}
		}
	}

	sort.Slice(serie, func(i, j int) bool { return serie[i].Periodo < serie[j].Periodo })
	return serie
}

// ResumenProyecto son los totales de cabecera del panel.
type ResumenProyecto struct {
	Total          int     `json:"total"`
	Disponibles    int     `json:"disponibles"`
	Reservadas     int     `json:"reservadas"`
	Vendidas       int     `json:"vendidas"`
	ImporteTotal   float64 `json:"importeTotal"`
	ImporteVendido float64 `json:"importeVendido"`
}

// Resumen calcula los totales sobre una colección de viviendas.
func Resumen(viviendas []model.Vivienda) ResumenProyecto {
	var r ResumenProyecto
	r.Total = len(viviendas)
	for i := range viviendas {
		v := &viviendas[i]
		r.ImporteTotal += v.Precio
		switch v.Estado {
		case model.EstadoReservada:
			r.Reservadas++
		case model.EstadoVendida:
			r.Vendidas++
			r.ImporteVendido += v.Precio
		default:
			r.Disponibles++
		}
	}
	return r
}

// Dashboard reúne todos los agregados que pinta la vista principal.
type Dashboard struct {
	Resumen     ResumenProyecto `json:"resumen"`
	PorEdificio []PilaEstados   `json:"porEdificio"`
	PorTipo     []PilaEstados   `json:"porTipo"`
	PorPrecio   []PilaEstados   `json:"porPrecio"`
	Serie       []PuntoSerie    `json:"serie"`
}

// DashboardDe calcula el panel completo para unas viviendas ya filtradas.
func DashboardDe(viviendas []model.Vivienda, escala string) Dashboard {
	return Dashboard{
		Resumen:     Resumen(viviendas),
		PorEdificio: EstadosPorEdificio(viviendas),
		PorTipo:     EstadosPorTipo(viviendas),
		PorPrecio:   EstadosPorPrecio(viviendas),
		Serie:       VentasPorPeriodo(viviendas, escala),
	}
}
