package core

import (
	"sort"
	"strconv"

	"architech/model"
)

// FiltrosVivienda replica los desplegables del panel. Cada campo vacío
// significa "sin filtrar". Planta y Dormitorios llegan como texto porque
// vienen de query params.
type FiltrosVivienda struct {
	Edificio    string
	Planta      string
	Dormitorios string
	Estado      string
	Tipo        string
	Posicion    string
	Orientacion string
	RangoPrecio string // "<100" | "100-150" | "150-200" | ">200" (miles de €)
}

func enRangoPrecio(precio float64, rango string) bool {
	switch rango {
	case "<100":
		return precio < 100000
	case "100-150":
		return precio >= 100000 && precio < 150000
	case "150-200":
		return precio >= 150000 && precio < 200000
	case ">200":
		return precio >= 200000
	default:
		return true
	}
}

// Coincide indica si la vivienda pasa todos los filtros activos.
func (f FiltrosVivienda) Coincide(v *model.Vivienda) bool {
	if f.Edificio != "" && v.Edificio != f.Edificio {
		return false
	}
	if f.Planta != "" {
		if planta, err := strconv.Atoi(f.Planta); err != nil || v.Planta != planta {
			return false
		}
	}
	if f.Dormitorios != "" {
		if dorm, err := strconv.Atoi(f.Dormitorios); err != nil || v.Dormitorios != dorm {
			return false
		}
	}
	if f.Estado != "" && string(v.Estado) != f.Estado {
		return false
	}
	if f.Tipo != "" && v.Tipo != f.Tipo {
		return false
	}
	if f.Posicion != "" && v.Posicion != f.Posicion {
		return false
	}
	if f.Orientacion != "" && v.Orientacion != f.Orientacion {
		return false
	}
	if f.RangoPrecio != "" && !enRangoPrecio(v.Precio, f.RangoPrecio) {
		return false
	}
	return true
}

// FiltrarViviendas devuelve las viviendas que pasan los filtros.
func FiltrarViviendas(viviendas []model.Vivienda, f FiltrosVivienda) []model.Vivienda {
	var resultado []model.Vivienda
	for i := range viviendas {
		if f.Coincide(&viviendas[i]) {
			resultado = append(resultado, viviendas[i])
		}
	}
	return resultado
}

// OpcionesFiltros son los valores distintos presentes en la colección, ya
// ordenados, con los que la vista monta sus desplegables.
type OpcionesFiltros struct {
	Edificios     []string       `json:"edificios"`
	Plantas       []int          `json:"plantas"`
	Dormitorios   []int          `json:"dormitorios"`
	Estados       []model.Estado `json:"estados"`
	Tipos         []string       `json:"tipos"`
	Posiciones    []string       `json:"posiciones"`
	Orientaciones []string       `json:"orientaciones"`
}

func valoresUnicos(viviendas []model.Vivienda, extraer func(*model.Vivienda) string) []string {
	vistos := make(map[string]bool)
	var valores []string
	for i := range viviendas {
		v := extraer(&viviendas[i])
		if v == "" || vistos[v] {
			continue
		}
		vistos[v] = true
		valores = append(valores, v)
	}
	sort.Strings(valores)
	return valores
}

func enterosUnicos(viviendas []model.Vivienda, extraer func(*model.Vivienda) int) []int {
	vistos := make(map[int]bool)
	var valores []int
	for i := range viviendas {
		v := extraer(&viviendas[i])
		if vistos[v] {
			continue
		}
		vistos[v] = true
		valores = append(valores, v)
	}
	sort.Ints(valores)
	return valores
}

// OpcionesDeFiltros calcula las opciones de los desplegables para una
// colección de viviendas.
func OpcionesDeFiltros(viviendas []model.Vivienda) OpcionesFiltros {
	return OpcionesFiltros{
		Edificios:     valoresUnicos(viviendas, func(v *model.Vivienda) string { return v.Edificio }),
		Plantas:       enterosUnicos(viviendas, func(v *model.Vivienda) int { return v.Planta }),
		Dormitorios:   enterosUnicos(viviendas, func(v *model.Vivienda) int { return v.Dormitorios }),
		Estados:       []model.Estado{model.EstadoDisponible, model.EstadoReservada, model.EstadoVendida},
		Tipos:         valoresUnicos(viviendas, func(v *model.Vivienda) string { return v.Tipo }),
		Posiciones:    valoresUnicos(viviendas, func(v *model.Vivienda) string { return v.Posicion }),
		Orientaciones: valoresUnicos(viviendas, func(v *model.Vivienda) string { return v.Orientacion }),
	}
}

// PlantaReservas agrupa las viviendas de una planta para el cuadro de
// reservas.
type PlantaReservas struct {
	Planta    int              `json:"planta"`
	Viviendas []model.Vivienda `json:"viviendas"`
}

// EdificioReservas agrupa las plantas de un edificio, de arriba abajo.
type EdificioReservas struct {
	Edificio string           `json:"edificio"`
	Plantas  []PlantaReservas `json:"plantas"`
}

// CuadroReservas monta la cuadrícula de la vista de reservas: edificios en
// orden alfabético, plantas descendentes y viviendas por id.
func CuadroReservas(viviendas []model.Vivienda) []EdificioReservas {
	porEdificio := make(map[string]map[int][]model.Vivienda)
	for _, v := range viviendas {
		if porEdificio[v.Edificio] == nil {
			porEdificio[v.Edificio] = make(map[int][]model.Vivienda)
		}
		porEdificio[v.Edificio][v.Planta] = append(porEdificio[v.Edificio][v.Planta], v)
	}

	edificios := make([]string, 0, len(porEdificio))
	for e := range porEdificio {
		edificios = append(edificios, e)
	}
	sort.Strings(edificios)

	resultado := make([]EdificioReservas, 0, len(edificios))
	for _, e := range edificios {
		plantas := make([]int, 0, len(porEdificio[e]))
		for planta := range porEdificio[e] {
			plantas = append(plantas, planta)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(plantas)))

		er := EdificioReservas{Edificio: e}
		for _, planta := range plantas {
			vs := porEdificio[e][planta]
			sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
			er.Plantas = append(er.Plantas, PlantaReservas{Planta: planta, Viviendas: vs})
		}
		resultado = append(resultado, er)
	}
	return resultado
}
