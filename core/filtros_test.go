package core

import (
	"testing"

	"architech/model"
)

func viviendasDeMuestra() []model.Vivienda {
	return []model.Vivienda{
		{ID: "A-101", Edificio: "A", Planta: 1, Dormitorios: 3, Tipo: "A1", Posicion: "Esquina", Orientacion: "Norte", Precio: 95000, Estado: model.EstadoDisponible},
		{ID: "A-201", Edificio: "A", Planta: 2, Dormitorios: 2, Tipo: "A2", Orientacion: "Sur", Precio: 120000, Estado: model.EstadoReservada},
		{ID: "B-101", Edificio: "B", Planta: 1, Dormitorios: 3, Tipo: "A1", Orientacion: "Sur", Precio: 180000, Estado: model.EstadoVendida},
		{ID: "B-301", Edificio: "B", Planta: 3, Dormitorios: 4, Tipo: "B1", Orientacion: "Este", Precio: 250000, Estado: model.EstadoDisponible},
	}
}

func TestFiltrarViviendas(t *testing.T) {
	viviendas := viviendasDeMuestra()

	res := FiltrarViviendas(viviendas, FiltrosVivienda{Edificio: "A"})
	if len(res) != 2 {
		t.Errorf("edificio A: %d viviendas", len(res))
	}

	res = FiltrarViviendas(viviendas, FiltrosVivienda{Planta: "1", Dormitorios: "3"})
	if len(res) != 2 || res[0].ID != "A-101" || res[1].ID != "B-101" {
		t.Errorf("planta 1 con 3 dormitorios: %v", res)
	}

	res = FiltrarViviendas(viviendas, FiltrosVivienda{Estado: "Sold"})
	if len(res) != 1 || res[0].ID != "B-101" {
		t.Errorf("vendidas: %v", res)
	}

	if res = FiltrarViviendas(viviendas, FiltrosVivienda{}); len(res) != 4 {
		t.Errorf("sin filtros deben pasar todas: %d", len(res))
	}
}

func TestRangosDePrecio(t *testing.T) {
	viviendas := viviendasDeMuestra()
	casos := map[string][]string{
		"<100":    {"A-101"},
		"100-150": {"A-201"},
		"150-200": {"B-101"},
		">200":    {"B-301"},
	}
	for rango, esperadas := range casos {
		res := FiltrarViviendas(viviendas, FiltrosVivienda{RangoPrecio: rango})
		if len(res) != len(esperadas) {
			t.Errorf("rango %q: %d viviendas, se esperaban %d", rango, len(res), len(esperadas))
			continue
		}
		for i, id := range esperadas {
			if res[i].ID != id {
				t.Errorf("rango %q: %v", rango, res)
			}
		}
	}
}

func TestOpcionesDeFiltros(t *testing.T) {
	op := OpcionesDeFiltros(viviendasDeMuestra())
	if len(op.Edificios) != 2 || op.Edificios[0] != "A" || op.Edificios[1] != "B" {
		t.Errorf("edificios: %v", op.Edificios)
	}
	if len(op.Plantas) != 3 || op.Plantas[0] != 1 || op.Plantas[2] != 3 {
		t.Errorf("plantas ordenadas: %v", op.Plantas)
	}
	if len(op.Dormitorios) != 3 {
		t.Errorf("dormitorios: %v", op.Dormitorios)
	}
	// Las orientaciones vacías (no las hay aquí) y duplicadas se descartan.
	if len(op.Orientaciones) != 3 {
		t.Errorf("orientaciones: %v", op.Orientaciones)
	}
	if len(op.Estados) != 3 {
		t.Errorf("los tres estados son fijos: %v", op.Estados)
	}
}

func TestCuadroReservas(t *testing.T) {
	cuadro := CuadroReservas(viviendasDeMuestra())
	if len(cuadro) != 2 {
		t.Fatalf("se esperaban 2 edificios, hay %d", len(cuadro))
	}
	if cuadro[0].Edificio != "A" || cuadro[1].Edificio != "B" {
		t.Errorf("edificios en orden alfabético: %v", cuadro)
	}
	// Las plantas van de arriba abajo.
	a := cuadro[0]
	if len(a.Plantas) != 2 || a.Plantas[0].Planta != 2 || a.Plantas[1].Planta != 1 {
		t.Errorf("plantas descendentes: %+v", a.Plantas)
	}
	b := cuadro[1]
	if b.Plantas[0].Planta != 3 || b.Plantas[1].Planta != 1 {
		t.Errorf("plantas de B: %+v", b.Plantas)
	}
}
