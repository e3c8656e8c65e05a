package core

import (
	"io"
	"strings"
	"testing"

	"architech/model"
)

const ficheroGenerales = `PROMOCIÓN;Residencial Sol
CÓDIGO;RS-01
RÉGIMEN;VPO
RÉGIMEN;Libre
LOCALIDAD;Valencia
Nº MÁX. VIVIENDAS;48
PEM PROYECTO;3.250.000,00 €
ETIQUETA DESCONOCIDA;se ignora
`

const ficheroViviendas = `GENERAL;GENERAL;GENERAL;GENERAL;SUPERFICIES;ECONOMÍA;OTROS;OTROS
ID VIVIENDA;EDIFICIO;NIVEL;Nº DORM;SUP. ÚTIL VIVIENDA;PRECIO DE VENTA;FASE;OBSERVACIONES
A-101;A;1;3;85,50;150.000,00 €;1;Norte
A-102;A;1;2;70,00;120.000,00 €;2 B;
;A;2;3;85,50;150.000,00 €;1;sin id
A-101;A;2;3;85,50;150.000,00 €;1;duplicada
`

const ficheroGarajes = `GENERAL;GENERAL;SUPERFICIES;SUPERFICIES;ECONOMÍA;GENERAL
ID-G;TRASTERO VINC;CONST-G;ÚTIL PRIV-G;PRECIO MÁX-G;TIPO-G
G-1;T-1;25,00;12,50;9.000,00 €;Coche
G-2;;25,00;12,50;9.000,00 €;Moto
`

const ficheroTrasteros = `ID-T;PLAZA VINCULADA;CONST-T;ÚTIL PRIV-T;PRECIO MÁX-T
T-1;G-1;6,00;4,50;3.000,00 €
T-2;;6,00;4,50;3.000,00 €
`

func ficherosDePrueba() *FicherosProyecto {
	return &FicherosProyecto{
		Generales: ficheroGenerales,
		Viviendas: ficheroViviendas,
		Garajes:   ficheroGarajes,
		Trasteros: ficheroTrasteros,
	}
}

func TestParsearProyectoFicha(t *testing.T) {
	p, err := ParsearProyecto(ficherosDePrueba())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if p.Nombre != "Residencial Sol" {
		t.Errorf("Nombre = %q", p.Nombre)
	}
	if p.Codigo != "RS-01" || p.Localidad != "Valencia" {
		t.Errorf("ficha mal mapeada: %+v", p)
	}
	// La primera aparición de RÉGIMEN va a Regimen y la segunda a Regimen2.
	if p.Regimen != "VPO" || p.Regimen2 != "Libre" {
		t.Errorf("Regimen = %q, Regimen2 = %q", p.Regimen, p.Regimen2)
	}
	if p.MaxViviendas != 48 {
		t.Errorf("MaxViviendas = %v", p.MaxViviendas)
	}
	if p.PEMProyecto != 3250000 {
		t.Errorf("PEMProyecto = %v", p.PEMProyecto)
	}
}

func TestParsearProyectoNombrePorDefecto(t *testing.T) {
	f := ficherosDePrueba()
	f.Generales = "CÓDIGO;X\n"
	p, err := ParsearProyecto(f)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if p.Nombre != "Proyecto Importado" {
		t.Errorf("Nombre = %q", p.Nombre)
	}
}

func TestParsearProyectoViviendas(t *testing.T) {
	p, err := ParsearProyecto(ficherosDePrueba())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	// La fila sin id y la duplicada se descartan.
	if len(p.Viviendas) != 2 {
		t.Fatalf("se esperaban 2 viviendas, hay %d", len(p.Viviendas))
	}

	v := p.Viviendas[0]
	if v.ID != "A-101" || v.Edificio != "A" || v.Planta != 1 || v.Dormitorios != 3 {
		t.Errorf("vivienda mal mapeada: %+v", v)
	}
	if v.SupUtilVivienda != 85.5 {
		t.Errorf("SupUtilVivienda = %v", v.SupUtilVivienda)
	}
	if v.Precio != 150000 {
		t.Errorf("Precio = %v", v.Precio)
	}
	if v.Estado != model.EstadoDisponible {
		t.Errorf("el estado tras importar debe ser Disponible: %v", v.Estado)
	}

	// FASE se fuerza a entero; OBSERVACIONES queda como texto.
	if fase, ok := v.Extra["FASE"].(int); !ok || fase != 1 {
		t.Errorf("Extra[FASE] = %#v", v.Extra["FASE"])
	}
	if v.Extra["OBSERVACIONES"] != "Norte" {
		t.Errorf("Extra[OBSERVACIONES] = %#v", v.Extra["OBSERVACIONES"])
	}
	// La heurística convierte el precio también en el mapa dinámico.
	if precio, ok := v.Extra["PRECIO DE VENTA"].(float64); !ok || precio != 150000 {
		t.Errorf("Extra[PRECIO DE VENTA] = %#v", v.Extra["PRECIO DE VENTA"])
	}

	// "2 B" no es puramente numérico: ParseEnteroES extrae el 2.
	if fase, ok := p.Viviendas[1].Extra["FASE"].(int); !ok || fase != 2 {
		t.Errorf("Extra[FASE] de A-102 = %#v", p.Viviendas[1].Extra["FASE"])
	}

	if len(p.CabecerasViviendas) != 8 || len(p.GruposViviendas) != 8 {
		t.Errorf("cabeceras/grupos no conservados: %d/%d", len(p.CabecerasViviendas), len(p.GruposViviendas))
	}
}

func TestParsearProyectoGarajesYTrasteros(t *testing.T) {
	p, err := ParsearProyecto(ficherosDePrueba())
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if len(p.Garajes) != 2 || len(p.Trasteros) != 2 {
		t.Fatalf("garajes=%d trasteros=%d", len(p.Garajes), len(p.Trasteros))
	}
	g := p.Garajes[0]
	if g.ID != "G-1" || g.TrasteroVinculadoID != "T-1" || g.Precio != 9000 || g.Tipo != "Coche" {
		t.Errorf("garaje mal mapeado: %+v", g)
	}
	tr := p.Trasteros[0]
	if tr.ID != "T-1" || tr.PlazaVinculadaID != "G-1" || tr.SupUtil != 4.5 {
		t.Errorf("trastero mal mapeado: %+v", tr)
	}
}

func TestParsearProyectoDescartaAnejosSinIdentidad(t *testing.T) {
	f := ficherosDePrueba()
	f.Garajes = "G;G\nID-G;TIPO-G\n;Coche\nG-1;Moto\nG-1;Coche\n"
	f.Trasteros = "ID-T;CONST-T\n;6,00\nT-1;6,00\n"
	p, err := ParsearProyecto(f)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if len(p.Garajes) != 1 || p.Garajes[0].ID != "G-1" || p.Garajes[0].Tipo != "Moto" {
		t.Errorf("filas sin id o duplicadas deben descartarse: %+v", p.Garajes)
	}
	if len(p.Trasteros) != 1 || p.Trasteros[0].ID != "T-1" {
		t.Errorf("filas sin id deben descartarse: %+v", p.Trasteros)
	}
}

func TestParsearProyectoErrorConMarcador(t *testing.T) {
	f := ficherosDePrueba()
	f.Garajes = "G;G\nA;B\n1;2;3\n"
	_, err := ParsearProyecto(f)
	if err == nil {
		t.Fatal("un CSV de garajes corrupto debe abortar la importación")
	}
	if !strings.Contains(err.Error(), MarcaGarajes) {
		t.Errorf("el error debe indicar qué fichero falló: %v", err)
	}
}

func TestDecodificarLatin1(t *testing.T) {
	// "AÑO" en ISO-8859-1: la Ñ es el byte 0xD1.
	contenido, err := DecodificarLatin1(strings.NewReader("A\xd1O"))
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if contenido != "AÑO" {
		t.Errorf("decodificado = %q", contenido)
	}
}

func TestClasificarFicheros(t *testing.T) {
	ficheros := map[string]io.Reader{
		"25-03-20 DS GENERALES.csv":   strings.NewReader("a"),
		"25-03-20 TS GENERAL.csv":     strings.NewReader("b"),
		"25-03-20 GARAJES.csv":        strings.NewReader("c"),
		"25-03-20 TRASTEROS BR_2.csv": strings.NewReader("d"),
	}
	fp, err := ClasificarFicheros(ficheros)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if fp.Generales != "a" || fp.Viviendas != "b" || fp.Garajes != "c" || fp.Trasteros != "d" {
		t.Errorf("clasificación incorrecta: %+v", fp)
	}
}

func TestClasificarFicherosNumeroIncorrecto(t *testing.T) {
	_, err := ClasificarFicheros(map[string]io.Reader{"uno.csv": strings.NewReader("")})
	if err == nil || !strings.Contains(err.Error(), "exactamente 4") {
		t.Fatalf("debe exigir cuatro ficheros: %v", err)
	}
}

func TestClasificarFicherosMarcadorAusente(t *testing.T) {
	ficheros := map[string]io.Reader{
		"DS GENERALES.csv": strings.NewReader("a"),
		"TS GENERAL.csv":   strings.NewReader("b"),
		"GARAJES.csv":      strings.NewReader("c"),
		"otro.csv":         strings.NewReader("d"),
	}
	_, err := ClasificarFicheros(ficheros)
	if err == nil || !strings.Contains(err.Error(), "falta uno o más ficheros") {
		t.Fatalf("un marcador ausente debe fallar: %v", err)
	}
}
