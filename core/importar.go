package core

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"architech/model"
)

// Marcadores de fichero del juego de importación: cada CSV se identifica por
// subcadena en el nombre, sin distinguir mayúsculas.
const (
	MarcaGenerales = "DS GENERALES"
	MarcaViviendas = "TS GENERAL"
	MarcaGarajes   = "GARAJES"
	MarcaTrasteros = "TRASTEROS BR"
)

// FicherosProyecto agrupa el contenido, ya decodificado, de los cuatro CSV
// que componen una promoción.
type FicherosProyecto struct {
	Generales string
	Viviendas string
	Garajes   string
	Trasteros string
}

// DecodificarLatin1 lee un fichero exportado en ISO-8859-1 y lo devuelve
// como UTF-8.
func DecodificarLatin1(r io.Reader) (string, error) {
	b, err := io.ReadAll(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decodificando ISO-8859-1: %w", err)
	}
	return string(b), nil
}

// ClasificarFicheros reparte los ficheros subidos según el marcador presente
// en su nombre y decodifica el contenido. Exige exactamente cuatro ficheros
// y que los cuatro marcadores estén cubiertos; si no, la importación entera
// se aborta sin tocar nada.
func ClasificarFicheros(ficheros map[string]io.Reader) (*FicherosProyecto, error) {
	if len(ficheros) != 4 {
		return nil, fmt.Errorf("selecciona exactamente 4 ficheros CSV del proyecto (%s, %s, %s, %s)",
			MarcaGenerales, MarcaViviendas, MarcaGarajes, MarcaTrasteros)
	}

	var fp FicherosProyecto
	for nombre, r := range ficheros {
		contenido, err := DecodificarLatin1(r)
		if err != nil {
			return nil, fmt.Errorf("leyendo %q: %w", nombre, err)
		}
		mayus := strings.ToUpper(nombre)
		switch {
		case strings.Contains(mayus, MarcaGenerales):
			fp.Generales = contenido
		case strings.Contains(mayus, MarcaViviendas):
			fp.Viviendas = contenido
		case strings.Contains(mayus, MarcaTrasteros):
			fp.Trasteros = contenido
		case strings.Contains(mayus, MarcaGarajes):
			fp.Garajes = contenido
		}
	}

	if fp.Generales == "" || fp.Viviendas == "" || fp.Garajes == "" || fp.Trasteros == "" {
		return nil, fmt.Errorf("falta uno o más ficheros requeridos o su nombre no se reconoce (%s, %s, %s, %s)",
			MarcaGenerales, MarcaViviendas, MarcaGarajes, MarcaTrasteros)
	}
	return &fp, nil
}

// camposFichaTexto mapea las etiquetas del CSV "DS GENERALES" a los campos
// de texto de la ficha. RÉGIMEN no está aquí: tiene regla propia porque
// aparece dos veces en el fichero y cada aparición rellena un campo.
func camposFichaTexto(p *model.Promocion) map[string]*string {
	return map[string]*string{
		"PROMOCIÓN":               &p.Nombre,
		"CÓDIGO":                  &p.Codigo,
		"LOCALIDAD":               &p.Localidad,
		"SITUACIÓN":               &p.Situacion,
		"USO":                     &p.Uso,
		"TIPOLOGÍA":               &p.Tipologia,
		"TIPO DE OBRA":            &p.TipoObra,
		"FASE DEL PROYECTO":       &p.FaseProyecto,
		"SISTEMA DE GESTIÓN":      &p.SistemaGestion,
		"PROPIEDAD":               &p.Propiedad,
		"PROMOTORA/GESTORA":       &p.Promotora,
		"ARQUITECTO":              &p.Arquitecto,
		"ESTUDIO":                 &p.Estudio,
		"ARQUITECTO TÉCNICO 1":    &p.ArquitectoTecnico1,
		"ARQUITECTO TÉCNICO 2":    &p.ArquitectoTecnico2,
		"COMERCIALIZADORA":        &p.Comercializadora,
		"DOCUMENTACIÓN COMERCIAL": &p.DocComercial,
		"INFOGRAFÍAS":             &p.Infografias,
		"GESTORA DE MATERIALES":   &p.GestoraMateriales,
		"PROJECT MANAGMENT":       &p.ProjectManagement, // sic, así viene en el export
		"PROJECT MONITORING":      &p.ProjectMonitoring,
		"CONSTRUCTORA":            &p.Constructora,
		"JEFE DE OBRAS":           &p.JefeObras,
		"ENCARGADO DE OBRAS":      &p.EncargadoObras,
		"GEOTÉCNICO":              &p.Geotecnico,
		"TOPOGRÁFIICO":            &p.Topografico, // sic
		"ICT":                     &p.ICT,
		"OCT":                     &p.OCT,
		"SEGURO DECENAL":          &p.SeguroDecenal,
		"FECHA DE LICENCIA":       &p.FechaLicencia,
		"FECHA ACTA DE REPLANTEO": &p.FechaActaReplanteo,
		"FECHA CFO":               &p.FechaCFO,
		"IPREM":                   &p.IPREM,
		"MÁXIMOS 2025":            &p.Maximos2025,
		"PRECIO LIMITADO":         &p.PrecioLimitado,
	}
}

// camposFichaNumero mapea las etiquetas de la ficha que se interpretan como
// número en formato español.
func camposFichaNumero(p *model.Promocion) map[string]*float64 {
	return map[string]*float64{
		"Nº MÁX. VIVIENDAS":      &p.MaxViviendas,
		"Nº MÍNIMO PLZ. GARAJE":  &p.MinPlazasGaraje,
		"Nº LOCALES COMERCIALES": &p.LocalesComerciales,
		"SUPERFICIE DE PARCELA":  &p.SuperficieParcela,
		"EDIFICABILIDAD MÁXIMA":  &p.EdificabilidadMax,
		"PLANTAS MÁX. SR":        &p.PlantasMaxSR,
		"PLANTAS BR":             &p.PlantasBR,
		"PEM PROYECTO":           &p.PEMProyecto,
		"PEM CONTRATADO":         &p.PEMContratado,
		"COSTES DE URBANIZACIÓN": &p.CostesUrbanizacion,
		"ICIO":                   &p.ICIO,
		"TASAS LICENCIA":         &p.TasasLicencia,
		"FIANZA RESIDUOS":        &p.FianzaResiduos,
		"FIANZA URBANIZACIÓN":    &p.FianzaUrbanizacion,
		"MODULO BASICO":          &p.ModuloBasico,
		"MODULO PONDERADO":       &p.ModuloPonderado,
		"PRECIO REFERENCIA":      &p.PrecioReferencia,
		"PRECIO REF. ANEJOS":     &p.PrecioRefAnejos,
	}
}

// mapFicha procesa el CSV "DS GENERALES": líneas etiqueta;valor sin cabecera.
// Las etiquetas desconocidas se ignoran. La etiqueta RÉGIMEN rellena Regimen
// la primera vez y Regimen2 en apariciones posteriores (así presenta el
// fichero los dos regímenes de la promoción).
func mapFicha(texto string, p *model.Promocion) {
	textos := camposFichaTexto(p)
	numeros := camposFichaNumero(p)

	for _, linea := range strings.Split(texto, "\n") {
		partes := strings.Split(linea, ";")
		if len(partes) < 2 {
			continue
		}
		etiqueta := strings.TrimSuffix(strings.TrimSpace(partes[0]), ":")
		valor := strings.TrimSpace(strings.Join(partes[1:], ";"))

		if etiqueta == "RÉGIMEN" {
			if p.Regimen == "" {
				p.Regimen = valor
			} else {
				p.Regimen2 = valor
			}
			continue
		}
		if destino, ok := textos[etiqueta]; ok {
			*destino = valor
			continue
		}
		if destino, ok := numeros[etiqueta]; ok {
			*destino = ParseNumeroES(valor)
		}
	}
}

// extraDeFila copia todas las columnas de la fila al mapa dinámico,
// aplicando la heurística numérica: un valor no vacío con pinta de importe
// bajo una cabecera que no sea ella misma un número se convierte con
// ParseNumeroES; el resto pasa tal cual.
func extraDeFila(fila map[string]string) map[string]any {
	extra := make(map[string]any, len(fila))
	for k, v := range fila {
		if esImporte(v) && !esCabeceraNumerica(k) {
			extra[k] = ParseNumeroES(v)
		} else {
			extra[k] = v
		}
	}
	return extra
}

// mapViviendas convierte las filas del "TS GENERAL" en viviendas tipadas.
// Cada campo conocido se resuelve probando las variantes históricas del
// nombre de columna en orden de preferencia. Las filas sin identidad se
// descartan; ante ids duplicados se conserva la primera aparición.
func mapViviendas(t *TablaCSV) []model.Vivienda {
	var viviendas []model.Vivienda
	vistos := make(map[string]bool)
	for _, fila := range t.Filas {
		id, _ := ValorDeFila(fila, "ID VIVIENDA", "VIVIENDAS")
		if id == "" || vistos[id] {
			continue
		}
		vistos[id] = true

		dormitorios, _ := ValorDeFila(fila, "Nº DORM", "DORM.")
		banos, _ := ValorDeFila(fila, "Nº BAÑOS", "BAÑOS")
		edificio, _ := ValorDeFila(fila, "EDIFICIO")
		planta, _ := ValorDeFila(fila, "NIVEL", "PLANTA")
		tipo, _ := ValorDeFila(fila, "TIPO")
		posicion, _ := ValorDeFila(fila, "POSICIÓN")
		orientacion, _ := ValorDeFila(fila, "ORIENTACIÓN")
		supUtilViv, _ := ValorDeFila(fila, "SUP. ÚTIL VIVIENDA", "SUP.UTIL.VIVIENDA")
		supUtilTerrC, _ := ValorDeFila(fila, "SUP. ÚTIL TERRAZA CUB.", "SUP.UTIL.TERRAZA CUB.")
		supUtilTerrD, _ := ValorDeFila(fila, "SUP. ÚTIL TERRAZA DESC.", "SUP.UTIL.TERRAZA DESC.")
		supUtilTotal, _ := ValorDeFila(fila, "SUP. ÚTIL TOTAL", "SUP.UTIL.TOTAL")
		supConstViv, _ := ValorDeFila(fila, "SUP. CONST. VIVIENDA", "SUP.CONST.VIVIENDA")
		supConstZC, _ := ValorDeFila(fila, "SUP. CONST. Z.C.", "SUP.CONST.Z.C.")
		supConstTotal, _ := ValorDeFila(fila, "SUP. CONST. TOTAL", "SUP.CONST.TOTAL")
		precio, _ := ValorDeFila(fila, "PRECIO DE VENTA", "PRECIO VENTA", "PRECIO MÁXIMO", "MÁXIMO")

		v := model.Vivienda{
			ID:                 id,
			Edificio:           edificio,
			Planta:             ParseEnteroES(planta),
			Dormitorios:        ParseEnteroES(dormitorios),
			Banos:              ParseEnteroES(banos),
			Tipo:               tipo,
			Posicion:           posicion,
			Orientacion:        orientacion,
			SupUtilVivienda:    ParseNumeroES(supUtilViv),
			SupUtilTerrazaCub:  ParseNumeroES(supUtilTerrC),
			SupUtilTerrazaDesc: ParseNumeroES(supUtilTerrD),
			SupUtilTotal:       ParseNumeroES(supUtilTotal),
			SupConstVivienda:   ParseNumeroES(supConstViv),
			SupConstZC:         ParseNumeroES(supConstZC),
			SupConstTotal:      ParseNumeroES(supConstTotal),
			Precio:             ParseNumeroES(precio),
			// El estado solo lo cambian mutaciones explícitas posteriores;
			// una reimportación nunca lo rederiva.
			Estado: model.EstadoDisponible,
			Extra:  extraDeFila(fila),
		}

		// FASE y PORTAL se fuerzan a entero aunque no formen parte del
		// esquema tipado: el panel ordena por ellos.
		if fase, ok := ValorDeFila(fila, "FASE"); ok {
			v.Extra["FASE"] = ParseEnteroES(fase)
		}
		if portal, ok := ValorDeFila(fila, "PORTAL"); ok {
			v.Extra["PORTAL"] = ParseEnteroES(portal)
		}

		viviendas = append(viviendas, v)
	}
	return viviendas
}

// mapGarajes convierte las filas del CSV "GARAJES" (doble cabecera).
func mapGarajes(t *TablaCSV) []model.Garaje {
	var garajes []model.Garaje
	vistos := make(map[string]bool)
	for _, fila := range t.Filas {
		id, _ := ValorDeFila(fila, "ID-G")
		if id == "" || vistos[id] {
			continue
		}
		vistos[id] = true

		trastero, _ := ValorDeFila(fila, "TRASTERO VINC")
		construida, _ := ValorDeFila(fila, "CONST-G")
		util, _ := ValorDeFila(fila, "ÚTIL PRIV-G")
		precio, _ := ValorDeFila(fila, "PRECIO MÁX-G")
		tipo, _ := ValorDeFila(fila, "TIPO-G")

		garajes = append(garajes, model.Garaje{
			ID:                  id,
			TrasteroVinculadoID: trastero,
			SupConstruida:       ParseNumeroES(construida),
			SupUtil:             ParseNumeroES(util),
			Precio:              ParseNumeroES(precio),
			Tipo:                tipo,
			Extra:               extraDeFila(fila),
		})
	}
	return garajes
}

// mapTrasteros convierte las filas del CSV "TRASTEROS BR" (cabecera simple).
func mapTrasteros(t *TablaCSV) []model.Trastero {
	var trasteros []model.Trastero
	vistos := make(map[string]bool)
	for _, fila := range t.Filas {
		id, _ := ValorDeFila(fila, "ID-T")
		if id == "" || vistos[id] {
			continue
		}
		vistos[id] = true

		plaza, _ := ValorDeFila(fila, "PLAZA VINCULADA")
		construida, _ := ValorDeFila(fila, "CONST-T")
		util, _ := ValorDeFila(fila, "ÚTIL PRIV-T")
		precio, _ := ValorDeFila(fila, "PRECIO MÁX-T")

		trasteros = append(trasteros, model.Trastero{
			ID:               id,
			PlazaVinculadaID: plaza,
			SupConstruida:    ParseNumeroES(construida),
			SupUtil:          ParseNumeroES(util),
			Precio:           ParseNumeroES(precio),
			Extra:            extraDeFila(fila),
		})
	}
	return trasteros
}

// ParsearProyecto monta una Promocion (sin id) a partir del contenido de los
// cuatro CSV. O funciona entero o devuelve error: el llamante no debe
// persistir nada si esto falla.
func ParsearProyecto(f *FicherosProyecto) (*model.Promocion, error) {
	var p model.Promocion

	mapFicha(f.Generales, &p)
	if p.Nombre == "" {
		p.Nombre = "Proyecto Importado"
	}

	tv, err := ParseTablaCSV(f.Viviendas, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MarcaViviendas, err)
	}
	p.Viviendas = mapViviendas(tv)
	p.CabecerasViviendas = tv.Cabeceras
	p.GruposViviendas = tv.Grupos

	tg, err := ParseTablaCSV(f.Garajes, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MarcaGarajes, err)
	}
	p.Garajes = mapGarajes(tg)
	p.CabecerasGarajes = tg.Cabeceras
	p.GruposGarajes = tg.Grupos

	tt, err := ParseTablaCSV(f.Trasteros, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MarcaTrasteros, err)
	}
	p.Trasteros = mapTrasteros(tt)
	p.CabecerasTrasteros = tt.Cabeceras

	return &p, nil
}
