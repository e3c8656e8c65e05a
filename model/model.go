package model

// Estado de comercialización de una vivienda. Los garajes y trasteros no
// guardan estado propio: se deriva en lectura de la vivienda que los tiene
// vinculados (veure EstadoGaraje / EstadoTrastero a core).
//
// Los valores se conservan en inglés porque son los que ya existen en los
// datos persistidos de versiones anteriores del panel.
type Estado string

const (
	EstadoDisponible Estado = "Available"
	EstadoReservada  Estado = "Reserved"
	EstadoVendida    Estado = "Sold"
)

// Valido indica si e es uno de los tres estados conocidos.
func (e Estado) Valido() bool {
	switch e {
	case EstadoDisponible, EstadoReservada, EstadoVendida:
		return true
	}
	return false
}

// Vivienda es una unidad vendible dentro de una promoción.
//
// Los campos tipados son los que el importador resuelve explícitamente del
// CSV "TS GENERAL"; el resto de columnas del fichero de origen viajan en
// Extra tal cual (o convertidas a número por la heurística de importación)
// para poder reconstruir la tabla agrupada del panel sin rederivar nada.
type Vivienda struct {
	ID          string `json:"id"`
	Edificio    string `json:"edificio"`
	Planta      int    `json:"planta"` // puede ser <= 0 (bajo rasante)
	Dormitorios int    `json:"dormitorios"`
	Banos       int    `json:"banos"`
	Tipo        string `json:"tipo"`
	Posicion    string `json:"posicion"`
	Orientacion string `json:"orientacion"`

	SupUtilVivienda    float64 `json:"supUtilVivienda"`
	SupUtilTerrazaCub  float64 `json:"supUtilTerrazaCub"`
	SupUtilTerrazaDesc float64 `json:"supUtilTerrazaDesc"`
	SupUtilTotal       float64 `json:"supUtilTotal"`
	SupConstVivienda   float64 `json:"supConstVivienda"`
	SupConstZC         float64 `json:"supConstZC"`
	SupConstTotal      float64 `json:"supConstTotal"`

	Precio float64 `json:"precio"`
	Estado Estado  `json:"estado"`

	GarajeID    string `json:"garajeId,omitempty"`
	TrasteroID  string `json:"trasteroId,omitempty"`
	CompradorID string `json:"compradorId,omitempty"`
	Notas       string `json:"notas,omitempty"`

	// Fechas en formato ISO (time.RFC3339).
	FechaReserva string `json:"fechaReserva,omitempty"`
	FechaVenta   string `json:"fechaVenta,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Garaje es una plaza de garaje vendible.
type Garaje struct {
	ID                  string  `json:"id"`
	TrasteroVinculadoID string  `json:"trasteroVinculadoId,omitempty"`
	SupConstruida       float64 `json:"supConstruida"`
	SupUtil             float64 `json:"supUtil"`
	Precio              float64 `json:"precio"`
	Tipo                string  `json:"tipo,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Trastero es un trastero vendible.
type Trastero struct {
	ID               string  `json:"id"`
	PlazaVinculadaID string  `json:"plazaVinculadaId,omitempty"`
	SupConstruida    float64 `json:"supConstruida"`
	SupUtil          float64 `json:"supUtil"`
	Precio           float64 `json:"precio"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Promocion es la raíz del agregado: una promoción inmobiliaria con su ficha
// de datos generales y las colecciones de viviendas, garajes y trasteros.
// La ficha proviene del CSV "DS GENERALES" (líneas etiqueta;valor).
type Promocion struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`

	// --- Identificación ---
	Codigo         string `json:"codigo,omitempty"`
	Regimen        string `json:"regimen,omitempty"`
	Regimen2       string `json:"regimen2,omitempty"`
	Localidad      string `json:"localidad,omitempty"`
	Situacion      string `json:"situacion,omitempty"`
	Uso            string `json:"uso,omitempty"`
	Tipologia      string `json:"tipologia,omitempty"`
	TipoObra       string `json:"tipoObra,omitempty"`
	FaseProyecto   string `json:"faseProyecto,omitempty"`
	SistemaGestion string `json:"sistemaGestion,omitempty"`

	// --- Parámetros urbanísticos ---
	MaxViviendas       float64 `json:"maxViviendas,omitempty"`
	MinPlazasGaraje    float64 `json:"minPlazasGaraje,omitempty"`
	LocalesComerciales float64 `json:"localesComerciales,omitempty"`
	SuperficieParcela  float64 `json:"superficieParcela,omitempty"`
	EdificabilidadMax  float64 `json:"edificabilidadMax,omitempty"`
	PlantasMaxSR       float64 `json:"plantasMaxSR,omitempty"`
	PlantasBR          float64 `json:"plantasBR,omitempty"`

	// --- Agentes ---
	Propiedad          string `json:"propiedad,omitempty"`
	Promotora          string `json:"promotora,omitempty"`
	Arquitecto         string `json:"arquitecto,omitempty"`
	Estudio            string `json:"estudio,omitempty"`
	ArquitectoTecnico1 string `json:"arquitectoTecnico1,omitempty"`
	ArquitectoTecnico2 string `json:"arquitectoTecnico2,omitempty"`
	Comercializadora   string `json:"comercializadora,omitempty"`
	DocComercial       string `json:"docComercial,omitempty"`
	Infografias        string `json:"infografias,omitempty"`
	GestoraMateriales  string `json:"gestoraMateriales,omitempty"`

	// --- Gestión de proyecto ---
	ProjectManagement string `json:"projectManagement,omitempty"`
	ProjectMonitoring string `json:"projectMonitoring,omitempty"`
	Constructora      string `json:"constructora,omitempty"`
	JefeObras         string `json:"jefeObras,omitempty"`
	EncargadoObras    string `json:"encargadoObras,omitempty"`
	Geotecnico        string `json:"geotecnico,omitempty"`
	Topografico       string `json:"topografico,omitempty"`
	ICT               string `json:"ict,omitempty"`
	OCT               string `json:"oct,omitempty"`
	SeguroDecenal     string `json:"seguroDecenal,omitempty"`

	// --- Fechas clave ---
	FechaLicencia      string `json:"fechaLicencia,omitempty"`
	FechaActaReplanteo string `json:"fechaActaReplanteo,omitempty"`
	FechaCFO           string `json:"fechaCFO,omitempty"`

	// --- Datos económicos ---
	PEMProyecto        float64 `json:"pemProyecto,omitempty"`
	PEMContratado      float64 `json:"pemContratado,omitempty"`
	CostesUrbanizacion float64 `json:"costesUrbanizacion,omitempty"`
	ICIO               float64 `json:"icio,omitempty"`
	TasasLicencia      float64 `json:"tasasLicencia,omitempty"`
	FianzaResiduos     float64 `json:"fianzaResiduos,omitempty"`
	FianzaUrbanizacion float64 `json:"fianzaUrbanizacion,omitempty"`

	// --- Módulos y precios limitados ---
	IPREM            string  `json:"iprem,omitempty"`
	Maximos2025      string  `json:"maximos2025,omitempty"`
	PrecioLimitado   string  `json:"precioLimitado,omitempty"`
	ModuloBasico     float64 `json:"moduloBasico,omitempty"`
	ModuloPonderado  float64 `json:"moduloPonderado,omitempty"`
	PrecioReferencia float64 `json:"precioReferencia,omitempty"`
	PrecioRefAnejos  float64 `json:"precioRefAnejos,omitempty"`

	// --- Colecciones ---
	Viviendas []Vivienda `json:"viviendas"`
	Garajes   []Garaje   `json:"garajes"`
	Trasteros []Trastero `json:"trasteros"`

	// Definiciones dinámicas de columnas de los CSV de origen, necesarias
	// para que la capa de presentación reconstruya las tablas agrupadas.
	CabecerasViviendas []string `json:"cabecerasViviendas,omitempty"`
	GruposViviendas    []string `json:"gruposViviendas,omitempty"`
	CabecerasGarajes   []string `json:"cabecerasGarajes,omitempty"`
	GruposGarajes      []string `json:"gruposGarajes,omitempty"`
	CabecerasTrasteros []string `json:"cabecerasTrasteros,omitempty"`
}

// BuscarVivienda devuelve el índice de la vivienda con ese id, o -1.
func (p *Promocion) BuscarVivienda(id string) int {
	for i := range p.Viviendas {
		if p.Viviendas[i].ID == id {
			return i
		}
	}
	return -1
}

// TieneGaraje indica si el garaje con ese id existe en la promoción.
func (p *Promocion) TieneGaraje(id string) bool {
	for i := range p.Garajes {
		if p.Garajes[i].ID == id {
			return true
		}
	}
	return false
}

// TieneTrastero indica si el trastero con ese id existe en la promoción.
func (p *Promocion) TieneTrastero(id string) bool {
	for i := range p.Trasteros {
		if p.Trasteros[i].ID == id {
			return true
		}
	}
	return false
}
